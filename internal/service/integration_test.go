package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"spellquest/internal/database"
	"spellquest/internal/identity"
	"spellquest/internal/models"
	"spellquest/internal/repository"
)

type testEnv struct {
	db           *database.DB
	userRepo     *repository.UserRepository
	sessionRepo  *repository.SessionRepository
	listService  *ListService
	shopService  *ShopService
	challenges   *ChallengeService
	achievements *AchievementService
	games        *GameService
	leaderboards *LeaderboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "service_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationsDir := filepath.Join("..", "..", "migrations", db.Dialect.MigrationsSubdir())
	if err := db.RunMigrations(migrationsDir); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	emailService, err := NewEmailService("", "", "", "", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	shopRepo := repository.NewShopRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	listService := NewListService(listRepo, db)
	achievementService := NewAchievementService(achievementRepo, sessionRepo)
	challengeService := NewChallengeService(challengeRepo, userRepo, listRepo, emailService)

	return &testEnv{
		db:           db,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		listService:  listService,
		shopService:  NewShopService(shopRepo, userRepo),
		challenges:   challengeService,
		achievements: achievementService,
		games:        NewGameService(sessionRepo, listRepo, leaderboardRepo, listService, achievementService, challengeService),
		leaderboards: NewLeaderboardService(leaderboardRepo),
	}
}

// insertCompletedSession writes a finished session straight into the table
// so achievement recomputes can be driven from arbitrary history
func (e *testEnv) insertCompletedSession(t *testing.T, userID, listID int64, mode string, correct, incorrect int) {
	t.Helper()
	_, err := e.db.Exec(`
		INSERT INTO game_sessions
			(user_id, word_list_id, mode, score, correct_words, incorrect_words,
			 total_words, is_complete, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, userID, listID, mode, correct*10, correct, incorrect, correct+incorrect, true)
	if err != nil {
		t.Fatalf("Failed to insert completed session: %v", err)
	}
}

func (e *testEnv) createUser(t *testing.T, username string, currency int) *models.User {
	t.Helper()
	user, err := e.userRepo.CreateUser(username, username+"@example.com", "hashedpass")
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	if currency != 0 {
		if _, err := e.db.Exec("UPDATE users SET currency = ? WHERE id = ?", currency, user.ID); err != nil {
			t.Fatalf("Failed to set currency: %v", err)
		}
	}
	return user
}

func (e *testEnv) createList(t *testing.T, ownerID int64) *models.ListWithWords {
	t.Helper()
	list, err := e.listService.CreateList(ownerID, "Duel Words", "", models.VisibilityPrivate, 3,
		[]string{"apple", "banana", "cherry"})
	if err != nil {
		t.Fatalf("Failed to create list: %v", err)
	}
	return list
}

func (e *testEnv) balance(t *testing.T, userID int64) int {
	t.Helper()
	balance, err := e.shopService.GetBalance(userID)
	if err != nil {
		t.Fatalf("Failed to get balance: %v", err)
	}
	return balance
}

func (e *testEnv) storedStars(t *testing.T, userID, listID int64) int {
	t.Helper()
	stars, err := e.achievements.StarsForList(userID, listID)
	if err != nil {
		t.Fatalf("Failed to get stored stars: %v", err)
	}
	return stars
}

func (e *testEnv) achievementRows(t *testing.T, userID, listID int64) int {
	t.Helper()
	var count int
	err := e.db.QueryRow("SELECT COUNT(*) FROM achievements WHERE user_id = ? AND word_list_id = ?",
		userID, listID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count achievements: %v", err)
	}
	return count
}

func TestPurchaseDebitsAtomically(t *testing.T) {
	env := newTestEnv(t)

	if err := env.shopService.SeedCatalog(); err != nil {
		t.Fatalf("Failed to seed catalog: %v", err)
	}
	catalog, err := env.shopService.GetCatalog()
	if err != nil {
		t.Fatalf("Failed to get catalog: %v", err)
	}
	var item *models.ShopItem
	for i := range catalog {
		if catalog[i].Cost == 10 {
			item = &catalog[i]
			break
		}
	}
	if item == nil {
		t.Fatal("Expected a catalog item costing 10")
	}

	user := env.createUser(t, "buyer", 25)

	// 3 x 10 against a balance of 25: rejected, balance untouched
	_, err = env.shopService.Purchase(user.ID, item.ID, 3)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Purchase with short balance: got err %v, want ErrInsufficientFunds", err)
	}
	if got := env.balance(t, user.ID); got != 25 {
		t.Errorf("Balance after rejected purchase = %d, want 25", got)
	}

	if _, err := env.db.Exec("UPDATE users SET currency = ? WHERE id = ?", 35, user.ID); err != nil {
		t.Fatalf("Failed to top up balance: %v", err)
	}

	receipt, err := env.shopService.Purchase(user.ID, item.ID, 3)
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if receipt.TotalCost != 30 {
		t.Errorf("TotalCost = %d, want 30", receipt.TotalCost)
	}
	if receipt.NewBalance != 5 {
		t.Errorf("NewBalance = %d, want 5", receipt.NewBalance)
	}
	if receipt.NewQuantity != 3 {
		t.Errorf("NewQuantity = %d, want 3", receipt.NewQuantity)
	}
	if got := env.balance(t, user.ID); got != 5 {
		t.Errorf("Balance after purchase = %d, want 5", got)
	}
}

func TestChallengeLifecycle(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice", 0)
	bob := env.createUser(t, "bob", 0)
	list := env.createList(t, alice.ID)

	challenge, err := env.challenges.Create(context.Background(), alice.ID, "bob", list.List.ID)
	if err != nil {
		t.Fatalf("Failed to create challenge: %v", err)
	}
	if challenge.Status != models.ChallengePending {
		t.Fatalf("New challenge status = %s, want pending", challenge.Status)
	}

	// Only the opponent may accept
	if _, err := env.challenges.Accept(challenge.ID, alice.ID); err == nil {
		t.Error("Initiator accepting own challenge should fail")
	}

	challenge, err = env.challenges.Accept(challenge.ID, bob.ID)
	if err != nil {
		t.Fatalf("Failed to accept challenge: %v", err)
	}
	if challenge.Status != models.ChallengeActive {
		t.Fatalf("Accepted challenge status = %s, want active", challenge.Status)
	}

	// Initiator 80, opponent 60: initiator wins and is credited one star
	if _, err := env.challenges.RecordResult(challenge.ID, alice.ID, 80, 12000, 8, 2); err != nil {
		t.Fatalf("Failed to record initiator result: %v", err)
	}
	resolved, err := env.challenges.RecordResult(challenge.ID, bob.ID, 60, 15000, 6, 4)
	if err != nil {
		t.Fatalf("Failed to record opponent result: %v", err)
	}
	if resolved.Status != models.ChallengeCompleted {
		t.Errorf("Resolved status = %s, want completed", resolved.Status)
	}
	if resolved.WinnerID == nil || *resolved.WinnerID != alice.ID {
		t.Errorf("WinnerID = %v, want %d", resolved.WinnerID, alice.ID)
	}
	if got := env.balance(t, alice.ID); got != 1 {
		t.Errorf("Winner balance = %d, want 1", got)
	}
	if got := env.balance(t, bob.ID); got != 0 {
		t.Errorf("Loser balance = %d, want 0", got)
	}

	// A completed challenge accepts no further results and never re-awards
	if _, err := env.challenges.RecordResult(challenge.ID, alice.ID, 200, 1, 10, 0); !errors.Is(err, ErrChallengeNotActive) {
		t.Errorf("Result on completed challenge: got err %v, want ErrChallengeNotActive", err)
	}
	if got := env.balance(t, alice.ID); got != 1 {
		t.Errorf("Winner balance after replay = %d, want 1", got)
	}
}

func TestChallengeDeclineHasNoEffects(t *testing.T) {
	env := newTestEnv(t)

	carol := env.createUser(t, "carol", 7)
	dave := env.createUser(t, "dave", 3)
	list := env.createList(t, carol.ID)

	challenge, err := env.challenges.Create(context.Background(), carol.ID, "dave", list.List.ID)
	if err != nil {
		t.Fatalf("Failed to create challenge: %v", err)
	}

	declined, err := env.challenges.Decline(challenge.ID, dave.ID)
	if err != nil {
		t.Fatalf("Failed to decline challenge: %v", err)
	}
	if declined.Status != models.ChallengeDeclined {
		t.Errorf("Declined status = %s, want declined", declined.Status)
	}
	if got := env.balance(t, carol.ID); got != 7 {
		t.Errorf("Initiator balance after decline = %d, want 7", got)
	}
	if got := env.balance(t, dave.ID); got != 3 {
		t.Errorf("Opponent balance after decline = %d, want 3", got)
	}

	// Declined is terminal
	if _, err := env.challenges.Accept(challenge.ID, dave.ID); !errors.Is(err, ErrChallengeNotPending) {
		t.Errorf("Accept after decline: got err %v, want ErrChallengeNotPending", err)
	}
}

func TestGuestSessionGetsGeneratedName(t *testing.T) {
	env := newTestEnv(t)

	if err := env.listService.SeedBuiltInLists(); err != nil {
		t.Fatalf("Failed to seed built-in lists: %v", err)
	}

	easy := models.DifficultyEasy
	session, err := env.games.StartSession(identity.Guest("device-1", ""), StartSessionInput{
		Mode:       models.ModeStandard,
		Difficulty: &easy,
	})
	if err != nil {
		t.Fatalf("Failed to start guest session: %v", err)
	}

	if session.GuestName == "" {
		t.Fatal("Guest session has no display name")
	}
	if !strings.Contains(session.GuestName, "-") {
		t.Errorf("Guest name %q is not in adjective-noun form", session.GuestName)
	}
	if session.UserID != nil {
		t.Errorf("Guest session has a user ID: %v", *session.UserID)
	}
}

func TestAchievementRecomputeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "earner", 0)
	list := env.createList(t, user.ID)
	listID := list.List.ID

	// Two perfect runs of the same mode count once; practice and imperfect
	// runs count never
	env.insertCompletedSession(t, user.ID, listID, models.ModeStandard, 5, 0)
	env.insertCompletedSession(t, user.ID, listID, models.ModeStandard, 5, 0)
	env.insertCompletedSession(t, user.ID, listID, models.ModePractice, 5, 0)
	env.insertCompletedSession(t, user.ID, listID, models.ModeTimed, 4, 1)

	stars, err := env.achievements.Recompute(user.ID, listID)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if stars != 1 {
		t.Fatalf("Stars after one perfect mode = %d, want 1", stars)
	}

	// Re-running over the same history changes nothing
	stars, err = env.achievements.Recompute(user.ID, listID)
	if err != nil {
		t.Fatalf("Second recompute failed: %v", err)
	}
	if stars != 1 {
		t.Errorf("Stars after replayed recompute = %d, want 1", stars)
	}
	if got := env.storedStars(t, user.ID, listID); got != 1 {
		t.Errorf("Stored stars = %d, want 1", got)
	}
	if got := env.achievementRows(t, user.ID, listID); got != 1 {
		t.Errorf("Achievement rows = %d, want 1", got)
	}

	// Three more distinct perfect modes: the tier saturates at 3
	env.insertCompletedSession(t, user.ID, listID, models.ModeTimed, 5, 0)
	env.insertCompletedSession(t, user.ID, listID, models.ModeQuiz, 5, 0)
	env.insertCompletedSession(t, user.ID, listID, models.ModeScramble, 5, 0)

	stars, err = env.achievements.Recompute(user.ID, listID)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if stars != 3 {
		t.Errorf("Stars after four perfect modes = %d, want 3 (saturated)", stars)
	}
	if got := env.storedStars(t, user.ID, listID); got != 3 {
		t.Errorf("Stored stars = %d, want 3", got)
	}
	if got := env.achievementRows(t, user.ID, listID); got != 1 {
		t.Errorf("Achievement rows = %d, want 1 (upsert, not insert)", got)
	}
}

func TestLeaderboardTop(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "ranked", 0)
	leaderboardRepo := repository.NewLeaderboardRepository(env.db)

	easy := models.DifficultyEasy
	for i := 0; i < 12; i++ {
		session, err := env.sessionRepo.CreateSession(&models.GameSession{
			UserID:     &user.ID,
			Difficulty: &easy,
			Mode:       models.ModeStandard,
			TotalWords: 10,
		})
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		err = leaderboardRepo.InsertScore(&models.LeaderboardScore{
			UserID:        &user.ID,
			Score:         10 * (i + 1),
			Difficulty:    easy,
			GameSessionID: session.ID,
		})
		if err != nil {
			t.Fatalf("Failed to insert score: %v", err)
		}
	}

	// One score on a different tier must not leak into the easy board
	medium := models.DifficultyMedium
	session, err := env.sessionRepo.CreateSession(&models.GameSession{
		UserID:     &user.ID,
		Difficulty: &medium,
		Mode:       models.ModeStandard,
		TotalWords: 10,
	})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	err = leaderboardRepo.InsertScore(&models.LeaderboardScore{
		UserID:        &user.ID,
		Score:         999,
		Difficulty:    medium,
		GameSessionID: session.ID,
	})
	if err != nil {
		t.Fatalf("Failed to insert score: %v", err)
	}

	entries, err := env.leaderboards.Top(easy)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("Leaderboard size = %d, want 10", len(entries))
	}
	for i, entry := range entries {
		if entry.Difficulty != easy {
			t.Errorf("Entry %d difficulty = %s, want %s", i, entry.Difficulty, easy)
		}
		if i > 0 && entry.Score > entries[i-1].Score {
			t.Errorf("Entry %d score %d out of order (previous %d)", i, entry.Score, entries[i-1].Score)
		}
	}
	if entries[0].Score != 120 {
		t.Errorf("Top score = %d, want 120", entries[0].Score)
	}
}
