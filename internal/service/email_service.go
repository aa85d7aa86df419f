package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendChallengeInviteEmail notifies a player that a challenge is waiting for them
func (s *EmailService) SendChallengeInviteEmail(ctx context.Context, toEmail, toName, fromName, listName string, challengeID int64) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): challenge invite to %s", toEmail)
		return nil
	}

	challengeLink := fmt.Sprintf("%s/challenges/%d", s.appBaseURL, challengeID)

	subject := fmt.Sprintf("%s challenged you on SpellQuest!", fromName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>You've Been Challenged!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p><strong>%s</strong> has challenged you to a spelling duel on the list <strong>%s</strong>.</p>
			<p>Whoever spells the most words correctly wins. Are you up for it?</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Accept the Challenge</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from SpellQuest. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, fromName, listName, challengeLink)

	textBody := fmt.Sprintf(`Hi %s,

%s has challenged you to a spelling duel on the list "%s".

Whoever spells the most words correctly wins. Are you up for it?

Accept the challenge: %s

---
This is an automated email from SpellQuest. Please do not reply.
`, toName, fromName, listName, challengeLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendReportNotification alerts the admin that a word has been flagged
func (s *EmailService) SendReportNotification(ctx context.Context, adminEmail, word, reason string, reportCount int) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): report notification for %q", word)
		return nil
	}
	if adminEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("SpellQuest: word %q flagged (%d reports)", word, reportCount)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 5px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="content">
			<p>A word has been flagged by a player.</p>
			<p><strong>Word:</strong> %s</p>
			<p><strong>Reason:</strong> %s</p>
			<p><strong>Total reports for this word:</strong> %d</p>
		</div>
	</div>
</body>
</html>
`, word, reason, reportCount)

	textBody := fmt.Sprintf(`A word has been flagged by a player.

Word: %s
Reason: %s
Total reports for this word: %d
`, word, reason, reportCount)

	return s.sendEmail(ctx, adminEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		if s.debug {
			log.Printf("[DEBUG] SES SendEmail failed: %v", err)
		}
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
