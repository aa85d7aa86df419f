package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "John Doe",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "John",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "J",
			wantErr: true,
		},
		{
			name:    "name with hyphen",
			input:   "Mary-Jane",
			wantErr: false,
		},
		{
			name:    "name with apostrophe",
			input:   "O'Brien",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password exactly 8 characters",
			password: "pass1234",
			wantErr:  false,
		},
		{
			name:     "password too short",
			password: "pass123",
			wantErr:  true,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
		{
			name:     "long password",
			password: "thisIsAVeryLongPasswordThatShouldBeValid123",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateListWords(t *testing.T) {
	makeWords := func(n int) []string {
		words := make([]string, n)
		for i := range words {
			words[i] = "word" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		}
		return words
	}

	tests := []struct {
		name    string
		words   []string
		wantErr bool
	}{
		{
			name:    "valid list",
			words:   []string{"cat", "dog", "bird"},
			wantErr: false,
		},
		{
			name:    "too few words",
			words:   []string{"cat", "dog"},
			wantErr: true,
		},
		{
			name:    "too many words",
			words:   makeWords(51),
			wantErr: true,
		},
		{
			name:    "duplicate words",
			words:   []string{"cat", "dog", "Cat"},
			wantErr: true,
		},
		{
			name:    "word with digits",
			words:   []string{"cat", "dog", "b1rd"},
			wantErr: true,
		},
		{
			name:    "hyphen and apostrophe allowed",
			words:   []string{"mother-in-law", "don't", "bird"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListWords(tt.words)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateListWords() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGradeLevel(t *testing.T) {
	tests := []struct {
		grade   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{6, false},
		{7, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateGradeLevel(tt.grade)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGradeLevel(%d) error = %v, wantErr %v", tt.grade, err, tt.wantErr)
		}
	}
}
