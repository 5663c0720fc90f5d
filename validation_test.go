package identity

import (
	"errors"
	"testing"
)

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		name      string
		input     SignupInput
		badFields []string
	}{
		{
			name:  "valid",
			input: SignupInput{Name: "Alice", Email: "a@x.com", Password: "secret1"},
		},
		{
			name:      "short name",
			input:     SignupInput{Name: "Al", Email: "a@x.com", Password: "secret1"},
			badFields: []string{"name"},
		},
		{
			name:      "long name",
			input:     SignupInput{Name: "0123456789012345678901234567890", Email: "a@x.com", Password: "secret1"},
			badFields: []string{"name"},
		},
		{
			name:      "missing email",
			input:     SignupInput{Name: "Alice", Password: "secret1"},
			badFields: []string{"email"},
		},
		{
			name:      "bad email",
			input:     SignupInput{Name: "Alice", Email: "not an email", Password: "secret1"},
			badFields: []string{"email"},
		},
		{
			name:      "short password",
			input:     SignupInput{Name: "Alice", Email: "a@x.com", Password: "five5"},
			badFields: []string{"password"},
		},
		{
			name:      "everything wrong",
			input:     SignupInput{},
			badFields: []string{"name", "email", "password"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSignup(tc.input)
			if len(tc.badFields) == 0 {
				if err != nil {
					t.Fatalf("expected valid input, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if len(verrs) != len(tc.badFields) {
				t.Fatalf("expected %d field errors, got %v", len(tc.badFields), verrs)
			}
			for i, field := range tc.badFields {
				if verrs[i].Field != field {
					t.Fatalf("expected field %q at %d, got %q", field, i, verrs[i].Field)
				}
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin(LoginInput{Email: "a@x.com", Password: "x"}); err != nil {
		t.Fatalf("expected valid login input, got %v", err)
	}

	err := ValidateLogin(LoginInput{})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 2 {
		t.Fatalf("expected 2 field errors, got %v", err)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{
		{Field: "email", Message: "is required"},
		{Field: "password", Message: "must be at least 6 characters"},
	}
	want := "validation failed: email: is required; password: must be at least 6 characters"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
