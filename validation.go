package identity

import (
	"regexp"
	"strings"
)

// Input validation is a pure layer in front of the flows: typed input
// structs checked by plain functions, no schema objects. The limits mirror
// what the service has always accepted: names 3..30 characters, passwords
// at least 6.

const (
	minNameLength     = 3
	maxNameLength     = 30
	minPasswordLength = 6
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full list of input problems for a request. It
// implements error so flows can return it directly.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SignupInput is the typed request body for Engine.Signup.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the typed request body for Engine.Login.
type LoginInput struct {
	Email    string
	Password string
}

// ValidateSignup returns nil or a ValidationErrors listing every problem.
func ValidateSignup(in SignupInput) error {
	var errs ValidationErrors
	if l := len(strings.TrimSpace(in.Name)); l < minNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "must be at least 3 characters"})
	} else if l > maxNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "must be at most 30 characters"})
	}
	errs = appendEmailErrors(errs, in.Email)
	if len(in.Password) < minPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateLogin returns nil or a ValidationErrors. Password content is not
// policed on login; only presence.
func ValidateLogin(in LoginInput) error {
	var errs ValidationErrors
	errs = appendEmailErrors(errs, in.Email)
	if in.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateProfile(p Profile) error {
	var errs ValidationErrors
	if strings.TrimSpace(p.SubjectID) == "" {
		errs = append(errs, FieldError{Field: "subjectId", Message: "is required"})
	}
	errs = appendEmailErrors(errs, p.Email)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func appendEmailErrors(errs ValidationErrors, email string) ValidationErrors {
	if email == "" {
		return append(errs, FieldError{Field: "email", Message: "is required"})
	}
	if !emailRE.MatchString(email) {
		return append(errs, FieldError{Field: "email", Message: "invalid email format"})
	}
	return errs
}
