package validation

import (
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 50
)

// PasswordProblems returns every rule the password violates, in a stable order.
func PasswordProblems(password string) []string {
	var (
		upper, lower, digit, space, symbol bool
	)
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	var problems []string
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		problems = append(problems, "Password must be at least 8 characters.")
	}
	if n > MaxPasswordLength {
		problems = append(problems, "Password must not exceed 50 characters.")
	}
	if !upper {
		problems = append(problems, "Password must contain at least one uppercase letter.")
	}
	if !lower {
		problems = append(problems, "Password must contain at least one lowercase letter.")
	}
	if !digit {
		problems = append(problems, "Password must contain at least one digit.")
	}
	if space {
		problems = append(problems, "Password must not contain spaces.")
	}
	if !symbol {
		problems = append(problems, "Password must contain at least one symbol.")
	}
	return problems
}

// PasswordChange is the reset / change form: a new password and its confirmation.
type PasswordChange struct {
	Password     string `json:"password"`
	Confirmation string `json:"password_2"`
}

func (p PasswordChange) Validate() Errors {
	problems := Errors{}
	problems.Add("password", PasswordProblems(p.Password)...)
	if p.Confirmation != p.Password {
		problems.Add("password_2", "Passwords do not match.")
	}
	return problems
}
