package validation

import (
	"context"
	"strings"
)

// Lookup answers the uniqueness questions registration needs.
type Lookup interface {
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// Registration is the sign-up payload. Confirmation is only checked when supplied.
type Registration struct {
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Confirmation *string `json:"password_2,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
}

// Normalize trims surrounding whitespace from identifiers.
func (r *Registration) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks every field and returns all failures together.
// A lookup error aborts, since a half-checked registration must not pass.
func (r Registration) Validate(ctx context.Context, lookup Lookup) (Errors, error) {
	problems := Errors{}

	switch {
	case r.Username == "":
		problems.Add("username", "Username is required.")
	default:
		problems.Check("username", r.Username, "max=100", "Username must not exceed 100 characters.")
		taken, err := lookup.UsernameTaken(ctx, r.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			problems.Add("username", "Username used before!")
		}
	}

	if !ValidEmail(r.Email) {
		problems.Add("email", "value is not a valid email address")
	} else {
		problems.Check("email", r.Email, "max=200", "Email must not exceed 200 characters.")
		taken, err := lookup.EmailTaken(ctx, r.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			problems.Add("email", "Email used before!")
		}
	}

	problems.Add("password", PasswordProblems(r.Password)...)

	if r.Confirmation != nil && *r.Confirmation != r.Password {
		problems.Add("password_2", "Passwords do not match.")
	}

	if r.FirstName != nil {
		problems.Check("first_name", *r.FirstName, "max=50", "First name must not exceed 50 characters.")
	}
	if r.LastName != nil {
		problems.Check("last_name", *r.LastName, "max=50", "Last name must not exceed 50 characters.")
	}

	return problems, nil
}
