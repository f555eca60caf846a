package validation

import (
	"fmt"
	"regexp"
	"time"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// RegisterRules validates the registration form: username, email, password,
// and the password confirmation field.
func RegisterRules() []Rule {
	return []Rule{
		Field("username",
			Trim,
			Required("Username is required"),
			LengthBetween(3, 30, "Username must be 3-30 characters"),
			Matches(usernameRe, "Username can only contain letters, numbers, and underscores"),
		),
		Field("email",
			Trim,
			Required("Email is required"),
			Email("Please enter a valid email"),
		),
		Field("password",
			Required("Password is required"),
			MinLength(6, "Password must be at least 6 characters"),
		),
		Field("confirmPassword",
			Required("Please confirm your password"),
			MatchesField("password", "Passwords do not match"),
		),
	}
}

// LoginRules validates the login form. The password gets a presence check
// only; its format is not policed at login.
func LoginRules() []Rule {
	return []Rule{
		Field("email",
			Trim,
			Required("Email is required"),
			Email("Please enter a valid email"),
		),
		Field("password",
			Required("Password is required"),
		),
	}
}

// MovieRules validates the add/edit movie form. The year's upper bound is
// evaluated against the calendar year of now, so next year's releases can be
// entered ahead of time.
func MovieRules(now time.Time) []Rule {
	maxYear := now.Year() + 1
	return []Rule{
		Field("name",
			Trim,
			Required("Movie name is required"),
			LengthBetween(1, 200, "Name must be 1-200 characters"),
		),
		Field("description",
			Trim,
			Required("Description is required"),
			MinLength(10, "Description must be at least 10 characters"),
		),
		Field("year",
			Trim,
			Required("Year is required"),
			IntBetween(1888, maxYear, fmt.Sprintf("Year must be between 1888 and %d", maxYear)),
		),
		Field("genres",
			AtLeastOne("At least one genre is required"),
		),
		Field("rating",
			OptionalFloatBetween(0, 10, "Rating must be between 0 and 10"),
		),
	}
}
