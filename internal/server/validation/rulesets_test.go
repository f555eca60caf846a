package validation

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterForm() url.Values {
	return url.Values{
		"username":        {"alice"},
		"email":           {"alice@x.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	}
}

func TestRegisterRules_Valid(t *testing.T) {
	result := Run(validRegisterForm(), RegisterRules()...)
	assert.True(t, result.Valid(), "unexpected failures: %v", result)
}

func TestRegisterRules_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(url.Values)
		field   string
		message string
	}{
		{
			name:    "missing username",
			mutate:  func(v url.Values) { v.Set("username", "") },
			field:   "username",
			message: "Username is required",
		},
		{
			name:    "short username",
			mutate:  func(v url.Values) { v.Set("username", "ab") },
			field:   "username",
			message: "Username must be 3-30 characters",
		},
		{
			name:    "bad username characters",
			mutate:  func(v url.Values) { v.Set("username", "al ice!") },
			field:   "username",
			message: "Username can only contain letters, numbers, and underscores",
		},
		{
			name:    "bad email",
			mutate:  func(v url.Values) { v.Set("email", "not-an-email") },
			field:   "email",
			message: "Please enter a valid email",
		},
		{
			name:    "short password",
			mutate:  func(v url.Values) { v.Set("password", "abc"); v.Set("confirmPassword", "abc") },
			field:   "password",
			message: "Password must be at least 6 characters",
		},
		{
			name:    "confirmation mismatch",
			mutate:  func(v url.Values) { v.Set("confirmPassword", "secret2") },
			field:   "confirmPassword",
			message: "Passwords do not match",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := validRegisterForm()
			tc.mutate(form)

			result := Run(form, RegisterRules()...)

			require.Len(t, result, 1)
			assert.Equal(t, tc.message, result[tc.field])
		})
	}
}

func TestRegisterRules_AllFieldsReported(t *testing.T) {
	result := Run(url.Values{}, RegisterRules()...)

	require.Len(t, result, 4)
	for _, field := range []string{"username", "email", "password", "confirmPassword"} {
		assert.Contains(t, result, field)
	}
}

func TestLoginRules_PasswordPresenceOnly(t *testing.T) {
	form := url.Values{
		"email":    {"alice@x.com"},
		"password": {"x"}, // far below the registration minimum
	}

	result := Run(form, LoginRules()...)
	assert.True(t, result.Valid())
}

func TestLoginRules_EmailNormalized(t *testing.T) {
	form := url.Values{
		"email":    {" Alice@X.COM "},
		"password": {"secret1"},
	}

	result := Run(form, LoginRules()...)

	require.True(t, result.Valid())
	assert.Equal(t, "alice@x.com", form.Get("email"))
}

func validMovieForm() url.Values {
	return url.Values{
		"name":        {"Arrival"},
		"description": {"A linguist deciphers an alien language."},
		"year":        {"2016"},
		"genres":      {"Drama", "Sci-Fi"},
		"rating":      {"7.9"},
	}
}

func TestMovieRules_Valid(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	result := Run(validMovieForm(), MovieRules(now)...)
	assert.True(t, result.Valid(), "unexpected failures: %v", result)
}

func TestMovieRules_YearBoundTracksClock(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	form := validMovieForm()
	form.Set("year", "2027") // next calendar year is allowed
	result := Run(form, MovieRules(now)...)
	assert.True(t, result.Valid())

	form.Set("year", "2028")
	result = Run(form, MovieRules(now)...)
	assert.Equal(t, "Year must be between 1888 and 2027", result["year"])
}

func TestMovieRules_RatingOptional(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	form := validMovieForm()
	form.Del("rating")

	result := Run(form, MovieRules(now)...)
	assert.True(t, result.Valid())
}

func TestMovieRules_InvalidYearAndMissingGenresTogether(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	form := validMovieForm()
	form.Set("year", "1700")
	form.Del("genres")

	result := Run(form, MovieRules(now)...)

	require.Len(t, result, 2)
	assert.Equal(t, fmt.Sprintf("Year must be between 1888 and %d", now.Year()+1), result["year"])
	assert.Equal(t, "At least one genre is required", result["genres"])
}

func TestMovieRules_ScalarGenreAccepted(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	form := validMovieForm()
	form["genres"] = []string{"Drama"}

	result := Run(form, MovieRules(now)...)
	assert.True(t, result.Valid())
}
