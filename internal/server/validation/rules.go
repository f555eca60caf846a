package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Trim normalizes the field by trimming surrounding whitespace from each of
// its values. It never fails.
func Trim(values url.Values, field string) string {
	for i, v := range values[field] {
		values[field][i] = strings.TrimSpace(v)
	}
	return ""
}

// Required fails with msg when the field's first value is empty after
// trimming.
func Required(msg string) Check {
	return func(values url.Values, field string) string {
		if strings.TrimSpace(first(values, field)) == "" {
			return msg
		}
		return ""
	}
}

// LengthBetween fails with msg when the field's character count is outside
// [min, max]. Counts runes, not bytes.
func LengthBetween(min, max int, msg string) Check {
	return func(values url.Values, field string) string {
		n := utf8.RuneCountInString(first(values, field))
		if n < min || n > max {
			return msg
		}
		return ""
	}
}

// MinLength fails with msg when the field is shorter than min characters.
func MinLength(min int, msg string) Check {
	return func(values url.Values, field string) string {
		if utf8.RuneCountInString(first(values, field)) < min {
			return msg
		}
		return ""
	}
}

// Matches fails with msg when the field does not match re.
func Matches(re *regexp.Regexp, msg string) Check {
	return func(values url.Values, field string) string {
		if !re.MatchString(first(values, field)) {
			return msg
		}
		return ""
	}
}

// IntBetween fails with msg when the field does not parse as an integer or
// falls outside [min, max].
func IntBetween(min, max int, msg string) Check {
	return func(values url.Values, field string) string {
		n, err := strconv.Atoi(first(values, field))
		if err != nil || n < min || n > max {
			return msg
		}
		return ""
	}
}

// Email checks the field has an email shape and normalizes it in place:
// trimmed and lowercased. Normalization happens before uniqueness checks run
// elsewhere, so lookups always see the canonical form.
func Email(msg string) Check {
	return func(values url.Values, field string) string {
		v := strings.ToLower(strings.TrimSpace(first(values, field)))
		if len(values[field]) > 0 {
			values[field][0] = v
		}
		if !emailRe.MatchString(v) {
			return msg
		}
		return ""
	}
}

// AtLeastOne fails with msg when the field has no non-empty value. A scalar
// submission arrives as a one-element list, so both cardinalities are handled
// uniformly.
func AtLeastOne(msg string) Check {
	return func(values url.Values, field string) string {
		for _, v := range values[field] {
			if strings.TrimSpace(v) != "" {
				return ""
			}
		}
		return msg
	}
}

// MatchesField fails with msg when the field's value differs from the named
// sibling field.
func MatchesField(other, msg string) Check {
	return func(values url.Values, field string) string {
		if first(values, field) != first(values, other) {
			return msg
		}
		return ""
	}
}

// OptionalFloatBetween passes when the field is absent or empty; otherwise it
// fails with msg when the value does not parse as a float or falls outside
// [min, max].
func OptionalFloatBetween(min, max float64, msg string) Check {
	return func(values url.Values, field string) string {
		v := strings.TrimSpace(first(values, field))
		if v == "" {
			return ""
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < min || f > max {
			return msg
		}
		return ""
	}
}

func first(values url.Values, field string) string {
	if vs := values[field]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
