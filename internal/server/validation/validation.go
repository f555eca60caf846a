// Package validation runs ordered field rules over untrusted form input and
// aggregates every failing field into a Result. Rules are not fail-fast
// across fields: the caller gets all failures at once so a form can redisplay
// them together. Within a single field the first failing check wins.
package validation

import "net/url"

// Result maps a field name to a single human-readable message. Absence of an
// entry means the field passed; an empty Result means the input is accepted.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// Add records a message for a field unless one is already present. The first
// message per field wins, matching the order checks are declared in.
func (r Result) Add(field, msg string) {
	if _, ok := r[field]; !ok {
		r[field] = msg
	}
}

// Check inspects (and may normalize in place) the named field of the input.
// It returns an empty string when the field passes, otherwise the message to
// record for the field.
type Check func(values url.Values, field string) string

// Rule binds a field name to an ordered list of checks.
type Rule struct {
	Field  string
	Checks []Check
}

// Field constructs a Rule for the named field.
func Field(name string, checks ...Check) Rule {
	return Rule{Field: name, Checks: checks}
}

// Run evaluates every rule against the input. Normalizing checks (Trim,
// Email) rewrite values in place, so later checks and the caller observe the
// normalized input.
func Run(values url.Values, rules ...Rule) Result {
	result := Result{}
	for _, rule := range rules {
		for _, check := range rule.Checks {
			if msg := check(values, rule.Field); msg != "" {
				result.Add(rule.Field, msg)
				break
			}
		}
	}
	return result
}
