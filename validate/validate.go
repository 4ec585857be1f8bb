// Package validate implements per-field validation and sanitization chains.
//
// A [Chain] describes how one input field is cleaned and checked: the raw
// value is trimmed, optionally HTML-escaped, and then run through an ordered
// list of rules. Running a set of chains over an input map yields the
// sanitized values plus an ordered list of field errors; the pipeline never
// touches anything outside its input.
package validate

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// FieldError describes a single failed field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RuleKind identifies a rule variant.
type RuleKind int

const (
	// KindRequired rejects empty values.
	KindRequired RuleKind = iota
	// KindMinLength rejects values shorter than N characters.
	KindMinLength
	// KindMaxLength rejects values longer than N characters.
	KindMaxLength
	// KindPattern rejects values not matching a regular expression.
	KindPattern
	// KindExactLength rejects values that are not exactly N characters.
	KindExactLength
)

// Rule is one link in a field chain. Rules are plain data interpreted by
// the pipeline; construct them with the Required, MinLength, MaxLength,
// Pattern, and ExactLength helpers.
type Rule struct {
	Kind    RuleKind
	N       int
	Re      *regexp.Regexp
	Message string
}

// Required returns a rule rejecting empty values.
func Required(message string) Rule {
	return Rule{Kind: KindRequired, Message: message}
}

// MinLength returns a rule rejecting values shorter than n characters.
func MinLength(n int, message string) Rule {
	return Rule{Kind: KindMinLength, N: n, Message: message}
}

// MaxLength returns a rule rejecting values longer than n characters.
func MaxLength(n int, message string) Rule {
	return Rule{Kind: KindMaxLength, N: n, Message: message}
}

// Pattern returns a rule rejecting values that do not match re.
func Pattern(re *regexp.Regexp, message string) Rule {
	return Rule{Kind: KindPattern, Re: re, Message: message}
}

// ExactLength returns a rule rejecting values that are not exactly n
// characters long.
func ExactLength(n int, message string) Rule {
	return Rule{Kind: KindExactLength, N: n, Message: message}
}

// Chain describes the treatment of one input field.
type Chain struct {
	// Field is the input key this chain applies to.
	Field string

	// Optional short-circuits the chain when the trimmed value is empty:
	// no error is reported and no sanitized value is produced, so the
	// caller falls back to the stored value on update.
	Optional bool

	// Escape HTML-escapes the sanitized value. Leave false for fields
	// that are never rendered, such as identifiers.
	Escape bool

	Rules []Rule
}

// Result holds the outcome of running a set of chains.
type Result struct {
	// Values maps field name to sanitized value. A field covered by an
	// optional chain that received no input is absent from the map.
	// Values are populated even for fields that failed a rule, so
	// callers can echo the best-effort sanitized entity back.
	Values map[string]string

	// Errors lists failed fields in chain order, first failed rule per
	// field.
	Errors []FieldError
}

// Run executes every chain against input and collects sanitized values and
// field errors. It never fails: malformed input surfaces as field errors,
// not as a Go error.
func Run(input map[string]string, chains []Chain) Result {
	res := Result{Values: make(map[string]string, len(chains))}

	for _, c := range chains {
		raw := strings.TrimSpace(input[c.Field])
		if raw == "" && c.Optional {
			continue
		}

		sanitized := raw
		if c.Escape {
			sanitized = html.EscapeString(raw)
		}
		res.Values[c.Field] = sanitized

		// Rules check the trimmed, pre-escape value so length rules are
		// not skewed by entity expansion.
		if fe := check(c, raw); fe != nil {
			res.Errors = append(res.Errors, *fe)
		}
	}

	return res
}

// check interprets the chain's rules against value, returning the first
// failure.
func check(c Chain, value string) *FieldError {
	for _, r := range c.Rules {
		switch r.Kind {
		case KindRequired:
			if value == "" {
				return &FieldError{Field: c.Field, Message: r.Message}
			}
		case KindMinLength:
			if len(value) < r.N {
				return &FieldError{Field: c.Field, Message: r.Message}
			}
		case KindMaxLength:
			if len(value) > r.N {
				return &FieldError{Field: c.Field, Message: r.Message}
			}
		case KindPattern:
			if !r.Re.MatchString(value) {
				return &FieldError{Field: c.Field, Message: r.Message}
			}
		case KindExactLength:
			if len(value) != r.N {
				return &FieldError{Field: c.Field, Message: r.Message}
			}
		default:
			return &FieldError{Field: c.Field, Message: fmt.Sprintf("unknown rule kind %d", r.Kind)}
		}
	}
	return nil
}
