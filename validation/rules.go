package validation

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"agrihire-backend/models"
)

// Check inspects a draft and returns a violation message, or "" when the
// draft passes.
type Check[T any] func(d *T) string

// Rule declares how one field of a draft is validated. Rules are evaluated
// generically; entity-specific behavior lives only in the rule tables.
type Rule[T any] struct {
	// Field is the dotted JSON path reported in violation maps.
	Field string
	// Step is the 1-based wizard step owning the field. Zero means the field
	// is only checked in full scope.
	Step int
	// Value extracts the field for the presence test.
	Value func(d *T) any
	// Required marks the field mandatory whenever the rule applies.
	Required bool
	// RequiredIf makes the field mandatory when the predicate holds.
	RequiredIf func(d *T) bool
	// When limits the rule to drafts where a sibling selection makes the
	// field meaningful. A nil When always applies.
	When func(d *T) bool
	// Checks run in order on a present value; the first failure is reported.
	Checks []Check[T]
}

func (r Rule[T]) required(d *T) bool {
	if r.Required {
		return true
	}
	return r.RequiredIf != nil && r.RequiredIf(d)
}

// evaluate runs rules against d. A step of zero selects every rule.
func evaluate[T any](rules []Rule[T], d *T, step int) models.Violations {
	out := models.Violations{}
	for _, r := range rules {
		if step > 0 && r.Step != step {
			continue
		}
		if r.When != nil && !r.When(d) {
			continue
		}
		if r.Value != nil && isMissing(r.Value(d)) {
			if r.required(d) {
				out[r.Field] = label(r.Field) + " is required"
			}
			continue
		}
		for _, check := range r.Checks {
			if msg := check(d); msg != "" {
				out[r.Field] = msg
				break
			}
		}
	}
	return out
}

// nest lifts rules written for a child record into a parent draft. Child
// rules with step zero identify the record itself and are dropped; a
// non-zero step overrides the child's own step assignment.
func nest[P, C any](prefix string, step int, get func(*P) *C, rules []Rule[C]) []Rule[P] {
	out := make([]Rule[P], 0, len(rules))
	for _, r := range rules {
		if r.Step == 0 {
			continue
		}
		r := r
		lifted := Rule[P]{
			Field:    prefix + "." + r.Field,
			Step:     r.Step,
			Required: r.Required,
		}
		if step > 0 {
			lifted.Step = step
		}
		if r.Value != nil {
			lifted.Value = func(p *P) any { return r.Value(get(p)) }
		}
		if r.RequiredIf != nil {
			lifted.RequiredIf = func(p *P) bool { return r.RequiredIf(get(p)) }
		}
		if r.When != nil {
			lifted.When = func(p *P) bool { return r.When(get(p)) }
		}
		for _, c := range r.Checks {
			c := c
			lifted.Checks = append(lifted.Checks, func(p *P) string { return c(get(p)) })
		}
		out = append(out, lifted)
	}
	return out
}

// isMissing treats nil, blank strings, empty lists/maps and zero times as
// missing. Numeric zero is present.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if t, ok := v.(time.Time); ok {
		return t.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isMissing(rv.Elem().Interface())
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

// label turns the last segment of a field path into a sentence-case label,
// e.g. "requirements.ageMin" -> "Age min".
func label(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
