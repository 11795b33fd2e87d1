package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// checks builds Check values backed by a shared validator instance.
type checks[T any] struct {
	v *validator.Validate
}

func oneOfTag[E ~string](values []E) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "oneof=" + strings.Join(parts, " ")
}

func allowed[E ~string](values []E) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// enum is a free function because methods cannot add type parameters.
func enum[T any, E ~string](c checks[T], field string, get func(*T) E, values []E) Check[T] {
	tag := oneOfTag(values)
	return func(d *T) string {
		if err := c.v.Var(string(get(d)), tag); err != nil {
			return fmt.Sprintf("%s must be one of: %s", label(field), allowed(values))
		}
		return ""
	}
}

func enumEach[T any, E ~string](c checks[T], field string, get func(*T) []E, values []E) Check[T] {
	tag := oneOfTag(values)
	return func(d *T) string {
		for _, item := range get(d) {
			if err := c.v.Var(string(item), tag); err != nil {
				return fmt.Sprintf("%s contains %q; allowed values: %s", label(field), item, allowed(values))
			}
		}
		return ""
	}
}

func (c checks[T]) email(field string, get func(*T) string) Check[T] {
	return func(d *T) string {
		if err := c.v.Var(strings.TrimSpace(get(d)), "email"); err != nil {
			return label(field) + " must be a valid email address"
		}
		return ""
	}
}

func (c checks[T]) url(field string, get func(*T) string) Check[T] {
	return func(d *T) string {
		if err := c.v.Var(strings.TrimSpace(get(d)), "url"); err != nil {
			return label(field) + " must be a valid URL"
		}
		return ""
	}
}

func (c checks[T]) length(field string, get func(*T) string, min, max int) Check[T] {
	tag := fmt.Sprintf("min=%d,max=%d", min, max)
	return func(d *T) string {
		if err := c.v.Var(strings.TrimSpace(get(d)), tag); err != nil {
			return fmt.Sprintf("%s must be between %d and %d characters", label(field), min, max)
		}
		return ""
	}
}

func (c checks[T]) maxLength(field string, get func(*T) string, max int) Check[T] {
	tag := fmt.Sprintf("max=%d", max)
	return func(d *T) string {
		if err := c.v.Var(get(d), tag); err != nil {
			return fmt.Sprintf("%s must be at most %d characters", label(field), max)
		}
		return ""
	}
}

func (c checks[T]) intAtLeast(field string, get func(*T) *int, min int) Check[T] {
	return func(d *T) string {
		if p := get(d); p != nil && *p < min {
			if min == 1 {
				return label(field) + " must be greater than 0"
			}
			return fmt.Sprintf("%s must be at least %d", label(field), min)
		}
		return ""
	}
}

func (c checks[T]) intAtMost(field string, get func(*T) *int, max int) Check[T] {
	return func(d *T) string {
		if p := get(d); p != nil && *p > max {
			return fmt.Sprintf("%s must be at most %d", label(field), max)
		}
		return ""
	}
}

// intNotBelow fails when the field is below a sibling field. A missing
// sibling is reported by the sibling's own rule.
func (c checks[T]) intNotBelow(field string, get func(*T) *int, otherField string, other func(*T) *int) Check[T] {
	return func(d *T) string {
		p, o := get(d), other(d)
		if p != nil && o != nil && *p < *o {
			return fmt.Sprintf("%s must be greater than or equal to %s", label(field), strings.ToLower(label(otherField)))
		}
		return ""
	}
}

func (c checks[T]) floatAtLeast(field string, get func(*T) *float64, min float64) Check[T] {
	return func(d *T) string {
		if p := get(d); p != nil && *p < min {
			return fmt.Sprintf("%s must not be negative", label(field))
		}
		return ""
	}
}

func (c checks[T]) nonNegativeAmount(field string, get func(*T) *decimal.Decimal) Check[T] {
	return func(d *T) string {
		if p := get(d); p != nil && p.IsNegative() {
			return label(field) + " must not be negative"
		}
		return ""
	}
}

// amountNotBelow attributes a max < min violation to the max field.
func (c checks[T]) amountNotBelow(field string, get func(*T) *decimal.Decimal, otherField string, other func(*T) *decimal.Decimal) Check[T] {
	return func(d *T) string {
		p, o := get(d), other(d)
		if p != nil && o != nil && p.LessThan(*o) {
			return fmt.Sprintf("%s must be greater than or equal to %s", label(field), strings.ToLower(label(otherField)))
		}
		return ""
	}
}

func (c checks[T]) noBlankItems(field string, get func(*T) []string) Check[T] {
	return func(d *T) string {
		for i, item := range get(d) {
			if strings.TrimSpace(item) == "" {
				return fmt.Sprintf("%s item %d is empty", label(field), i+1)
			}
		}
		return ""
	}
}

func (c checks[T]) proficiencies(field string, get func(*T) map[string]int, min, max int) Check[T] {
	tag := fmt.Sprintf("min=%d,max=%d", min, max)
	return func(d *T) string {
		levels := get(d)
		skills := make([]string, 0, len(levels))
		for skill := range levels {
			skills = append(skills, skill)
		}
		sort.Strings(skills)
		for _, skill := range skills {
			if err := c.v.Var(levels[skill], tag); err != nil {
				return fmt.Sprintf("%s for %q must be between %d and %d", label(field), skill, min, max)
			}
		}
		return ""
	}
}
