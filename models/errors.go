package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleState is returned when a record changed between read and write.
	ErrStaleState = errors.New("record was modified concurrently")
	// ErrForbidden is returned when the actor may not perform the operation.
	ErrForbidden = errors.New("actor is not allowed to perform this operation")
	// ErrJobLocked is returned when the content of an approved job is edited.
	ErrJobLocked = errors.New("approved jobs cannot be edited")
	// ErrNotOnFinalStep is returned when a wizard is submitted early.
	ErrNotOnFinalStep = errors.New("wizard can only be submitted from its final step")
)

// Violations maps a field path to a human-readable violation. An empty map
// means the draft is acceptable for the validated scope.
type Violations map[string]string

// Fields returns the violated field paths in sorted order.
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (v Violations) Clone() Violations {
	out := make(Violations, len(v))
	for f, msg := range v {
		out[f] = msg
	}
	return out
}

// ValidationError carries the field-level violations of a rejected write.
type ValidationError struct {
	Entity     string
	Violations Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, f := range e.Violations.Fields() {
		parts = append(parts, f+": "+e.Violations[f])
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// DuplicateKeyError is returned when a second record is created for a unique
// natural key whose semantics are reject-as-duplicate.
type DuplicateKeyError struct {
	Entity string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists for %s", e.Entity, e.Key)
}

// IllegalTransitionError is returned when a status change is not reachable
// from the current status or the actor lacks authority for it.
type IllegalTransitionError struct {
	Entity  string   `json:"entity"`
	ID      string   `json:"id,omitempty"`
	From    string   `json:"currentStatus"`
	To      string   `json:"requestedStatus"`
	Allowed []string `json:"allowedStatuses"`
	Reason  string   `json:"reason,omitempty"`
}

func (e *IllegalTransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	msg := fmt.Sprintf("illegal %s transition %s -> %s (allowed: %s)", e.Entity, e.From, e.To, allowed)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// ReferentialIntegrityError is returned when a write references a missing or
// ineligible record.
type ReferentialIntegrityError struct {
	Entity    string
	Reference string
	Reason    string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s references %s: %s", e.Entity, e.Reference, e.Reason)
}

// DataQualityWarning reports a stored multi-valued field that could not be
// decoded. The field is read as empty; the read itself succeeds.
type DataQualityWarning struct {
	Entity string
	ID     string
	Field  string
	Err    error
}

func (w DataQualityWarning) String() string {
	return fmt.Sprintf("%s %s: field %s could not be decoded: %v", w.Entity, w.ID, w.Field, w.Err)
}

// UpsertResult is returned by create-or-update operations.
type UpsertResult struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}
