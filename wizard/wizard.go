// Package wizard drives the multi-step job posting and employee profile
// forms. A Wizard holds one draft, the current step and the violations shown
// to the user; it never advances past a step whose fields are invalid.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"agrihire-backend/models"
	"agrihire-backend/validation"
)

// ErrNoSteps is returned for entities that are not filled in through a wizard.
var ErrNoSteps = errors.New("entity has no wizard steps")

// Submitter persists a fully valid draft and returns the stored result.
type Submitter func(ctx context.Context, draft any) (any, error)

// Wizard is safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	entity    validation.EntityType
	validator *validation.Validator
	steps     []validation.Step

	draft      any
	current    int
	reached    int
	violations models.Violations
	result     any
}

// New starts a wizard on step 1. The draft is empty unless seed is given;
// seed must be a pointer to the entity's draft type and is edited in place.
func New(v *validation.Validator, entity validation.EntityType, seed any) (*Wizard, error) {
	steps := v.Steps(entity)
	if len(steps) == 0 {
		return nil, fmt.Errorf("%s: %w", entity, ErrNoSteps)
	}
	draft, ok := v.NewDraft(entity)
	if !ok {
		return nil, fmt.Errorf("%s: %w", entity, ErrNoSteps)
	}
	if seed != nil {
		if reflect.TypeOf(seed) != reflect.TypeOf(draft) {
			return nil, fmt.Errorf("%s wizard cannot start from a %T", entity, seed)
		}
		draft = seed
	}
	return &Wizard{
		entity:     entity,
		validator:  v,
		steps:      steps,
		draft:      draft,
		current:    1,
		reached:    1,
		violations: models.Violations{},
	}, nil
}

// Snapshot is the wizard state returned to the client.
type Snapshot struct {
	Entity     validation.EntityType `json:"entity"`
	Step       int                   `json:"step"`
	StepName   string                `json:"stepName"`
	TotalSteps int                   `json:"totalSteps"`
	Steps      []validation.Step     `json:"steps"`
	Draft      any                   `json:"draft"`
	Violations models.Violations     `json:"violations"`
	Submitted  bool                  `json:"submitted"`
	Result     any                   `json:"result,omitempty"`
}

// Snapshot copies the wizard state. The draft in it is detached from the
// wizard, so later edits do not show through.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	draft, err := w.copyDraft()
	if err != nil {
		draft = nil
	}
	return Snapshot{
		Entity:     w.entity,
		Step:       w.current,
		StepName:   w.steps[w.current-1].Name,
		TotalSteps: len(w.steps),
		Steps:      w.steps,
		Draft:      draft,
		Violations: w.violations.Clone(),
		Submitted:  w.result != nil,
		Result:     w.result,
	}
}

func (w *Wizard) Entity() validation.EntityType { return w.entity }

func (w *Wizard) Current() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Wizard) Violations() models.Violations {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.violations.Clone()
}

// Edit applies a change to the draft. Violations already shown are checked
// again: fields that became valid are cleared and the rest keep their
// current message. Fields the user has not been told about stay quiet until
// the next GoToNext or Submit.
func (w *Wizard) Edit(apply func(draft any) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := apply(w.draft); err != nil {
		return err
	}
	if len(w.violations) == 0 {
		return nil
	}
	fresh := w.validator.ValidateFull(w.entity, w.draft)
	for field := range w.violations {
		if msg, ok := fresh[field]; ok {
			w.violations[field] = msg
		} else {
			delete(w.violations, field)
		}
	}
	return nil
}

// GoToNext validates the current step and advances when it is clean. The
// returned violations are those of the current step; they are empty on
// success.
func (w *Wizard) GoToNext() models.Violations {
	w.mu.Lock()
	defer w.mu.Unlock()

	found := w.validator.ValidateStep(w.entity, w.current, w.draft)
	w.clearStep(w.current)
	if len(found) > 0 {
		for field, msg := range found {
			w.violations[field] = msg
		}
		return found
	}
	if w.current < len(w.steps) {
		w.current++
		if w.current > w.reached {
			w.reached = w.current
		}
	}
	return models.Violations{}
}

// GoToPrevious steps back without validating. It reports false on step 1.
func (w *Wizard) GoToPrevious() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == 1 {
		return false
	}
	w.current--
	return true
}

// GoTo resumes on any step the user has already reached.
func (w *Wizard) GoTo(step int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if step < 1 || step > w.reached {
		return &models.ValidationError{
			Entity:     string(w.entity),
			Violations: models.Violations{validation.StepKey: fmt.Sprintf("step must be between 1 and %d", w.reached)},
		}
	}
	w.current = step
	return nil
}

// Submit re-validates the whole draft and hands a copy of it to submit, so
// ids assigned by a failed write never leak into the draft. It may only be
// called from the final step. When the draft is invalid the wizard moves
// back to the earliest step holding a violation.
func (w *Wizard) Submit(ctx context.Context, submit Submitter) (any, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current != len(w.steps) {
		return nil, models.ErrNotOnFinalStep
	}
	if w.result != nil {
		return w.result, nil
	}

	found := w.validator.ValidateFull(w.entity, w.draft)
	if len(found) > 0 {
		w.violations = found
		w.current = w.firstStep(found)
		return nil, &models.ValidationError{Entity: string(w.entity), Violations: found.Clone()}
	}

	draft, err := w.copyDraft()
	if err != nil {
		return nil, err
	}
	result, err := submit(ctx, draft)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			w.violations = verr.Violations.Clone()
			w.current = w.firstStep(verr.Violations)
		}
		return nil, err
	}
	w.violations = models.Violations{}
	w.result = result
	return result, nil
}

// copyDraft returns an independent copy of the draft made through its JSON
// form, the same form clients edit and read.
func (w *Wizard) copyDraft() (any, error) {
	b, err := json.Marshal(w.draft)
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s draft: %w", w.entity, err)
	}
	out, _ := w.validator.NewDraft(w.entity)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("failed to copy %s draft: %w", w.entity, err)
	}
	return out, nil
}

// firstStep returns the lowest step owning one of the violated fields.
// Fields bound to no step send the user to the final review step.
func (w *Wizard) firstStep(violations models.Violations) int {
	first := len(w.steps)
	for field := range violations {
		step := w.validator.StepOf(w.entity, field)
		if step >= 1 && step < first {
			first = step
		}
	}
	return first
}

func (w *Wizard) clearStep(step int) {
	for field := range w.violations {
		if w.validator.StepOf(w.entity, field) == step {
			delete(w.violations, field)
		}
	}
}
