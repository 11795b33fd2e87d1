package validation

import (
	"fmt"

	"agrihire-backend/models"

	"github.com/go-playground/validator/v10"
)

// EntityType names a draft kind the engine can validate.
type EntityType string

const (
	EntityUser                EntityType = "user"
	EntityOrganization        EntityType = "organization"
	EntityOrganizationDetails EntityType = "organization_details"
	EntityMembership          EntityType = "membership"
	EntityJob                 EntityType = "job"
	EntityJobPosting          EntityType = "job_posting"
	EntityApplication         EntityType = "application"
	EntityEmployeeProfile     EntityType = "employee_profile"
)

// EntityTypes lists every entity in a stable order.
var EntityTypes = []EntityType{
	EntityUser,
	EntityOrganization,
	EntityOrganizationDetails,
	EntityMembership,
	EntityJob,
	EntityJobPosting,
	EntityApplication,
	EntityEmployeeProfile,
}

// ParseEntityType returns the entity type named by s.
func ParseEntityType(s string) (EntityType, bool) {
	e := EntityType(s)
	return e, models.Contains(EntityTypes, e)
}

// Keys used for violations that do not belong to a draft field.
const (
	EntityKey = "_entity"
	StepKey   = "_step"
)

// Step describes one wizard step.
type Step struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Options tune rules whose strictness is a product decision.
type Options struct {
	// RequireEnterpriseLists makes the experience lists (crops, livestock,
	// poultry, fish) mandatory once their enterprise type is selected.
	RequireEnterpriseLists bool
}

type checker interface {
	validate(draft any, step int) (models.Violations, bool)
	steps() []Step
	stepOf(field string) int
	newDraft() any
}

type ruleset[T any] struct {
	rules     []Rule[T]
	stepNames []string
}

func (r ruleset[T]) validate(draft any, step int) (models.Violations, bool) {
	var d *T
	switch x := draft.(type) {
	case *T:
		d = x
	case T:
		d = &x
	default:
		return nil, false
	}
	if d == nil {
		return nil, false
	}
	return evaluate(r.rules, d, step), true
}

func (r ruleset[T]) steps() []Step {
	out := make([]Step, len(r.stepNames))
	for i, name := range r.stepNames {
		out[i] = Step{Number: i + 1, Name: name, Fields: []string{}}
	}
	for _, rule := range r.rules {
		if rule.Step > 0 && rule.Step <= len(out) {
			out[rule.Step-1].Fields = append(out[rule.Step-1].Fields, rule.Field)
		}
	}
	return out
}

func (r ruleset[T]) stepOf(field string) int {
	for _, rule := range r.rules {
		if rule.Field == field {
			return rule.Step
		}
	}
	return 0
}

func (r ruleset[T]) newDraft() any {
	return new(T)
}

// Validator evaluates drafts against the declarative rule tables. It is safe
// for concurrent use.
type Validator struct {
	opts Options
	sets map[EntityType]checker
}

// New builds a Validator with every entity's rule table.
func New(opts Options) *Validator {
	v := validator.New()
	return &Validator{
		opts: opts,
		sets: map[EntityType]checker{
			EntityUser: ruleset[models.User]{rules: userRules(checks[models.User]{v: v})},
			EntityOrganization: ruleset[models.Organization]{
				rules: organizationRules(checks[models.Organization]{v: v}),
			},
			EntityOrganizationDetails: ruleset[models.OrganizationDetails]{
				rules: detailsRules(checks[models.OrganizationDetails]{v: v}),
			},
			EntityMembership: ruleset[models.OrganizationMembership]{
				rules: membershipRules(checks[models.OrganizationMembership]{v: v}),
			},
			EntityJob: ruleset[models.Job]{rules: jobRules(checks[models.Job]{v: v})},
			EntityJobPosting: ruleset[models.JobPostingDraft]{
				rules: jobPostingRules(v),
				stepNames: []string{
					"organization",
					"job_details",
					"worker_requirements",
					"work_conditions",
					"additional_preferences",
					"review",
				},
			},
			EntityApplication: ruleset[models.Application]{
				rules: applicationRules(checks[models.Application]{v: v}),
			},
			EntityEmployeeProfile: ruleset[models.EmployeeProfile]{
				rules: profileRules(checks[models.EmployeeProfile]{v: v}, opts),
				stepNames: []string{
					"personal",
					"education",
					"experience",
					"competencies",
					"preferences",
				},
			},
		},
	}
}

// Options returns the options the validator was built with.
func (v *Validator) Options() Options {
	return v.opts
}

// ValidateStep checks only the fields owned by the given 1-based step of a
// wizard entity.
func (v *Validator) ValidateStep(entity EntityType, step int, draft any) models.Violations {
	set, ok := v.sets[entity]
	if !ok {
		return models.Violations{EntityKey: fmt.Sprintf("unknown entity %q", entity)}
	}
	total := len(set.steps())
	if total == 0 {
		return models.Violations{StepKey: fmt.Sprintf("%s is not validated in steps", entity)}
	}
	if step < 1 || step > total {
		return models.Violations{StepKey: fmt.Sprintf("step must be between 1 and %d", total)}
	}
	out, ok := set.validate(draft, step)
	if !ok {
		return models.Violations{EntityKey: fmt.Sprintf("draft is not a %s", entity)}
	}
	return out
}

// ValidateFull checks every rule of the entity. An empty result means the
// draft may be persisted.
func (v *Validator) ValidateFull(entity EntityType, draft any) models.Violations {
	set, ok := v.sets[entity]
	if !ok {
		return models.Violations{EntityKey: fmt.Sprintf("unknown entity %q", entity)}
	}
	out, ok := set.validate(draft, 0)
	if !ok {
		return models.Violations{EntityKey: fmt.Sprintf("draft is not a %s", entity)}
	}
	return out
}

// Steps returns the wizard steps of entity, or nil when it has none.
func (v *Validator) Steps(entity EntityType) []Step {
	set, ok := v.sets[entity]
	if !ok {
		return nil
	}
	steps := set.steps()
	if len(steps) == 0 {
		return nil
	}
	return steps
}

// StepOf returns the step owning a violated field, or 0 when the field is
// not bound to a step.
func (v *Validator) StepOf(entity EntityType, field string) int {
	set, ok := v.sets[entity]
	if !ok {
		return 0
	}
	return set.stepOf(field)
}

// NewDraft returns a pointer to an empty draft of entity's type.
func (v *Validator) NewDraft(entity EntityType) (any, bool) {
	set, ok := v.sets[entity]
	if !ok {
		return nil, false
	}
	return set.newDraft(), true
}
