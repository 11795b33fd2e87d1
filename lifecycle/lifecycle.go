// Package lifecycle holds the status state machines for jobs and
// applications and the authority rules for moving between states.
package lifecycle

import (
	"agrihire-backend/models"
)

// Actor is the party requesting a status change. Membership is the actor's
// membership in the organization that owns the record, nil when none.
type Actor struct {
	Identity   models.Identity
	Membership *models.OrganizationMembership
}

type jobEdge struct {
	to         models.JobStatus
	employer   bool
	adminOnly  bool
	overriding bool
}

// jobEdges lists every legal job transition. Employers may only submit a
// draft for review; moderation outcomes belong to admins.
var jobEdges = map[models.JobStatus][]jobEdge{
	models.JobStatusDraft: {
		{to: models.JobStatusPendingReview, employer: true},
	},
	models.JobStatusPendingReview: {
		{to: models.JobStatusApproved, adminOnly: true},
		{to: models.JobStatusRejected, adminOnly: true},
	},
	models.JobStatusRejected: {
		{to: models.JobStatusPendingReview, adminOnly: true, overriding: true},
	},
}

var applicationEdges = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusPending:     {models.ApplicationStatusReviewed},
	models.ApplicationStatusReviewed:    {models.ApplicationStatusShortlisted, models.ApplicationStatusRejected, models.ApplicationStatusHired},
	models.ApplicationStatusShortlisted: {models.ApplicationStatusRejected, models.ApplicationStatusHired},
}

// CanPost reports whether a membership role may post jobs and act on
// applications for its organization.
func CanPost(role models.MembershipRole) bool {
	switch role {
	case models.MembershipOwner, models.MembershipManager, models.MembershipRecruiter:
		return true
	}
	return false
}

func (a Actor) canPost() bool {
	return a.Membership != nil && CanPost(a.Membership.Role)
}

func (e jobEdge) permits(a Actor) bool {
	if a.Identity.IsAdmin() {
		return true
	}
	if e.adminOnly {
		return false
	}
	return e.employer && a.canPost()
}

// AllowedJobTransitions returns the states the actor may move a job to from
// the given state.
func AllowedJobTransitions(from models.JobStatus, actor Actor) []models.JobStatus {
	var out []models.JobStatus
	for _, e := range jobEdges[from] {
		if e.permits(actor) {
			out = append(out, e.to)
		}
	}
	return out
}

// TransitionJob checks that job may move to the requested status on the
// actor's behalf. It does not modify job.
func TransitionJob(job *models.Job, to models.JobStatus, actor Actor) error {
	allowed := AllowedJobTransitions(job.Status, actor)
	if models.Contains(allowed, to) {
		return nil
	}
	reason := "transition not permitted"
	switch {
	case !models.Contains(models.JobStatuses, to):
		reason = "unknown status"
	case to == job.Status:
		reason = "job is already in that status"
	case !edgeExists(job.Status, to):
		reason = "no transition between these states"
	case !actor.Identity.IsAdmin():
		reason = "actor lacks authority for this transition"
	}
	return &models.IllegalTransitionError{
		Entity:  "job",
		ID:      job.ID,
		From:    string(job.Status),
		To:      string(to),
		Allowed: toStrings(allowed),
		Reason:  reason,
	}
}

func edgeExists(from, to models.JobStatus) bool {
	for _, e := range jobEdges[from] {
		if e.to == to {
			return true
		}
	}
	return false
}

// CanEditJob reports whether the actor may change the content of a job in
// the given status. Approved jobs are listed as reviewed; only admins may
// edit them.
func CanEditJob(status models.JobStatus, actor Actor) bool {
	return status != models.JobStatusApproved || actor.Identity.IsAdmin()
}

// IsOverride reports whether a job transition reopens a moderation outcome.
func IsOverride(from, to models.JobStatus) bool {
	for _, e := range jobEdges[from] {
		if e.to == to {
			return e.overriding
		}
	}
	return false
}

// AllowedApplicationTransitions returns the states the actor may move an
// application to. Applicants never advance their own applications.
func AllowedApplicationTransitions(app *models.Application, actor Actor) []models.ApplicationStatus {
	if !actor.Identity.IsAdmin() {
		if actor.Identity.UserID == app.JobSeekerID || !actor.canPost() {
			return nil
		}
	}
	return append([]models.ApplicationStatus(nil), applicationEdges[app.Status]...)
}

// TransitionApplication checks that app may move to the requested status on
// the actor's behalf. Actor.Membership must belong to the organization that
// owns the application's job.
func TransitionApplication(app *models.Application, to models.ApplicationStatus, actor Actor) error {
	allowed := AllowedApplicationTransitions(app, actor)
	if models.Contains(allowed, to) {
		return nil
	}
	var reason string
	switch {
	case !models.Contains(models.ApplicationStatuses, to):
		reason = "unknown status"
	case to == app.Status:
		reason = "application is already in that status"
	case !models.Contains(applicationEdges[app.Status], to):
		reason = "no transition between these states"
	case actor.Identity.UserID == app.JobSeekerID:
		reason = "applicants cannot change their own application status"
	default:
		reason = "actor needs an owner, manager or recruiter membership in the job's organization"
	}
	return &models.IllegalTransitionError{
		Entity:  "application",
		ID:      app.ID,
		From:    string(app.Status),
		To:      string(to),
		Allowed: toStrings(allowed),
		Reason:  reason,
	}
}

// IsTerminal reports whether no transition leaves the application status.
func IsTerminal(s models.ApplicationStatus) bool {
	return len(applicationEdges[s]) == 0
}

func toStrings[E ~string](values []E) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
