package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/lifecycle"
	"agrihire-backend/metrics"
	"agrihire-backend/models"
	"agrihire-backend/repository"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"

	"golang.org/x/sync/singleflight"
)

// EntityService is the write path for every draft. It validates the full
// draft, checks the actor's authority and persists the draft with the
// natural-key semantics of its entity, each write in one transaction.
type EntityService struct {
	users         repository.UserRepositoryInterface
	organizations repository.OrganizationRepositoryInterface
	jobs          repository.JobRepositoryInterface
	applications  repository.ApplicationRepositoryInterface
	profiles      repository.EmployeeProfileRepositoryInterface
	db            dal.DatabaseClientInterface
	validator     *validation.Validator
	logger        logger.Logger

	// flight collapses identical submissions that arrive while the first
	// one is still being written, e.g. a double-clicked submit.
	flight singleflight.Group
}

func NewEntityService(repos repository.RepositoryContainerInterface, db dal.DatabaseClientInterface, v *validation.Validator, log logger.Logger) *EntityService {
	return &EntityService{
		users:         repos.GetUserRepository(),
		organizations: repos.GetOrganizationRepository(),
		jobs:          repos.GetJobRepository(),
		applications:  repos.GetApplicationRepository(),
		profiles:      repos.GetEmployeeProfileRepository(),
		db:            db,
		validator:     v,
		logger:        log,
	}
}

func draftAs[T any](draft any) (*T, bool) {
	switch d := draft.(type) {
	case *T:
		return d, d != nil
	case T:
		return &d, true
	}
	return nil, false
}

func mismatch(entity validation.EntityType) error {
	return &models.ValidationError{
		Entity:     string(entity),
		Violations: models.Violations{validation.EntityKey: fmt.Sprintf("draft is not a %s", entity)},
	}
}

// ValidateStep checks the fields of one wizard step.
func (s *EntityService) ValidateStep(entity validation.EntityType, step int, draft any) models.Violations {
	violations := s.validator.ValidateStep(entity, step, draft)
	if len(violations) > 0 {
		metrics.ValidationFailures.WithLabelValues(string(entity), "step").Inc()
	}
	return violations
}

// ValidateFull checks the whole draft after filling the keys the server
// assigns. For memberships and applications it also reports an existing
// record for the same key, so the duplicate is visible before submission.
func (s *EntityService) ValidateFull(ctx context.Context, identity models.Identity, entity validation.EntityType, draft any) (models.Violations, error) {
	prepared, err := s.prepare(identity, entity, draft)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return verr.Violations, nil
		}
		return nil, err
	}

	violations := s.validator.ValidateFull(entity, prepared)
	if len(violations) == 0 {
		switch d := prepared.(type) {
		case *models.OrganizationMembership:
			_, err := s.organizations.GetMembership(ctx, s.db, d.UserID, d.OrganizationID)
			switch {
			case err == nil:
				violations["userId"] = "user is already a member of this organization"
			case !errors.Is(err, models.ErrNotFound):
				return nil, err
			}
		case *models.Application:
			exists, err := s.applications.ApplicationExists(ctx, s.db, d.JobID, d.JobSeekerID)
			if err != nil {
				return nil, err
			}
			if exists {
				violations["jobId"] = "job seeker has already applied to this job"
			}
		}
	}
	if len(violations) > 0 {
		metrics.ValidationFailures.WithLabelValues(string(entity), "full").Inc()
	}
	return violations, nil
}

// prepare fills server-assigned keys from the identity and returns the
// draft as a pointer to its entity type.
func (s *EntityService) prepare(identity models.Identity, entity validation.EntityType, draft any) (any, error) {
	switch entity {
	case validation.EntityUser:
		return nil, &models.ValidationError{
			Entity:     string(entity),
			Violations: models.Violations{validation.EntityKey: "users are created through registration"},
		}
	case validation.EntityOrganization:
		d, ok := draftAs[models.Organization](draft)
		if !ok {
			return nil, mismatch(entity)
		}
		if d.ID == "" {
			d.CreatedBy = identity.UserID
		}
		return d, nil
	case validation.EntityOrganizationDetails:
		d, ok := draftAs[models.OrganizationDetails](draft)
		if !ok {
			return nil, mismatch(entity)
		}
		return d, nil
	case validation.EntityMembership:
		d, ok := draftAs[models.OrganizationMembership](draft)
		if !ok {
			return nil, mismatch(entity)
		}
		return d, nil
	case validation.EntityJob:
		d, ok := draftAs[models.Job](draft)
		if !ok {
			return nil, mismatch(entity)
		}
		if d.PostedBy == "" {
			d.PostedBy = identity.UserID
		}
		return d, nil
	case validation.EntityJobPosting:
		d, ok := draftAs[models.JobPostingDraft](draft)
		if !ok {
			return nil, mismatch(entity)
		}
		d.Details.OrganizationID = d.Organization.ID
		d.Job.OrganizationID = d.Organization.ID
		d.Job.PostedBy = identity.UserID
		return d, nil
	case validation.EntityApplication:
		d, ok := draftAs[models.Application](draft)
		if !ok {
			return nil, mismatch(entity)
		}
		if d.JobSeekerID == "" {
			d.JobSeekerID = identity.UserID
		}
		return d, nil
	case validation.EntityEmployeeProfile:
		d, ok := draftAs[models.EmployeeProfile](draft)
		if !ok {
			return nil, mismatch(entity)
		}
		if d.UserID == "" {
			d.UserID = identity.UserID
		}
		if !s.validator.Options().RequireEnterpriseLists {
			d.Experience.DropUnselectedLists()
		}
		return d, nil
	}
	return nil, &models.ValidationError{
		Entity:     string(entity),
		Violations: models.Violations{validation.EntityKey: fmt.Sprintf("unknown entity %q", entity)},
	}
}

// CreateOrUpdate validates and persists a draft. Organizations, jobs and
// memberships are created when they carry no id; details and profiles are
// upserted by their natural key; a second membership or application for the
// same key is a DuplicateKeyError.
func (s *EntityService) CreateOrUpdate(ctx context.Context, identity models.Identity, entity validation.EntityType, draft any) (*models.UpsertResult, error) {
	prepared, err := s.prepare(identity, entity, draft)
	if err != nil {
		return nil, err
	}
	if violations := s.validator.ValidateFull(entity, prepared); len(violations) > 0 {
		metrics.ValidationFailures.WithLabelValues(string(entity), "full").Inc()
		return nil, &models.ValidationError{Entity: string(entity), Violations: violations}
	}

	key, err := flightKey(identity, entity, prepared)
	if err != nil {
		return nil, err
	}
	v, err, shared := s.flight.Do(key, func() (interface{}, error) {
		result, err := s.write(ctx, identity, entity, prepared)
		if err != nil {
			return nil, err
		}
		outcome := "updated"
		if result.Created {
			outcome = "created"
		}
		metrics.Upserts.WithLabelValues(string(entity), outcome).Inc()
		return result, nil
	})
	if shared {
		s.logger.Debugf("Collapsed concurrent %s submission from %s", entity, identity.UserID)
	}
	if err != nil {
		return nil, err
	}
	return v.(*models.UpsertResult), nil
}

func flightKey(identity models.Identity, entity validation.EntityType, draft any) (string, error) {
	b, err := json.Marshal(draft)
	if err != nil {
		return "", fmt.Errorf("failed to encode draft: %w", err)
	}
	sum := sha256.Sum256(b)
	return string(entity) + "/" + identity.UserID + "/" + hex.EncodeToString(sum[:]), nil
}

func (s *EntityService) write(ctx context.Context, identity models.Identity, entity validation.EntityType, draft any) (*models.UpsertResult, error) {
	var result *models.UpsertResult
	err := s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		var err error
		switch d := draft.(type) {
		case *models.Organization:
			result, err = s.writeOrganization(ctx, tx, identity, d)
		case *models.OrganizationDetails:
			result, err = s.writeDetails(ctx, tx, identity, d)
		case *models.OrganizationMembership:
			result, err = s.writeMembership(ctx, tx, identity, d)
		case *models.Job:
			result, err = s.writeJob(ctx, tx, identity, d)
		case *models.JobPostingDraft:
			var posted *models.JobPostingResult
			posted, err = s.writePosting(ctx, tx, identity, d)
			if err == nil {
				result = &models.UpsertResult{ID: posted.JobID, Created: true}
			}
		case *models.Application:
			result, err = s.writeApplication(ctx, tx, identity, d)
		case *models.EmployeeProfile:
			result, err = s.writeProfile(ctx, tx, identity, d)
		default:
			err = mismatch(entity)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitJobPosting writes the organization, its details and the job of a
// completed posting wizard in one transaction.
func (s *EntityService) SubmitJobPosting(ctx context.Context, identity models.Identity, draft *models.JobPostingDraft) (*models.JobPostingResult, error) {
	// Ids assigned during a rolled back write must not stick to the draft.
	posting := *draft
	prepared, err := s.prepare(identity, validation.EntityJobPosting, &posting)
	if err != nil {
		return nil, err
	}
	if violations := s.validator.ValidateFull(validation.EntityJobPosting, prepared); len(violations) > 0 {
		metrics.ValidationFailures.WithLabelValues(string(validation.EntityJobPosting), "full").Inc()
		return nil, &models.ValidationError{Entity: string(validation.EntityJobPosting), Violations: violations}
	}

	var result *models.JobPostingResult
	err = s.db.TransactionContext(ctx, func(tx *dal.Tx) error {
		var err error
		result, err = s.writePosting(ctx, tx, identity, &posting)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Upserts.WithLabelValues(string(validation.EntityJobPosting), "created").Inc()
	return result, nil
}

func (s *EntityService) writeOrganization(ctx context.Context, h dal.Handler, identity models.Identity, org *models.Organization) (*models.UpsertResult, error) {
	if org.ID != "" {
		stored, err := s.organizations.GetOrganization(ctx, h, org.ID)
		if err != nil {
			return nil, err
		}
		if sameOrganization(stored, org) {
			if err := requirePoster(ctx, s.organizations, h, identity, org.ID); err != nil {
				return nil, err
			}
			return &models.UpsertResult{ID: org.ID}, nil
		}
		if err := requireManager(ctx, s.organizations, h, identity, org.ID); err != nil {
			return nil, err
		}
		if _, err := s.organizations.UpdateOrganization(ctx, h, org); err != nil {
			return nil, err
		}
		return &models.UpsertResult{ID: org.ID}, nil
	}

	if identity.Role != models.UserRoleEmployer && !identity.IsAdmin() {
		return nil, models.ErrForbidden
	}
	created, err := s.createOrganization(ctx, h, identity, org)
	if err != nil {
		return nil, err
	}
	return &models.UpsertResult{ID: created.ID, Created: true}, nil
}

// sameOrganization reports whether the draft leaves the stored organization
// as it is. Unchanged organizations are not rewritten, so recruiters can post
// for them.
func sameOrganization(stored, draft *models.Organization) bool {
	return stored.Name == draft.Name &&
		stored.Type == draft.Type &&
		stored.Description == draft.Description &&
		stored.Website == draft.Website &&
		stored.LogoURL == draft.LogoURL
}

func sameDetails(stored, draft *models.OrganizationDetails) bool {
	sameSize := stored.FarmSizeAcres == nil && draft.FarmSizeAcres == nil ||
		stored.FarmSizeAcres != nil && draft.FarmSizeAcres != nil && *stored.FarmSizeAcres == *draft.FarmSizeAcres
	return sameSize &&
		stored.EnterpriseType == draft.EnterpriseType &&
		slices.Equal(stored.MainEnterprises, draft.MainEnterprises) &&
		stored.Location == draft.Location &&
		stored.FarmStage == draft.FarmStage &&
		stored.ContactPersonName == draft.ContactPersonName &&
		stored.ContactPersonTitle == draft.ContactPersonTitle &&
		stored.WhatsAppContact == draft.WhatsAppContact &&
		stored.Email == draft.Email
}

// createOrganization inserts an organization and makes its creator the
// owner. The membership is primary when it is the creator's first.
func (s *EntityService) createOrganization(ctx context.Context, h dal.Handler, identity models.Identity, org *models.Organization) (*models.Organization, error) {
	org.CreatedBy = identity.UserID
	created, err := s.organizations.CreateOrganization(ctx, h, org)
	if err != nil {
		return nil, err
	}
	existing, err := s.organizations.ListMemberships(ctx, h, identity.UserID)
	if err != nil {
		return nil, err
	}
	_, err = s.organizations.CreateMembership(ctx, h, &models.OrganizationMembership{
		UserID:         identity.UserID,
		OrganizationID: created.ID,
		Role:           models.MembershipOwner,
		IsPrimary:      len(existing) == 0,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *EntityService) writeDetails(ctx context.Context, h dal.Handler, identity models.Identity, d *models.OrganizationDetails) (*models.UpsertResult, error) {
	if _, err := s.organizations.GetOrganization(ctx, h, d.OrganizationID); err != nil {
		return nil, referenceError(err, "organization_details", "organization "+d.OrganizationID, "organization does not exist")
	}
	stored, err := s.organizations.GetDetails(ctx, h, d.OrganizationID)
	switch {
	case err == nil && sameDetails(stored, d):
		if err := requirePoster(ctx, s.organizations, h, identity, d.OrganizationID); err != nil {
			return nil, err
		}
		return &models.UpsertResult{ID: d.OrganizationID}, nil
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return nil, err
	}
	if err := requireManager(ctx, s.organizations, h, identity, d.OrganizationID); err != nil {
		return nil, err
	}
	created, err := s.organizations.UpsertDetails(ctx, h, d)
	if err != nil {
		return nil, err
	}
	return &models.UpsertResult{ID: d.OrganizationID, Created: created}, nil
}

func (s *EntityService) writeMembership(ctx context.Context, h dal.Handler, identity models.Identity, m *models.OrganizationMembership) (*models.UpsertResult, error) {
	if _, err := s.organizations.GetOrganization(ctx, h, m.OrganizationID); err != nil {
		return nil, referenceError(err, "membership", "organization "+m.OrganizationID, "organization does not exist")
	}
	if !identity.IsAdmin() {
		actor, err := membershipOf(ctx, s.organizations, h, identity, m.OrganizationID)
		if err != nil {
			return nil, err
		}
		if actor == nil || actor.Role != models.MembershipOwner {
			return nil, models.ErrForbidden
		}
	}
	if _, err := s.users.GetUserByID(ctx, h, m.UserID); err != nil {
		return nil, referenceError(err, "membership", "user "+m.UserID, "user does not exist")
	}

	existing, err := s.organizations.ListMemberships(ctx, h, m.UserID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.OrganizationID == m.OrganizationID {
			return nil, &models.DuplicateKeyError{Entity: "membership", Key: "user " + m.UserID + " in organization " + m.OrganizationID}
		}
	}
	switch {
	case len(existing) == 0:
		m.IsPrimary = true
	case m.IsPrimary:
		if err := s.organizations.ClearPrimary(ctx, h, m.UserID); err != nil {
			return nil, err
		}
	}

	created, err := s.organizations.CreateMembership(ctx, h, m)
	if err != nil {
		return nil, err
	}
	return &models.UpsertResult{ID: created.ID, Created: true}, nil
}

// postingActor checks that the poster holds a posting-eligible membership
// in an active organization that has its details on record.
func (s *EntityService) postingActor(ctx context.Context, h dal.Handler, identity models.Identity, job *models.Job) error {
	org, err := s.organizations.GetOrganization(ctx, h, job.OrganizationID)
	if err != nil {
		return referenceError(err, "job", "organization "+job.OrganizationID, "organization does not exist")
	}
	if !org.IsActive {
		return &models.ReferentialIntegrityError{Entity: "job", Reference: "organization " + org.ID, Reason: "organization is inactive"}
	}
	if _, err := s.organizations.GetDetails(ctx, h, org.ID); err != nil {
		return referenceError(err, "job", "organization "+org.ID, "organization details must be completed before posting")
	}
	m, err := membershipOf(ctx, s.organizations, h, models.Identity{UserID: job.PostedBy}, org.ID)
	if err != nil {
		return err
	}
	if m == nil || !lifecycle.CanPost(m.Role) {
		return &models.ReferentialIntegrityError{
			Entity:    "job",
			Reference: "poster " + job.PostedBy,
			Reason:    "poster needs an owner, manager or recruiter membership in the organization",
		}
	}
	return nil
}

func (s *EntityService) writeJob(ctx context.Context, h dal.Handler, identity models.Identity, job *models.Job) (*models.UpsertResult, error) {
	if job.ID != "" {
		existing, err := s.jobs.GetJobForUpdate(ctx, h, job.ID)
		if err != nil {
			return nil, err
		}
		if existing.OrganizationID != job.OrganizationID {
			return nil, &models.ValidationError{
				Entity:     "job",
				Violations: models.Violations{"organizationId": "a job cannot move to another organization"},
			}
		}
		if !identity.IsAdmin() {
			m, err := membershipOf(ctx, s.organizations, h, identity, existing.OrganizationID)
			if err != nil {
				return nil, err
			}
			if m == nil || !lifecycle.CanPost(m.Role) {
				return nil, models.ErrForbidden
			}
		}
		if !lifecycle.CanEditJob(existing.Status, lifecycle.Actor{Identity: identity}) {
			return nil, models.ErrJobLocked
		}
		job.PostedBy = existing.PostedBy
		if _, err := s.jobs.UpdateJob(ctx, h, job); err != nil {
			return nil, err
		}
		return &models.UpsertResult{ID: job.ID}, nil
	}

	if job.PostedBy != identity.UserID && !identity.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if err := s.postingActor(ctx, h, identity, job); err != nil {
		return nil, err
	}
	job.Status = models.JobStatusPendingReview
	created, err := s.jobs.CreateJob(ctx, h, job)
	if err != nil {
		return nil, err
	}
	return &models.UpsertResult{ID: created.ID, Created: true}, nil
}

func (s *EntityService) writePosting(ctx context.Context, h dal.Handler, identity models.Identity, p *models.JobPostingDraft) (*models.JobPostingResult, error) {
	if identity.Role != models.UserRoleEmployer && !identity.IsAdmin() {
		return nil, models.ErrForbidden
	}
	result := &models.JobPostingResult{}

	org, err := s.writeOrganization(ctx, h, identity, &p.Organization)
	if err != nil {
		return nil, err
	}
	result.OrganizationID = org.ID
	result.OrganizationCreated = org.Created

	p.Details.OrganizationID = org.ID
	details, err := s.writeDetails(ctx, h, identity, &p.Details)
	if err != nil {
		return nil, err
	}
	result.DetailsCreated = details.Created

	p.Job.ID = ""
	p.Job.OrganizationID = org.ID
	p.Job.PostedBy = identity.UserID
	job, err := s.writeJob(ctx, h, identity, &p.Job)
	if err != nil {
		return nil, err
	}
	result.JobID = job.ID
	result.JobStatus = models.JobStatusPendingReview

	s.logger.Infof("Job %s posted for organization %s by %s", job.ID, org.ID, identity.UserID)
	return result, nil
}

func (s *EntityService) writeApplication(ctx context.Context, h dal.Handler, identity models.Identity, app *models.Application) (*models.UpsertResult, error) {
	if !identity.IsAdmin() && (identity.Role != models.UserRoleJobSeeker || app.JobSeekerID != identity.UserID) {
		return nil, models.ErrForbidden
	}

	job, err := s.jobs.GetJobForUpdate(ctx, h, app.JobID)
	if err != nil {
		return nil, referenceError(err, "application", "job "+app.JobID, "job does not exist")
	}
	if !job.IsListable(time.Now().UTC()) {
		return nil, &models.ReferentialIntegrityError{Entity: "application", Reference: "job " + job.ID, Reason: "job is not open for applications"}
	}
	exists, err := s.applications.ApplicationExists(ctx, h, app.JobID, app.JobSeekerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &models.DuplicateKeyError{Entity: "application", Key: "job " + app.JobID + " by " + app.JobSeekerID}
	}

	// Notes belong to the employer side.
	app.Notes = ""
	created, err := s.applications.CreateApplication(ctx, h, app)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.IncrementApplications(ctx, h, app.JobID); err != nil {
		return nil, err
	}
	return &models.UpsertResult{ID: created.ID, Created: true}, nil
}

func (s *EntityService) writeProfile(ctx context.Context, h dal.Handler, identity models.Identity, p *models.EmployeeProfile) (*models.UpsertResult, error) {
	if p.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, models.ErrForbidden
	}
	created, err := s.profiles.UpsertProfile(ctx, h, p)
	if err != nil {
		return nil, err
	}
	return &models.UpsertResult{ID: p.ID, Created: created}, nil
}

// referenceError turns a missing parent record into a
// ReferentialIntegrityError and passes other errors through.
func referenceError(err error, entity, reference, reason string) error {
	if errors.Is(err, models.ErrNotFound) {
		return &models.ReferentialIntegrityError{Entity: entity, Reference: reference, Reason: reason}
	}
	return err
}
