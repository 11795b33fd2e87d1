package models

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted,
	ApplicationStatusRejected, ApplicationStatusHired,
}

// Application links a job and a job seeker. The (job, job seeker) pair is
// unique for the whole lifetime of the application. Notes are internal to
// the employer side and never shown to the applicant.
type Application struct {
	ID          string            `json:"id" db:"id"`
	JobID       string            `json:"jobId" db:"job_id"`
	JobSeekerID string            `json:"jobSeekerId" db:"job_seeker_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	AppliedAt   time.Time         `json:"appliedAt" db:"applied_at"`
	CoverLetter string            `json:"coverLetter,omitempty" db:"cover_letter"`
	Notes       string            `json:"notes,omitempty" db:"notes"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`
}

// ApplicationNotesRequest is the body of the employer notes update.
type ApplicationNotesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}
