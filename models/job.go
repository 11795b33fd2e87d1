package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type JobStatus string

const (
	JobStatusDraft         JobStatus = "draft"
	JobStatusPendingReview JobStatus = "pending_review"
	JobStatusApproved      JobStatus = "approved"
	JobStatusRejected      JobStatus = "rejected"
)

var JobStatuses = []JobStatus{JobStatusDraft, JobStatusPendingReview, JobStatusApproved, JobStatusRejected}

// Provision says whether an employer offers a work condition.
type Provision string

const (
	ProvisionProvided    Provision = "provided"
	ProvisionNotProvided Provision = "not_provided"
	ProvisionNegotiable  Provision = "negotiable"
)

var Provisions = []Provision{ProvisionProvided, ProvisionNotProvided, ProvisionNegotiable}

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeMobileMoney  PaymentMode = "mobile_money"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeInKind       PaymentMode = "in_kind"
)

var PaymentModes = []PaymentMode{PaymentModeCash, PaymentModeMobileMoney, PaymentModeBankTransfer, PaymentModeInKind}

type ReligiousAffiliation string

const (
	ReligionNoPreference ReligiousAffiliation = "no_preference"
	ReligionChristian    ReligiousAffiliation = "christian"
	ReligionMuslim       ReligiousAffiliation = "muslim"
	ReligionOther        ReligiousAffiliation = "other"
)

var ReligiousAffiliations = []ReligiousAffiliation{ReligionNoPreference, ReligionChristian, ReligionMuslim, ReligionOther}

// Age bounds enforced on worker requirements.
const (
	MinWorkerAge = 16
	MaxWorkerAge = 80
)

type WorkerRequirements struct {
	GenderPreference    Gender         `json:"genderPreference"`
	AgeMin              *int           `json:"ageMin"`
	AgeMax              *int           `json:"ageMax"`
	EducationLevel      EducationLevel `json:"educationLevel"`
	MinExperienceYears  *int           `json:"minExperienceYears"`
	LanguagePreferences []string       `json:"languagePreferences"`
	TechnicalSkills     []string       `json:"technicalSkills"`
	Certifications      []string       `json:"certifications"`
	SoftSkills          []string       `json:"softSkills"`
}

type WorkConditions struct {
	Accommodation Provision        `json:"accommodation"`
	Electricity   Provision        `json:"electricity"`
	Meals         Provision        `json:"meals"`
	HealthCover   Provision        `json:"healthCover"`
	Transport     Provision        `json:"transport"`
	Overtime      Provision        `json:"overtime"`
	Bonus         Provision        `json:"bonus"`
	SalaryMin     *decimal.Decimal `json:"salaryMin"`
	SalaryMax     *decimal.Decimal `json:"salaryMax"`
	PaymentMode   PaymentMode      `json:"paymentMode"`
}

type AdditionalPreferences struct {
	ReligiousAffiliation   ReligiousAffiliation `json:"religiousAffiliation"`
	NationalityPreferences []string             `json:"nationalityPreferences"`
	EthnicPreferences      []string             `json:"ethnicPreferences"`
	Remarks                string               `json:"remarks,omitempty"`
}

// Job is a posting owned by one organization and posted by one user holding
// a posting-eligible membership in it.
type Job struct {
	ID                     string                `json:"id"`
	OrganizationID         string                `json:"organizationId"`
	PostedBy               string                `json:"postedBy"`
	Title                  string                `json:"title"`
	TotalWorkersNeeded     *int                  `json:"totalWorkersNeeded"`
	Description            string                `json:"description"`
	JobType                JobType               `json:"jobType"`
	ContractDurationMonths *int                  `json:"contractDuration"`
	ExpectedStartDate      *time.Time            `json:"expectedStartDate"`
	WorkingHours           WorkingHours          `json:"workingHours"`
	Requirements           WorkerRequirements    `json:"requirements"`
	Conditions             WorkConditions        `json:"conditions"`
	Preferences            AdditionalPreferences `json:"preferences"`
	Status                 JobStatus             `json:"status"`
	PostedAt               time.Time             `json:"postedAt"`
	ExpiryDate             *time.Time            `json:"expiryDate"`
	IsActive               bool                  `json:"isActive"`
	ApplicationsCount      int                   `json:"applicationsCount"`
	CreatedAt              time.Time             `json:"createdAt"`
	UpdatedAt              time.Time             `json:"updatedAt"`
}

// IsListable reports whether the job belongs in public listings at now.
func (j *Job) IsListable(now time.Time) bool {
	return j.Status == JobStatusApproved && j.IsWithinActiveWindow(now)
}

// IsWithinActiveWindow reports whether the job is active and unexpired at now.
func (j *Job) IsWithinActiveWindow(now time.Time) bool {
	if !j.IsActive {
		return false
	}
	return j.ExpiryDate == nil || !j.ExpiryDate.Before(now)
}

// JobPostingDraft is the accumulated state of the organization/job posting
// wizard. An empty Organization.ID means the organization is new.
type JobPostingDraft struct {
	Organization Organization        `json:"organization"`
	Details      OrganizationDetails `json:"details"`
	Job          Job                 `json:"job"`
}

// JobPostingResult is returned after a job posting is submitted.
type JobPostingResult struct {
	OrganizationID      string    `json:"organizationId"`
	OrganizationCreated bool      `json:"organizationCreated"`
	DetailsCreated      bool      `json:"detailsCreated"`
	JobID               string    `json:"jobId"`
	JobStatus           JobStatus `json:"jobStatus"`
}

type JobFilter struct {
	Status         JobStatus `json:"status,omitempty" form:"status"`
	OrganizationID string    `json:"organizationId,omitempty" form:"organizationId"`
	PostedBy       string    `json:"postedBy,omitempty" form:"postedBy"`
	ActiveOnly     bool      `json:"activeOnly,omitempty" form:"activeOnly"`
}

// StatusChangeRequest is the body of the job and application status endpoints.
type StatusChangeRequest struct {
	Status string `json:"status" binding:"required"`
}
