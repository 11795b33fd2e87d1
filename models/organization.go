package models

import "time"

// OrganizationType classifies the employer.
type OrganizationType string

const (
	OrganizationTypeFarm        OrganizationType = "farm"
	OrganizationTypeCompany     OrganizationType = "company"
	OrganizationTypeCooperative OrganizationType = "cooperative"
	OrganizationTypeNGO         OrganizationType = "ngo"
	OrganizationTypeGovernment  OrganizationType = "government"
	OrganizationTypeOther       OrganizationType = "other"
)

var OrganizationTypes = []OrganizationType{
	OrganizationTypeFarm, OrganizationTypeCompany, OrganizationTypeCooperative,
	OrganizationTypeNGO, OrganizationTypeGovernment, OrganizationTypeOther,
}

// Organization represents a company, farm or cooperative that posts jobs.
type Organization struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Type        OrganizationType `json:"type" db:"type"`
	Description string           `json:"description" db:"description"`
	Website     string           `json:"website,omitempty" db:"website"`
	LogoURL     string           `json:"logoUrl,omitempty" db:"logo_url"`
	IsActive    bool             `json:"isActive" db:"is_active"`
	CreatedBy   string           `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}

// MembershipRole governs what a user may do on behalf of an organization.
type MembershipRole string

const (
	MembershipOwner     MembershipRole = "owner"
	MembershipManager   MembershipRole = "manager"
	MembershipRecruiter MembershipRole = "recruiter"
	MembershipViewer    MembershipRole = "viewer"
)

var MembershipRoles = []MembershipRole{MembershipOwner, MembershipManager, MembershipRecruiter, MembershipViewer}

// OrganizationMembership joins a user to an organization. The (user,
// organization) pair is unique.
type OrganizationMembership struct {
	ID             string         `json:"id" db:"id"`
	UserID         string         `json:"userId" db:"user_id"`
	OrganizationID string         `json:"organizationId" db:"organization_id"`
	Role           MembershipRole `json:"role" db:"role"`
	IsPrimary      bool           `json:"isPrimary" db:"is_primary"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// FarmStage is the maturity of the farming operation.
type FarmStage string

const (
	FarmStagePlanning    FarmStage = "planning"
	FarmStageStartup     FarmStage = "startup"
	FarmStageGrowing     FarmStage = "growing"
	FarmStageEstablished FarmStage = "established"
)

var FarmStages = []FarmStage{FarmStagePlanning, FarmStageStartup, FarmStageGrowing, FarmStageEstablished}

// OrganizationDetails holds the attributes required before an organization
// may post jobs. At most one exists per organization and every field is
// mandatory.
type OrganizationDetails struct {
	OrganizationID     string         `json:"organizationId"`
	EnterpriseType     EnterpriseType `json:"enterpriseType"`
	MainEnterprises    []string       `json:"mainEnterprises"`
	Location           Location       `json:"location"`
	FarmSizeAcres      *float64       `json:"farmSizeAcres"`
	FarmStage          FarmStage      `json:"farmStage"`
	ContactPersonName  string         `json:"contactPersonName"`
	ContactPersonTitle string         `json:"contactPersonTitle"`
	WhatsAppContact    string         `json:"whatsAppContact"`
	Email              string         `json:"email"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// ChangeMembershipRoleRequest is the body of the role-change operation.
type ChangeMembershipRoleRequest struct {
	Role MembershipRole `json:"role" binding:"required,oneof=owner manager recruiter viewer"`
}
