package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Skill proficiency bounds.
const (
	MinProficiency = 1
	MaxProficiency = 3
)

type Qualification struct {
	Level EducationLevel `json:"level"`
	Name  string         `json:"name"`
}

type EmployerReference struct {
	FarmName    string `json:"farmName"`
	ContactName string `json:"contactName"`
	Telephone   string `json:"telephone"`
}

type PersonalSection struct {
	FullName       string     `json:"fullName"`
	Gender         Gender     `json:"gender"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	Location       Location   `json:"location"`
	NationalID     string     `json:"nationalId,omitempty"`
	WhatsApp       string     `json:"whatsApp"`
	Email          string     `json:"email"`
	WorkingProfile string     `json:"workingProfile"`
}

type EducationSection struct {
	HighestLevel    EducationLevel  `json:"highestLevel"`
	Qualifications  []Qualification `json:"qualifications"`
	Trainings       []string        `json:"trainings"`
	LanguagesSpoken []string        `json:"languagesSpoken"`
}

// ExperienceSection carries lists that only matter when the matching
// enterprise type is selected, e.g. CropsCaredFor with crop_farm.
type ExperienceSection struct {
	YearsOfExperience *int                `json:"yearsOfExperience"`
	PreviousJobRoles  []string            `json:"previousJobRoles"`
	EnterpriseTypes   []EnterpriseType    `json:"enterpriseTypes"`
	CropsCaredFor     []string            `json:"cropsCaredFor"`
	LivestockCaredFor []string            `json:"livestockCaredFor"`
	PoultryCaredFor   []string            `json:"poultryCaredFor"`
	FishCaredFor      []string            `json:"fishCaredFor"`
	References        []EmployerReference `json:"references"`
}

type CompetenciesSection struct {
	TechnicalSkills       []string       `json:"technicalSkills"`
	EntrepreneurialSkills []string       `json:"entrepreneurialSkills"`
	SpecializedSkills     []string       `json:"specializedSkills"`
	SoftSkills            []string       `json:"softSkills"`
	SkillProficiency      map[string]int `json:"skillProficiency"`
}

type PreferencesSection struct {
	PreferredRegions      []string         `json:"preferredRegions"`
	WorkTypeDesired       JobType          `json:"workTypeDesired"`
	PreferredEnterprise   EnterpriseType   `json:"preferredEnterprise"`
	ExpectedSalaryMin     *decimal.Decimal `json:"expectedSalaryMin"`
	ExpectedSalaryMax     *decimal.Decimal `json:"expectedSalaryMax"`
	WillingToRelocate     YesNo            `json:"willingToRelocate"`
	WillingRemote         YesNo            `json:"willingRemote"`
	PreferredWorkingHours WorkingHours     `json:"preferredWorkingHours"`
	DealBreakers          string           `json:"dealBreakers,omitempty"`
	Attachments           []string         `json:"attachments"`
}

// EmployeeProfile is a job seeker's structured CV. The user id is the natural
// key: a submission replaces the stored profile wholesale.
type EmployeeProfile struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId"`
	Personal     PersonalSection     `json:"personal"`
	Education    EducationSection    `json:"education"`
	Experience   ExperienceSection   `json:"experience"`
	Competencies CompetenciesSection `json:"competencies"`
	Preferences  PreferencesSection  `json:"preferences"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ConditionalLists pairs each enterprise type with the experience list that
// only applies when it is selected.
func (e *ExperienceSection) ConditionalLists() map[EnterpriseType]*[]string {
	return map[EnterpriseType]*[]string{
		EnterpriseCropFarm:      &e.CropsCaredFor,
		EnterpriseLivestockFarm: &e.LivestockCaredFor,
		EnterprisePoultryFarm:   &e.PoultryCaredFor,
		EnterpriseFishFarm:      &e.FishCaredFor,
	}
}

// HasEnterprise reports whether t is among the selected enterprise types.
func (e *ExperienceSection) HasEnterprise(t EnterpriseType) bool {
	return Contains(e.EnterpriseTypes, t)
}

// DropUnselectedLists clears conditional lists whose enterprise type is not
// selected, so they are neither validated nor stored.
func (e *ExperienceSection) DropUnselectedLists() {
	for t, list := range e.ConditionalLists() {
		if !e.HasEnterprise(t) {
			*list = []string{}
		}
	}
}
