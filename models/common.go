package models

// Location is the district/sub-county/parish/village hierarchy used by
// organization details and employee profiles. A partial location is invalid.
type Location struct {
	District  string `json:"district"`
	SubCounty string `json:"subCounty"`
	Parish    string `json:"parish"`
	Village   string `json:"village"`
}

// Gender of a job seeker, or a gender preference on a job.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAny    Gender = "any"
)

// Genders lists the values accepted on an employee profile.
var Genders = []Gender{GenderMale, GenderFemale}

// GenderPreferences lists the values accepted on a job's worker requirements.
var GenderPreferences = []Gender{GenderMale, GenderFemale, GenderAny}

// EducationLevel is shared by job requirements and employee profiles.
type EducationLevel string

const (
	EducationNone        EducationLevel = "none"
	EducationPrimary     EducationLevel = "primary"
	EducationSecondary   EducationLevel = "secondary"
	EducationCertificate EducationLevel = "certificate"
	EducationDiploma     EducationLevel = "diploma"
	EducationDegree      EducationLevel = "degree"
	EducationPostgrad    EducationLevel = "postgraduate"
)

var EducationLevels = []EducationLevel{
	EducationNone, EducationPrimary, EducationSecondary, EducationCertificate,
	EducationDiploma, EducationDegree, EducationPostgrad,
}

// EnterpriseType is a farming-enterprise category.
type EnterpriseType string

const (
	EnterpriseCropFarm      EnterpriseType = "crop_farm"
	EnterpriseLivestockFarm EnterpriseType = "livestock_farm"
	EnterprisePoultryFarm   EnterpriseType = "poultry_farm"
	EnterpriseDairyFarm     EnterpriseType = "dairy_farm"
	EnterpriseFishFarm      EnterpriseType = "fish_farm"
	EnterpriseMixedFarm     EnterpriseType = "mixed_farm"
	EnterpriseHorticulture  EnterpriseType = "horticulture"
	EnterpriseApiculture    EnterpriseType = "apiculture"
	EnterpriseAgroProcessor EnterpriseType = "agro_processing"
	EnterpriseForestry      EnterpriseType = "forestry"
	EnterpriseOther         EnterpriseType = "other"
)

var EnterpriseTypes = []EnterpriseType{
	EnterpriseCropFarm, EnterpriseLivestockFarm, EnterprisePoultryFarm, EnterpriseDairyFarm,
	EnterpriseFishFarm, EnterpriseMixedFarm, EnterpriseHorticulture, EnterpriseApiculture,
	EnterpriseAgroProcessor, EnterpriseForestry, EnterpriseOther,
}

// JobType is the employment arrangement of a job, also used as the work type
// a job seeker desires.
type JobType string

const (
	JobTypeFullTime  JobType = "full_time"
	JobTypePartTime  JobType = "part_time"
	JobTypeContract  JobType = "contract"
	JobTypeSeasonal  JobType = "seasonal"
	JobTypeTemporary JobType = "temporary"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeSeasonal, JobTypeTemporary}

// WorkingHours describes the daily schedule.
type WorkingHours string

const (
	WorkingHoursFullDay  WorkingHours = "full_day"
	WorkingHoursHalfDay  WorkingHours = "half_day"
	WorkingHoursShifts   WorkingHours = "shifts"
	WorkingHoursFlexible WorkingHours = "flexible"
)

var WorkingHoursOptions = []WorkingHours{WorkingHoursFullDay, WorkingHoursHalfDay, WorkingHoursShifts, WorkingHoursFlexible}

// YesNo is a boolean captured as an explicit choice so that "not answered"
// stays distinguishable from "no".
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

var YesNoOptions = []YesNo{Yes, No}

// Contains reports whether v is one of values.
func Contains[E comparable](values []E, v E) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
