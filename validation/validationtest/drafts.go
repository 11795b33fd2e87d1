// Package validationtest provides complete, valid drafts for tests.
package validationtest

import (
	"time"

	"agrihire-backend/models"

	"github.com/shopspring/decimal"
)

func Int(v int) *int { return &v }

func Float(v float64) *float64 { return &v }

func Amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func Time(t time.Time) *time.Time { return &t }

func Location() models.Location {
	return models.Location{
		District:  "Mukono",
		SubCounty: "Goma",
		Parish:    "Seeta",
		Village:   "Namilyango",
	}
}

func Organization() models.Organization {
	return models.Organization{
		Name:        "Green Acres Farm",
		Type:        models.OrganizationTypeFarm,
		Description: "Mixed crop and dairy farm",
		Website:     "https://greenacres.example.com",
	}
}

func Details() models.OrganizationDetails {
	return models.OrganizationDetails{
		EnterpriseType:     models.EnterpriseMixedFarm,
		MainEnterprises:    []string{"maize", "dairy"},
		Location:           Location(),
		FarmSizeAcres:      Float(25.5),
		FarmStage:          models.FarmStageEstablished,
		ContactPersonName:  "Sarah Nakato",
		ContactPersonTitle: "Farm Manager",
		WhatsAppContact:    "+256700000001",
		Email:              "sarah@greenacres.example.com",
	}
}

// Job returns a full-time job whose owning organization and poster are unset.
func Job() models.Job {
	now := time.Now().UTC()
	return models.Job{
		Title:              "Dairy farm hand",
		TotalWorkersNeeded: Int(3),
		Description:        "Milking, feeding and general care of a 40 cow herd.",
		JobType:            models.JobTypeFullTime,
		ExpectedStartDate:  Time(now.Add(7 * 24 * time.Hour)),
		WorkingHours:       models.WorkingHoursFullDay,
		Requirements: models.WorkerRequirements{
			GenderPreference:    models.GenderAny,
			AgeMin:              Int(18),
			AgeMax:              Int(45),
			EducationLevel:      models.EducationPrimary,
			MinExperienceYears:  Int(1),
			LanguagePreferences: []string{"English", "Luganda"},
			TechnicalSkills:     []string{"milking"},
		},
		Conditions: models.WorkConditions{
			Accommodation: models.ProvisionProvided,
			Electricity:   models.ProvisionProvided,
			Meals:         models.ProvisionProvided,
			HealthCover:   models.ProvisionNegotiable,
			Transport:     models.ProvisionNotProvided,
			Overtime:      models.ProvisionNegotiable,
			Bonus:         models.ProvisionNotProvided,
			SalaryMin:     Amount(300000),
			SalaryMax:     Amount(500000),
			PaymentMode:   models.PaymentModeMobileMoney,
		},
		Preferences: models.AdditionalPreferences{
			ReligiousAffiliation: models.ReligionNoPreference,
			Remarks:              "Accommodation on site.",
		},
		ExpiryDate: Time(now.Add(30 * 24 * time.Hour)),
	}
}

func JobPosting() models.JobPostingDraft {
	return models.JobPostingDraft{
		Organization: Organization(),
		Details:      Details(),
		Job:          Job(),
	}
}

// EmployeeProfile returns a profile for a livestock and crop worker.
func EmployeeProfile(userID string) models.EmployeeProfile {
	return models.EmployeeProfile{
		UserID: userID,
		Personal: models.PersonalSection{
			FullName:       "John Okello",
			Gender:         models.GenderMale,
			DateOfBirth:    Time(time.Date(1995, 3, 14, 0, 0, 0, 0, time.UTC)),
			Location:       Location(),
			WhatsApp:       "+256700000002",
			Email:          "john.okello@example.com",
			WorkingProfile: "Five years on mixed farms.",
		},
		Education: models.EducationSection{
			HighestLevel:    models.EducationSecondary,
			Qualifications:  []models.Qualification{{Level: models.EducationCertificate, Name: "Animal Husbandry"}},
			LanguagesSpoken: []string{"English", "Luo"},
		},
		Experience: models.ExperienceSection{
			YearsOfExperience: Int(5),
			PreviousJobRoles:  []string{"herdsman"},
			EnterpriseTypes:   []models.EnterpriseType{models.EnterpriseLivestockFarm, models.EnterpriseCropFarm},
			CropsCaredFor:     []string{"maize", "beans"},
			LivestockCaredFor: []string{"cattle", "goats"},
			References: []models.EmployerReference{
				{FarmName: "Lira Ranch", ContactName: "Peter Opio", Telephone: "+256700000003"},
			},
		},
		Competencies: models.CompetenciesSection{
			TechnicalSkills:  []string{"milking", "spraying"},
			SoftSkills:       []string{"teamwork"},
			SkillProficiency: map[string]int{"milking": 3, "spraying": 2},
		},
		Preferences: models.PreferencesSection{
			PreferredRegions:      []string{"Central", "Northern"},
			WorkTypeDesired:       models.JobTypeFullTime,
			PreferredEnterprise:   models.EnterpriseLivestockFarm,
			ExpectedSalaryMin:     Amount(250000),
			ExpectedSalaryMax:     Amount(400000),
			WillingToRelocate:     models.Yes,
			WillingRemote:         models.No,
			PreferredWorkingHours: models.WorkingHoursFullDay,
		},
	}
}
