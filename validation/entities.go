package validation

import (
	"fmt"
	"strings"

	"agrihire-backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func required[T any, V any](field string, step int, get func(*T) V, checks ...Check[T]) Rule[T] {
	return Rule[T]{Field: field, Step: step, Value: func(d *T) any { return get(d) }, Required: true, Checks: checks}
}

func optional[T any, V any](field string, step int, get func(*T) V, checks ...Check[T]) Rule[T] {
	return Rule[T]{Field: field, Step: step, Value: func(d *T) any { return get(d) }, Checks: checks}
}

func organizationRules(c checks[models.Organization]) []Rule[models.Organization] {
	type O = models.Organization
	return []Rule[O]{
		required("name", 1, func(o *O) string { return o.Name }, c.length("name", func(o *O) string { return o.Name }, 2, 100)),
		required("type", 1, func(o *O) models.OrganizationType { return o.Type },
			enum(c, "type", func(o *O) models.OrganizationType { return o.Type }, models.OrganizationTypes)),
		required("description", 1, func(o *O) string { return o.Description },
			c.maxLength("description", func(o *O) string { return o.Description }, 2000)),
		optional("website", 1, func(o *O) string { return o.Website }, c.url("website", func(o *O) string { return o.Website })),
	}
}

func detailsRules(c checks[models.OrganizationDetails]) []Rule[models.OrganizationDetails] {
	type D = models.OrganizationDetails
	return []Rule[D]{
		required("organizationId", 0, func(d *D) string { return d.OrganizationID }),
		required("enterpriseType", 1, func(d *D) models.EnterpriseType { return d.EnterpriseType },
			enum(c, "enterpriseType", func(d *D) models.EnterpriseType { return d.EnterpriseType }, models.EnterpriseTypes)),
		required("mainEnterprises", 1, func(d *D) []string { return d.MainEnterprises },
			c.noBlankItems("mainEnterprises", func(d *D) []string { return d.MainEnterprises })),
		required("location.district", 1, func(d *D) string { return d.Location.District }),
		required("location.subCounty", 1, func(d *D) string { return d.Location.SubCounty }),
		required("location.parish", 1, func(d *D) string { return d.Location.Parish }),
		required("location.village", 1, func(d *D) string { return d.Location.Village }),
		required("farmSizeAcres", 1, func(d *D) *float64 { return d.FarmSizeAcres },
			c.floatAtLeast("farmSizeAcres", func(d *D) *float64 { return d.FarmSizeAcres }, 0)),
		required("farmStage", 1, func(d *D) models.FarmStage { return d.FarmStage },
			enum(c, "farmStage", func(d *D) models.FarmStage { return d.FarmStage }, models.FarmStages)),
		required("contactPersonName", 1, func(d *D) string { return d.ContactPersonName }),
		required("contactPersonTitle", 1, func(d *D) string { return d.ContactPersonTitle }),
		required("whatsAppContact", 1, func(d *D) string { return d.WhatsAppContact }),
		required("email", 1, func(d *D) string { return d.Email }, c.email("email", func(d *D) string { return d.Email })),
	}
}

func jobRules(c checks[models.Job]) []Rule[models.Job] {
	type J = models.Job
	provision := func(field string, get func(*J) models.Provision) Rule[J] {
		return required(field, 4, get, enum(c, field, get, models.Provisions))
	}
	ageMin := func(j *J) *int { return j.Requirements.AgeMin }
	ageMax := func(j *J) *int { return j.Requirements.AgeMax }
	salaryMin := func(j *J) *decimal.Decimal { return j.Conditions.SalaryMin }
	salaryMax := func(j *J) *decimal.Decimal { return j.Conditions.SalaryMax }

	return []Rule[J]{
		required("organizationId", 0, func(j *J) string { return j.OrganizationID }),
		required("postedBy", 0, func(j *J) string { return j.PostedBy }),

		required("title", 2, func(j *J) string { return j.Title }, c.length("title", func(j *J) string { return j.Title }, 3, 150)),
		required("totalWorkersNeeded", 2, func(j *J) *int { return j.TotalWorkersNeeded },
			c.intAtLeast("totalWorkersNeeded", func(j *J) *int { return j.TotalWorkersNeeded }, 1)),
		required("description", 2, func(j *J) string { return j.Description },
			c.maxLength("description", func(j *J) string { return j.Description }, 5000)),
		required("jobType", 2, func(j *J) models.JobType { return j.JobType },
			enum(c, "jobType", func(j *J) models.JobType { return j.JobType }, models.JobTypes)),
		{
			Field:      "contractDuration",
			Step:       2,
			Value:      func(j *J) any { return j.ContractDurationMonths },
			RequiredIf: func(j *J) bool { return j.JobType == models.JobTypeContract },
			When:       func(j *J) bool { return j.JobType == models.JobTypeContract },
			Checks:     []Check[J]{c.intAtLeast("contractDuration", func(j *J) *int { return j.ContractDurationMonths }, 1)},
		},
		required("expectedStartDate", 2, func(j *J) any { return j.ExpectedStartDate }),
		required("workingHours", 2, func(j *J) models.WorkingHours { return j.WorkingHours },
			enum(c, "workingHours", func(j *J) models.WorkingHours { return j.WorkingHours }, models.WorkingHoursOptions)),

		required("requirements.genderPreference", 3, func(j *J) models.Gender { return j.Requirements.GenderPreference },
			enum(c, "genderPreference", func(j *J) models.Gender { return j.Requirements.GenderPreference }, models.GenderPreferences)),
		required("requirements.ageMin", 3, ageMin,
			c.intAtLeast("ageMin", ageMin, models.MinWorkerAge),
			c.intAtMost("ageMin", ageMin, models.MaxWorkerAge)),
		required("requirements.ageMax", 3, ageMax,
			c.intAtMost("ageMax", ageMax, models.MaxWorkerAge),
			c.intAtLeast("ageMax", ageMax, models.MinWorkerAge),
			c.intNotBelow("ageMax", ageMax, "ageMin", ageMin)),
		required("requirements.educationLevel", 3, func(j *J) models.EducationLevel { return j.Requirements.EducationLevel },
			enum(c, "educationLevel", func(j *J) models.EducationLevel { return j.Requirements.EducationLevel }, models.EducationLevels)),
		required("requirements.minExperienceYears", 3, func(j *J) *int { return j.Requirements.MinExperienceYears },
			c.intAtLeast("minExperienceYears", func(j *J) *int { return j.Requirements.MinExperienceYears }, 0)),
		required("requirements.languagePreferences", 3, func(j *J) []string { return j.Requirements.LanguagePreferences },
			c.noBlankItems("languagePreferences", func(j *J) []string { return j.Requirements.LanguagePreferences })),
		optional("requirements.technicalSkills", 3, func(j *J) []string { return j.Requirements.TechnicalSkills },
			c.noBlankItems("technicalSkills", func(j *J) []string { return j.Requirements.TechnicalSkills })),
		optional("requirements.certifications", 3, func(j *J) []string { return j.Requirements.Certifications },
			c.noBlankItems("certifications", func(j *J) []string { return j.Requirements.Certifications })),
		optional("requirements.softSkills", 3, func(j *J) []string { return j.Requirements.SoftSkills },
			c.noBlankItems("softSkills", func(j *J) []string { return j.Requirements.SoftSkills })),

		provision("conditions.accommodation", func(j *J) models.Provision { return j.Conditions.Accommodation }),
		provision("conditions.electricity", func(j *J) models.Provision { return j.Conditions.Electricity }),
		provision("conditions.meals", func(j *J) models.Provision { return j.Conditions.Meals }),
		provision("conditions.healthCover", func(j *J) models.Provision { return j.Conditions.HealthCover }),
		provision("conditions.transport", func(j *J) models.Provision { return j.Conditions.Transport }),
		provision("conditions.overtime", func(j *J) models.Provision { return j.Conditions.Overtime }),
		provision("conditions.bonus", func(j *J) models.Provision { return j.Conditions.Bonus }),
		required("conditions.salaryMin", 4, salaryMin, c.nonNegativeAmount("salaryMin", salaryMin)),
		required("conditions.salaryMax", 4, salaryMax,
			c.nonNegativeAmount("salaryMax", salaryMax),
			c.amountNotBelow("salaryMax", salaryMax, "salaryMin", salaryMin)),
		required("conditions.paymentMode", 4, func(j *J) models.PaymentMode { return j.Conditions.PaymentMode },
			enum(c, "paymentMode", func(j *J) models.PaymentMode { return j.Conditions.PaymentMode }, models.PaymentModes)),

		required("preferences.religiousAffiliation", 5, func(j *J) models.ReligiousAffiliation { return j.Preferences.ReligiousAffiliation },
			enum(c, "religiousAffiliation", func(j *J) models.ReligiousAffiliation { return j.Preferences.ReligiousAffiliation }, models.ReligiousAffiliations)),
		optional("preferences.nationalityPreferences", 5, func(j *J) []string { return j.Preferences.NationalityPreferences },
			c.noBlankItems("nationalityPreferences", func(j *J) []string { return j.Preferences.NationalityPreferences })),
		optional("preferences.ethnicPreferences", 5, func(j *J) []string { return j.Preferences.EthnicPreferences },
			c.noBlankItems("ethnicPreferences", func(j *J) []string { return j.Preferences.EthnicPreferences })),
		optional("preferences.remarks", 5, func(j *J) string { return j.Preferences.Remarks },
			c.maxLength("remarks", func(j *J) string { return j.Preferences.Remarks }, 2000)),

		required("expiryDate", 6, func(j *J) any { return j.ExpiryDate }),
	}
}

func jobPostingRules(v *validator.Validate) []Rule[models.JobPostingDraft] {
	type P = models.JobPostingDraft
	var rules []Rule[P]
	rules = append(rules, nest("organization", 1, func(p *P) *models.Organization { return &p.Organization },
		organizationRules(checks[models.Organization]{v: v}))...)
	rules = append(rules, nest("details", 1, func(p *P) *models.OrganizationDetails { return &p.Details },
		detailsRules(checks[models.OrganizationDetails]{v: v}))...)
	rules = append(rules, nest("job", 0, func(p *P) *models.Job { return &p.Job },
		jobRules(checks[models.Job]{v: v}))...)
	return rules
}

func applicationRules(c checks[models.Application]) []Rule[models.Application] {
	type A = models.Application
	return []Rule[A]{
		required("jobId", 0, func(a *A) string { return a.JobID }),
		required("jobSeekerId", 0, func(a *A) string { return a.JobSeekerID }),
		optional("coverLetter", 0, func(a *A) string { return a.CoverLetter },
			c.maxLength("coverLetter", func(a *A) string { return a.CoverLetter }, 5000)),
	}
}

func membershipRules(c checks[models.OrganizationMembership]) []Rule[models.OrganizationMembership] {
	type M = models.OrganizationMembership
	return []Rule[M]{
		required("userId", 0, func(m *M) string { return m.UserID }),
		required("organizationId", 0, func(m *M) string { return m.OrganizationID }),
		required("role", 0, func(m *M) models.MembershipRole { return m.Role },
			enum(c, "role", func(m *M) models.MembershipRole { return m.Role }, models.MembershipRoles)),
	}
}

func userRules(c checks[models.User]) []Rule[models.User] {
	type U = models.User
	return []Rule[U]{
		required("email", 0, func(u *U) string { return u.Email }, c.email("email", func(u *U) string { return u.Email })),
		required("name", 0, func(u *U) string { return u.Name }, c.length("name", func(u *U) string { return u.Name }, 2, 100)),
		required("role", 0, func(u *U) models.UserRole { return u.Role },
			enum(c, "role", func(u *U) models.UserRole { return u.Role }, models.UserRoles)),
	}
}

func profileRules(c checks[models.EmployeeProfile], opts Options) []Rule[models.EmployeeProfile] {
	type P = models.EmployeeProfile
	salaryMin := func(p *P) *decimal.Decimal { return p.Preferences.ExpectedSalaryMin }
	salaryMax := func(p *P) *decimal.Decimal { return p.Preferences.ExpectedSalaryMax }
	enterpriseList := func(field string, t models.EnterpriseType, get func(*P) []string) Rule[P] {
		return Rule[P]{
			Field:    field,
			Step:     3,
			Value:    func(p *P) any { return get(p) },
			Required: opts.RequireEnterpriseLists,
			When:     func(p *P) bool { return p.Experience.HasEnterprise(t) },
			Checks:   []Check[P]{c.noBlankItems(field, get)},
		}
	}
	list := func(field string, step int, get func(*P) []string, req bool) Rule[P] {
		r := optional(field, step, get, c.noBlankItems(field, get))
		r.Required = req
		return r
	}

	return []Rule[P]{
		required("userId", 0, func(p *P) string { return p.UserID }),

		required("personal.fullName", 1, func(p *P) string { return p.Personal.FullName },
			c.length("fullName", func(p *P) string { return p.Personal.FullName }, 2, 150)),
		required("personal.gender", 1, func(p *P) models.Gender { return p.Personal.Gender },
			enum(c, "gender", func(p *P) models.Gender { return p.Personal.Gender }, models.Genders)),
		required("personal.dateOfBirth", 1, func(p *P) any { return p.Personal.DateOfBirth }),
		required("personal.location.district", 1, func(p *P) string { return p.Personal.Location.District }),
		required("personal.location.subCounty", 1, func(p *P) string { return p.Personal.Location.SubCounty }),
		required("personal.location.parish", 1, func(p *P) string { return p.Personal.Location.Parish }),
		required("personal.location.village", 1, func(p *P) string { return p.Personal.Location.Village }),
		optional("personal.nationalId", 1, func(p *P) string { return p.Personal.NationalID },
			c.maxLength("nationalId", func(p *P) string { return p.Personal.NationalID }, 30)),
		required("personal.whatsApp", 1, func(p *P) string { return p.Personal.WhatsApp }),
		required("personal.email", 1, func(p *P) string { return p.Personal.Email },
			c.email("email", func(p *P) string { return p.Personal.Email })),
		required("personal.workingProfile", 1, func(p *P) string { return p.Personal.WorkingProfile },
			c.maxLength("workingProfile", func(p *P) string { return p.Personal.WorkingProfile }, 2000)),

		required("education.highestLevel", 2, func(p *P) models.EducationLevel { return p.Education.HighestLevel },
			enum(c, "highestLevel", func(p *P) models.EducationLevel { return p.Education.HighestLevel }, models.EducationLevels)),
		optional("education.qualifications", 2, func(p *P) []models.Qualification { return p.Education.Qualifications },
			qualificationsCheck(c)),
		list("education.trainings", 2, func(p *P) []string { return p.Education.Trainings }, false),
		list("education.languagesSpoken", 2, func(p *P) []string { return p.Education.LanguagesSpoken }, true),

		required("experience.yearsOfExperience", 3, func(p *P) *int { return p.Experience.YearsOfExperience },
			c.intAtLeast("yearsOfExperience", func(p *P) *int { return p.Experience.YearsOfExperience }, 0)),
		list("experience.previousJobRoles", 3, func(p *P) []string { return p.Experience.PreviousJobRoles }, true),
		required("experience.enterpriseTypes", 3, func(p *P) []models.EnterpriseType { return p.Experience.EnterpriseTypes },
			enumEach(c, "enterpriseTypes", func(p *P) []models.EnterpriseType { return p.Experience.EnterpriseTypes }, models.EnterpriseTypes)),
		enterpriseList("experience.cropsCaredFor", models.EnterpriseCropFarm, func(p *P) []string { return p.Experience.CropsCaredFor }),
		enterpriseList("experience.livestockCaredFor", models.EnterpriseLivestockFarm, func(p *P) []string { return p.Experience.LivestockCaredFor }),
		enterpriseList("experience.poultryCaredFor", models.EnterprisePoultryFarm, func(p *P) []string { return p.Experience.PoultryCaredFor }),
		enterpriseList("experience.fishCaredFor", models.EnterpriseFishFarm, func(p *P) []string { return p.Experience.FishCaredFor }),
		optional("experience.references", 3, func(p *P) []models.EmployerReference { return p.Experience.References },
			referencesCheck[P](func(p *P) []models.EmployerReference { return p.Experience.References })),

		list("competencies.technicalSkills", 4, func(p *P) []string { return p.Competencies.TechnicalSkills }, true),
		list("competencies.entrepreneurialSkills", 4, func(p *P) []string { return p.Competencies.EntrepreneurialSkills }, false),
		list("competencies.specializedSkills", 4, func(p *P) []string { return p.Competencies.SpecializedSkills }, false),
		list("competencies.softSkills", 4, func(p *P) []string { return p.Competencies.SoftSkills }, false),
		optional("competencies.skillProficiency", 4, func(p *P) map[string]int { return p.Competencies.SkillProficiency },
			c.proficiencies("skillProficiency", func(p *P) map[string]int { return p.Competencies.SkillProficiency },
				models.MinProficiency, models.MaxProficiency)),

		list("preferences.preferredRegions", 5, func(p *P) []string { return p.Preferences.PreferredRegions }, true),
		required("preferences.workTypeDesired", 5, func(p *P) models.JobType { return p.Preferences.WorkTypeDesired },
			enum(c, "workTypeDesired", func(p *P) models.JobType { return p.Preferences.WorkTypeDesired }, models.JobTypes)),
		required("preferences.preferredEnterprise", 5, func(p *P) models.EnterpriseType { return p.Preferences.PreferredEnterprise },
			enum(c, "preferredEnterprise", func(p *P) models.EnterpriseType { return p.Preferences.PreferredEnterprise }, models.EnterpriseTypes)),
		required("preferences.expectedSalaryMin", 5, salaryMin, c.nonNegativeAmount("expectedSalaryMin", salaryMin)),
		required("preferences.expectedSalaryMax", 5, salaryMax,
			c.nonNegativeAmount("expectedSalaryMax", salaryMax),
			c.amountNotBelow("expectedSalaryMax", salaryMax, "expectedSalaryMin", salaryMin)),
		required("preferences.willingToRelocate", 5, func(p *P) models.YesNo { return p.Preferences.WillingToRelocate },
			enum(c, "willingToRelocate", func(p *P) models.YesNo { return p.Preferences.WillingToRelocate }, models.YesNoOptions)),
		required("preferences.willingRemote", 5, func(p *P) models.YesNo { return p.Preferences.WillingRemote },
			enum(c, "willingRemote", func(p *P) models.YesNo { return p.Preferences.WillingRemote }, models.YesNoOptions)),
		required("preferences.preferredWorkingHours", 5, func(p *P) models.WorkingHours { return p.Preferences.PreferredWorkingHours },
			enum(c, "preferredWorkingHours", func(p *P) models.WorkingHours { return p.Preferences.PreferredWorkingHours }, models.WorkingHoursOptions)),
		optional("preferences.dealBreakers", 5, func(p *P) string { return p.Preferences.DealBreakers },
			c.maxLength("dealBreakers", func(p *P) string { return p.Preferences.DealBreakers }, 2000)),
		list("preferences.attachments", 5, func(p *P) []string { return p.Preferences.Attachments }, false),
	}
}

func qualificationsCheck(c checks[models.EmployeeProfile]) Check[models.EmployeeProfile] {
	return func(p *models.EmployeeProfile) string {
		for i, q := range p.Education.Qualifications {
			if strings.TrimSpace(q.Name) == "" {
				return fmt.Sprintf("Qualification %d needs a name", i+1)
			}
			if err := c.v.Var(string(q.Level), oneOfTag(models.EducationLevels)); err != nil {
				return fmt.Sprintf("Qualification %d has an unknown level %q", i+1, q.Level)
			}
		}
		return ""
	}
}

func referencesCheck[T any](get func(*T) []models.EmployerReference) Check[T] {
	return func(d *T) string {
		for i, ref := range get(d) {
			if strings.TrimSpace(ref.FarmName) == "" || strings.TrimSpace(ref.ContactName) == "" || strings.TrimSpace(ref.Telephone) == "" {
				return fmt.Sprintf("Reference %d needs a farm name, contact name and telephone", i+1)
			}
		}
		return ""
	}
}
