package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/utils"
	"agrihire-backend/utils/logger"

	"github.com/shopspring/decimal"
)

type EmployeeProfileRepository struct {
	config *models.Config
	codec  *Codec
	logger logger.Logger
}

// NewEmployeeProfileRepository creates a new employee profile repository
func NewEmployeeProfileRepository(cfg *models.Config, codec *Codec, log logger.Logger) *EmployeeProfileRepository {
	return &EmployeeProfileRepository{
		config: cfg,
		codec:  codec,
		logger: log,
	}
}

type profileRow struct {
	ID                    string              `db:"id"`
	UserID                string              `db:"user_id"`
	FullName              string              `db:"full_name"`
	Gender                string              `db:"gender"`
	DateOfBirth           *time.Time          `db:"date_of_birth"`
	District              string              `db:"district"`
	SubCounty             string              `db:"sub_county"`
	Parish                string              `db:"parish"`
	Village               string              `db:"village"`
	NationalID            string              `db:"national_id"`
	WhatsApp              string              `db:"whatsapp"`
	Email                 string              `db:"email"`
	WorkingProfile        string              `db:"working_profile"`
	HighestLevel          string              `db:"highest_level"`
	Qualifications        string              `db:"qualifications"`
	Trainings             string              `db:"trainings"`
	LanguagesSpoken       string              `db:"languages_spoken"`
	YearsOfExperience     sql.NullInt64       `db:"years_of_experience"`
	PreviousJobRoles      string              `db:"previous_job_roles"`
	EnterpriseTypes       string              `db:"enterprise_types"`
	CropsCaredFor         string              `db:"crops_cared_for"`
	LivestockCaredFor     string              `db:"livestock_cared_for"`
	PoultryCaredFor       string              `db:"poultry_cared_for"`
	FishCaredFor          string              `db:"fish_cared_for"`
	EmployerReferences    string              `db:"employer_references"`
	TechnicalSkills       string              `db:"technical_skills"`
	EntrepreneurialSkills string              `db:"entrepreneurial_skills"`
	SpecializedSkills     string              `db:"specialized_skills"`
	SoftSkills            string              `db:"soft_skills"`
	SkillProficiency      string              `db:"skill_proficiency"`
	PreferredRegions      string              `db:"preferred_regions"`
	WorkTypeDesired       string              `db:"work_type_desired"`
	PreferredEnterprise   string              `db:"preferred_enterprise"`
	ExpectedSalaryMin     decimal.NullDecimal `db:"expected_salary_min"`
	ExpectedSalaryMax     decimal.NullDecimal `db:"expected_salary_max"`
	WillingToRelocate     string              `db:"willing_to_relocate"`
	WillingRemote         string              `db:"willing_remote"`
	PreferredWorkingHours string              `db:"preferred_working_hours"`
	DealBreakers          string              `db:"deal_breakers"`
	Attachments           string              `db:"attachments"`
	CreatedAt             time.Time           `db:"created_at"`
	UpdatedAt             time.Time           `db:"updated_at"`
}

var profileColumnList = []string{
	"id", "user_id", "full_name", "gender", "date_of_birth", "district", "sub_county", "parish", "village",
	"national_id", "whatsapp", "email", "working_profile", "highest_level", "qualifications", "trainings",
	"languages_spoken", "years_of_experience", "previous_job_roles", "enterprise_types", "crops_cared_for",
	"livestock_cared_for", "poultry_cared_for", "fish_cared_for", "employer_references", "technical_skills",
	"entrepreneurial_skills", "specialized_skills", "soft_skills", "skill_proficiency", "preferred_regions",
	"work_type_desired", "preferred_enterprise", "expected_salary_min", "expected_salary_max",
	"willing_to_relocate", "willing_remote", "preferred_working_hours", "deal_breakers", "attachments",
	"created_at", "updated_at",
}

var profileColumns = strings.Join(profileColumnList, ", ")

func (row *profileRow) values() []interface{} {
	return []interface{}{
		row.ID, row.UserID, row.FullName, row.Gender, row.DateOfBirth, row.District, row.SubCounty, row.Parish, row.Village,
		row.NationalID, row.WhatsApp, row.Email, row.WorkingProfile, row.HighestLevel, row.Qualifications, row.Trainings,
		row.LanguagesSpoken, row.YearsOfExperience, row.PreviousJobRoles, row.EnterpriseTypes, row.CropsCaredFor,
		row.LivestockCaredFor, row.PoultryCaredFor, row.FishCaredFor, row.EmployerReferences, row.TechnicalSkills,
		row.EntrepreneurialSkills, row.SpecializedSkills, row.SoftSkills, row.SkillProficiency, row.PreferredRegions,
		row.WorkTypeDesired, row.PreferredEnterprise, row.ExpectedSalaryMin, row.ExpectedSalaryMax,
		row.WillingToRelocate, row.WillingRemote, row.PreferredWorkingHours, row.DealBreakers, row.Attachments,
		row.CreatedAt, row.UpdatedAt,
	}
}

func (r *EmployeeProfileRepository) toRow(p *models.EmployeeProfile) (*profileRow, error) {
	enc := &listEncoder{}
	row := &profileRow{
		ID:                    p.ID,
		UserID:                p.UserID,
		FullName:              p.Personal.FullName,
		Gender:                string(p.Personal.Gender),
		DateOfBirth:           utcPtr(p.Personal.DateOfBirth),
		District:              p.Personal.Location.District,
		SubCounty:             p.Personal.Location.SubCounty,
		Parish:                p.Personal.Location.Parish,
		Village:               p.Personal.Location.Village,
		NationalID:            p.Personal.NationalID,
		WhatsApp:              p.Personal.WhatsApp,
		Email:                 p.Personal.Email,
		WorkingProfile:        p.Personal.WorkingProfile,
		HighestLevel:          string(p.Education.HighestLevel),
		Qualifications:        enc.list(encodeList(p.Education.Qualifications)),
		Trainings:             enc.strings(p.Education.Trainings),
		LanguagesSpoken:       enc.strings(p.Education.LanguagesSpoken),
		YearsOfExperience:     nullInt(p.Experience.YearsOfExperience),
		PreviousJobRoles:      enc.strings(p.Experience.PreviousJobRoles),
		EnterpriseTypes:       enc.list(encodeList(p.Experience.EnterpriseTypes)),
		CropsCaredFor:         enc.strings(p.Experience.CropsCaredFor),
		LivestockCaredFor:     enc.strings(p.Experience.LivestockCaredFor),
		PoultryCaredFor:       enc.strings(p.Experience.PoultryCaredFor),
		FishCaredFor:          enc.strings(p.Experience.FishCaredFor),
		EmployerReferences:    enc.list(encodeList(p.Experience.References)),
		TechnicalSkills:       enc.strings(p.Competencies.TechnicalSkills),
		EntrepreneurialSkills: enc.strings(p.Competencies.EntrepreneurialSkills),
		SpecializedSkills:     enc.strings(p.Competencies.SpecializedSkills),
		SoftSkills:            enc.strings(p.Competencies.SoftSkills),
		SkillProficiency:      enc.list(encodeMap(p.Competencies.SkillProficiency)),
		PreferredRegions:      enc.strings(p.Preferences.PreferredRegions),
		WorkTypeDesired:       string(p.Preferences.WorkTypeDesired),
		PreferredEnterprise:   string(p.Preferences.PreferredEnterprise),
		ExpectedSalaryMin:     nullDecimal(p.Preferences.ExpectedSalaryMin),
		ExpectedSalaryMax:     nullDecimal(p.Preferences.ExpectedSalaryMax),
		WillingToRelocate:     string(p.Preferences.WillingToRelocate),
		WillingRemote:         string(p.Preferences.WillingRemote),
		PreferredWorkingHours: string(p.Preferences.PreferredWorkingHours),
		DealBreakers:          p.Preferences.DealBreakers,
		Attachments:           enc.strings(p.Preferences.Attachments),
		CreatedAt:             p.CreatedAt.UTC(),
		UpdatedAt:             p.UpdatedAt.UTC(),
	}
	return row, enc.err
}

func (r *EmployeeProfileRepository) fromRow(row *profileRow) *models.EmployeeProfile {
	const entity = "employee_profile"
	list := func(field, raw string) []string {
		return decodeList[string](r.codec, entity, row.ID, field, raw)
	}
	return &models.EmployeeProfile{
		ID:     row.ID,
		UserID: row.UserID,
		Personal: models.PersonalSection{
			FullName:    row.FullName,
			Gender:      models.Gender(row.Gender),
			DateOfBirth: row.DateOfBirth,
			Location: models.Location{
				District:  row.District,
				SubCounty: row.SubCounty,
				Parish:    row.Parish,
				Village:   row.Village,
			},
			NationalID:     row.NationalID,
			WhatsApp:       row.WhatsApp,
			Email:          row.Email,
			WorkingProfile: row.WorkingProfile,
		},
		Education: models.EducationSection{
			HighestLevel:    models.EducationLevel(row.HighestLevel),
			Qualifications:  decodeList[models.Qualification](r.codec, entity, row.ID, "education.qualifications", row.Qualifications),
			Trainings:       list("education.trainings", row.Trainings),
			LanguagesSpoken: list("education.languagesSpoken", row.LanguagesSpoken),
		},
		Experience: models.ExperienceSection{
			YearsOfExperience: intPtr(row.YearsOfExperience),
			PreviousJobRoles:  list("experience.previousJobRoles", row.PreviousJobRoles),
			EnterpriseTypes:   decodeList[models.EnterpriseType](r.codec, entity, row.ID, "experience.enterpriseTypes", row.EnterpriseTypes),
			CropsCaredFor:     list("experience.cropsCaredFor", row.CropsCaredFor),
			LivestockCaredFor: list("experience.livestockCaredFor", row.LivestockCaredFor),
			PoultryCaredFor:   list("experience.poultryCaredFor", row.PoultryCaredFor),
			FishCaredFor:      list("experience.fishCaredFor", row.FishCaredFor),
			References:        decodeList[models.EmployerReference](r.codec, entity, row.ID, "experience.references", row.EmployerReferences),
		},
		Competencies: models.CompetenciesSection{
			TechnicalSkills:       list("competencies.technicalSkills", row.TechnicalSkills),
			EntrepreneurialSkills: list("competencies.entrepreneurialSkills", row.EntrepreneurialSkills),
			SpecializedSkills:     list("competencies.specializedSkills", row.SpecializedSkills),
			SoftSkills:            list("competencies.softSkills", row.SoftSkills),
			SkillProficiency:      decodeMap[int](r.codec, entity, row.ID, "competencies.skillProficiency", row.SkillProficiency),
		},
		Preferences: models.PreferencesSection{
			PreferredRegions:      list("preferences.preferredRegions", row.PreferredRegions),
			WorkTypeDesired:       models.JobType(row.WorkTypeDesired),
			PreferredEnterprise:   models.EnterpriseType(row.PreferredEnterprise),
			ExpectedSalaryMin:     decimalPtr(row.ExpectedSalaryMin),
			ExpectedSalaryMax:     decimalPtr(row.ExpectedSalaryMax),
			WillingToRelocate:     models.YesNo(row.WillingToRelocate),
			WillingRemote:         models.YesNo(row.WillingRemote),
			PreferredWorkingHours: models.WorkingHours(row.PreferredWorkingHours),
			DealBreakers:          row.DealBreakers,
			Attachments:           list("preferences.attachments", row.Attachments),
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (r *EmployeeProfileRepository) GetProfileByUser(ctx context.Context, h dal.Handler, userID string) (*models.EmployeeProfile, error) {
	var row profileRow
	query := h.Rebind(`SELECT ` + profileColumns + ` FROM employee_profiles WHERE user_id = ?`)
	if err := notFound(h.GetContext(ctx, &row, query, userID)); err != nil {
		return nil, err
	}
	return r.fromRow(&row), nil
}

// UpsertProfile stores a profile keyed by its user, replacing every section
// of an existing one. The stored id and creation time survive a
// replacement. It reports whether a new profile was created.
func (r *EmployeeProfileRepository) UpsertProfile(ctx context.Context, h dal.Handler, p *models.EmployeeProfile) (bool, error) {
	now := time.Now().UTC()
	p.UpdatedAt = now

	existing, err := r.GetProfileByUser(ctx, h, p.UserID)
	switch {
	case err == nil:
		return false, r.replace(ctx, h, p, existing)
	case !errors.Is(err, models.ErrNotFound):
		return false, err
	}

	p.CreatedAt = now
	inserted, err := r.insert(ctx, h, p)
	if err != nil || inserted {
		return inserted, err
	}
	// Another writer inserted the profile after the lookup.
	existing, err = r.GetProfileByUser(ctx, h, p.UserID)
	if err != nil {
		return false, err
	}
	return false, r.replace(ctx, h, p, existing)
}

// insert adds a new profile row. It reports false, without failing the
// surrounding transaction, when a profile for the user already exists.
func (r *EmployeeProfileRepository) insert(ctx context.Context, h dal.Handler, p *models.EmployeeProfile) (bool, error) {
	p.ID = utils.GenerateUUID()
	row, err := r.toRow(p)
	if err != nil {
		return false, err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(profileColumnList)), ", ")
	query := h.Rebind(`INSERT INTO employee_profiles (` + profileColumns + `) VALUES (` + placeholders + `)
		ON CONFLICT (user_id) DO NOTHING`)
	res, err := h.ExecContext(ctx, query, row.values()...)
	switch err := dal.WrapError(err); {
	case err == nil:
	case errors.Is(err, dal.ErrForeignKey):
		return false, &models.ReferentialIntegrityError{
			Entity:    "employee_profile",
			Reference: "user " + p.UserID,
			Reason:    "user does not exist",
		}
	default:
		r.logger.Errorf("Failed to create employee profile: %v", err)
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	r.logger.Infof("Employee profile created successfully: %s", p.ID)
	return true, nil
}

func (r *EmployeeProfileRepository) replace(ctx context.Context, h dal.Handler, p, existing *models.EmployeeProfile) error {
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	row, err := r.toRow(p)
	if err != nil {
		return err
	}

	var sets []string
	var args []interface{}
	values := row.values()
	for i, col := range profileColumnList {
		if col == "id" || col == "user_id" || col == "created_at" {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, values[i])
	}
	args = append(args, row.ID)
	query := h.Rebind(`UPDATE employee_profiles SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	res, err := h.ExecContext(ctx, query, args...)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}
