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

type JobRepository struct {
	config *models.Config
	codec  *Codec
	logger logger.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(cfg *models.Config, codec *Codec, log logger.Logger) *JobRepository {
	return &JobRepository{
		config: cfg,
		codec:  codec,
		logger: log,
	}
}

type jobRow struct {
	ID                     string              `db:"id"`
	OrganizationID         string              `db:"organization_id"`
	PostedBy               string              `db:"posted_by"`
	Title                  string              `db:"title"`
	TotalWorkersNeeded     sql.NullInt64       `db:"total_workers_needed"`
	Description            string              `db:"description"`
	JobType                string              `db:"job_type"`
	ContractDurationMonths sql.NullInt64       `db:"contract_duration_months"`
	ExpectedStartDate      *time.Time          `db:"expected_start_date"`
	WorkingHours           string              `db:"working_hours"`
	GenderPreference       string              `db:"gender_preference"`
	AgeMin                 sql.NullInt64       `db:"age_min"`
	AgeMax                 sql.NullInt64       `db:"age_max"`
	EducationLevel         string              `db:"education_level"`
	MinExperienceYears     sql.NullInt64       `db:"min_experience_years"`
	LanguagePreferences    string              `db:"language_preferences"`
	TechnicalSkills        string              `db:"technical_skills"`
	Certifications         string              `db:"certifications"`
	SoftSkills             string              `db:"soft_skills"`
	Accommodation          string              `db:"accommodation"`
	Electricity            string              `db:"electricity"`
	Meals                  string              `db:"meals"`
	HealthCover            string              `db:"health_cover"`
	Transport              string              `db:"transport"`
	Overtime               string              `db:"overtime"`
	Bonus                  string              `db:"bonus"`
	SalaryMin              decimal.NullDecimal `db:"salary_min"`
	SalaryMax              decimal.NullDecimal `db:"salary_max"`
	PaymentMode            string              `db:"payment_mode"`
	ReligiousAffiliation   string              `db:"religious_affiliation"`
	NationalityPreferences string              `db:"nationality_preferences"`
	EthnicPreferences      string              `db:"ethnic_preferences"`
	Remarks                string              `db:"remarks"`
	Status                 string              `db:"status"`
	PostedAt               time.Time           `db:"posted_at"`
	ExpiryDate             *time.Time          `db:"expiry_date"`
	IsActive               bool                `db:"is_active"`
	ApplicationsCount      int                 `db:"applications_count"`
	CreatedAt              time.Time           `db:"created_at"`
	UpdatedAt              time.Time           `db:"updated_at"`
}

var jobColumnList = []string{
	"id", "organization_id", "posted_by", "title", "total_workers_needed", "description", "job_type",
	"contract_duration_months", "expected_start_date", "working_hours", "gender_preference", "age_min",
	"age_max", "education_level", "min_experience_years", "language_preferences", "technical_skills",
	"certifications", "soft_skills", "accommodation", "electricity", "meals", "health_cover", "transport",
	"overtime", "bonus", "salary_min", "salary_max", "payment_mode", "religious_affiliation",
	"nationality_preferences", "ethnic_preferences", "remarks", "status", "posted_at", "expiry_date",
	"is_active", "applications_count", "created_at", "updated_at",
}

var jobColumns = strings.Join(jobColumnList, ", ")

// values returns the row in jobColumnList order.
func (row *jobRow) values() []interface{} {
	return []interface{}{
		row.ID, row.OrganizationID, row.PostedBy, row.Title, row.TotalWorkersNeeded, row.Description, row.JobType,
		row.ContractDurationMonths, row.ExpectedStartDate, row.WorkingHours, row.GenderPreference, row.AgeMin,
		row.AgeMax, row.EducationLevel, row.MinExperienceYears, row.LanguagePreferences, row.TechnicalSkills,
		row.Certifications, row.SoftSkills, row.Accommodation, row.Electricity, row.Meals, row.HealthCover, row.Transport,
		row.Overtime, row.Bonus, row.SalaryMin, row.SalaryMax, row.PaymentMode, row.ReligiousAffiliation,
		row.NationalityPreferences, row.EthnicPreferences, row.Remarks, row.Status, row.PostedAt, row.ExpiryDate,
		row.IsActive, row.ApplicationsCount, row.CreatedAt, row.UpdatedAt,
	}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullDecimal(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	v := n.Decimal
	return &v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func (r *JobRepository) toRow(job *models.Job) (*jobRow, error) {
	enc := &listEncoder{}
	row := &jobRow{
		ID:                     job.ID,
		OrganizationID:         job.OrganizationID,
		PostedBy:               job.PostedBy,
		Title:                  job.Title,
		TotalWorkersNeeded:     nullInt(job.TotalWorkersNeeded),
		Description:            job.Description,
		JobType:                string(job.JobType),
		ContractDurationMonths: nullInt(job.ContractDurationMonths),
		ExpectedStartDate:      utcPtr(job.ExpectedStartDate),
		WorkingHours:           string(job.WorkingHours),
		GenderPreference:       string(job.Requirements.GenderPreference),
		AgeMin:                 nullInt(job.Requirements.AgeMin),
		AgeMax:                 nullInt(job.Requirements.AgeMax),
		EducationLevel:         string(job.Requirements.EducationLevel),
		MinExperienceYears:     nullInt(job.Requirements.MinExperienceYears),
		LanguagePreferences:    enc.strings(job.Requirements.LanguagePreferences),
		TechnicalSkills:        enc.strings(job.Requirements.TechnicalSkills),
		Certifications:         enc.strings(job.Requirements.Certifications),
		SoftSkills:             enc.strings(job.Requirements.SoftSkills),
		Accommodation:          string(job.Conditions.Accommodation),
		Electricity:            string(job.Conditions.Electricity),
		Meals:                  string(job.Conditions.Meals),
		HealthCover:            string(job.Conditions.HealthCover),
		Transport:              string(job.Conditions.Transport),
		Overtime:               string(job.Conditions.Overtime),
		Bonus:                  string(job.Conditions.Bonus),
		SalaryMin:              nullDecimal(job.Conditions.SalaryMin),
		SalaryMax:              nullDecimal(job.Conditions.SalaryMax),
		PaymentMode:            string(job.Conditions.PaymentMode),
		ReligiousAffiliation:   string(job.Preferences.ReligiousAffiliation),
		NationalityPreferences: enc.strings(job.Preferences.NationalityPreferences),
		EthnicPreferences:      enc.strings(job.Preferences.EthnicPreferences),
		Remarks:                job.Preferences.Remarks,
		Status:                 string(job.Status),
		PostedAt:               job.PostedAt.UTC(),
		ExpiryDate:             utcPtr(job.ExpiryDate),
		IsActive:               job.IsActive,
		ApplicationsCount:      job.ApplicationsCount,
		CreatedAt:              job.CreatedAt.UTC(),
		UpdatedAt:              job.UpdatedAt.UTC(),
	}
	return row, enc.err
}

func (r *JobRepository) fromRow(row *jobRow) *models.Job {
	list := func(field, raw string) []string {
		return decodeList[string](r.codec, "job", row.ID, field, raw)
	}
	return &models.Job{
		ID:                     row.ID,
		OrganizationID:         row.OrganizationID,
		PostedBy:               row.PostedBy,
		Title:                  row.Title,
		TotalWorkersNeeded:     intPtr(row.TotalWorkersNeeded),
		Description:            row.Description,
		JobType:                models.JobType(row.JobType),
		ContractDurationMonths: intPtr(row.ContractDurationMonths),
		ExpectedStartDate:      row.ExpectedStartDate,
		WorkingHours:           models.WorkingHours(row.WorkingHours),
		Requirements: models.WorkerRequirements{
			GenderPreference:    models.Gender(row.GenderPreference),
			AgeMin:              intPtr(row.AgeMin),
			AgeMax:              intPtr(row.AgeMax),
			EducationLevel:      models.EducationLevel(row.EducationLevel),
			MinExperienceYears:  intPtr(row.MinExperienceYears),
			LanguagePreferences: list("requirements.languagePreferences", row.LanguagePreferences),
			TechnicalSkills:     list("requirements.technicalSkills", row.TechnicalSkills),
			Certifications:      list("requirements.certifications", row.Certifications),
			SoftSkills:          list("requirements.softSkills", row.SoftSkills),
		},
		Conditions: models.WorkConditions{
			Accommodation: models.Provision(row.Accommodation),
			Electricity:   models.Provision(row.Electricity),
			Meals:         models.Provision(row.Meals),
			HealthCover:   models.Provision(row.HealthCover),
			Transport:     models.Provision(row.Transport),
			Overtime:      models.Provision(row.Overtime),
			Bonus:         models.Provision(row.Bonus),
			SalaryMin:     decimalPtr(row.SalaryMin),
			SalaryMax:     decimalPtr(row.SalaryMax),
			PaymentMode:   models.PaymentMode(row.PaymentMode),
		},
		Preferences: models.AdditionalPreferences{
			ReligiousAffiliation:   models.ReligiousAffiliation(row.ReligiousAffiliation),
			NationalityPreferences: list("preferences.nationalityPreferences", row.NationalityPreferences),
			EthnicPreferences:      list("preferences.ethnicPreferences", row.EthnicPreferences),
			Remarks:                row.Remarks,
		},
		Status:            models.JobStatus(row.Status),
		PostedAt:          row.PostedAt,
		ExpiryDate:        row.ExpiryDate,
		IsActive:          row.IsActive,
		ApplicationsCount: row.ApplicationsCount,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

// CreateJob inserts a job. The caller sets the initial status; the
// application counter always starts at zero.
func (r *JobRepository) CreateJob(ctx context.Context, h dal.Handler, job *models.Job) (*models.Job, error) {
	now := time.Now().UTC()
	job.ID = utils.GenerateUUID()
	job.IsActive = true
	job.ApplicationsCount = 0
	job.PostedAt = now
	job.CreatedAt = now
	job.UpdatedAt = now

	row, err := r.toRow(job)
	if err != nil {
		return nil, err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(jobColumnList)), ", ")
	query := h.Rebind(`INSERT INTO jobs (` + jobColumns + `) VALUES (` + placeholders + `)`)
	if _, err := h.ExecContext(ctx, query, row.values()...); err != nil {
		err = dal.WrapError(err)
		if errors.Is(err, dal.ErrForeignKey) {
			return nil, &models.ReferentialIntegrityError{
				Entity:    "job",
				Reference: "organization " + job.OrganizationID,
				Reason:    "organization or poster does not exist",
			}
		}
		r.logger.Errorf("Failed to create job: %v", err)
		return nil, err
	}

	r.logger.Infof("Job created successfully: %s", job.ID)
	return job, nil
}

func (r *JobRepository) GetJob(ctx context.Context, h dal.Handler, id string) (*models.Job, error) {
	return r.getJob(ctx, h, id, "")
}

// GetJobForUpdate reads a job and, where the driver supports it, locks the
// row until the transaction ends.
func (r *JobRepository) GetJobForUpdate(ctx context.Context, h dal.Handler, id string) (*models.Job, error) {
	return r.getJob(ctx, h, id, dal.LockClause(h))
}

func (r *JobRepository) getJob(ctx context.Context, h dal.Handler, id, lock string) (*models.Job, error) {
	var row jobRow
	query := h.Rebind(`SELECT ` + jobColumns + ` FROM jobs WHERE id = ?` + lock)
	if err := notFound(h.GetContext(ctx, &row, query, id)); err != nil {
		return nil, err
	}
	return r.fromRow(&row), nil
}

// GetJobsByFilter lists jobs newest first. Status, organization and poster
// are matched in SQL; the active window is evaluated against now.
func (r *JobRepository) GetJobsByFilter(ctx context.Context, h dal.Handler, filter *models.JobFilter) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var conditions []string
	var args []interface{}
	if filter != nil {
		if filter.Status != "" {
			conditions = append(conditions, "status = ?")
			args = append(args, filter.Status)
		}
		if filter.OrganizationID != "" {
			conditions = append(conditions, "organization_id = ?")
			args = append(args, filter.OrganizationID)
		}
		if filter.PostedBy != "" {
			conditions = append(conditions, "posted_by = ?")
			args = append(args, filter.PostedBy)
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY posted_at DESC, id"

	var rows []jobRow
	if err := h.SelectContext(ctx, &rows, h.Rebind(query), args...); err != nil {
		return nil, dal.WrapError(err)
	}

	now := time.Now().UTC()
	jobs := make([]*models.Job, 0, len(rows))
	for i := range rows {
		job := r.fromRow(&rows[i])
		if filter != nil && filter.ActiveOnly && !job.IsWithinActiveWindow(now) {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// UpdateJob replaces the content of a job. Status, counters and ownership
// are not touched.
func (r *JobRepository) UpdateJob(ctx context.Context, h dal.Handler, job *models.Job) (*models.Job, error) {
	job.UpdatedAt = time.Now().UTC()
	row, err := r.toRow(job)
	if err != nil {
		return nil, err
	}
	var sets []string
	var args []interface{}
	values := row.values()
	for i, col := range jobColumnList {
		switch col {
		case "id", "organization_id", "posted_by", "status", "posted_at", "is_active", "applications_count", "created_at":
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, values[i])
	}
	args = append(args, row.ID)
	query := h.Rebind(`UPDATE jobs SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	res, err := h.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, dal.WrapError(err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return r.GetJob(ctx, h, job.ID)
}

// UpdateJobStatus moves a job from one status to another. It fails with
// ErrStaleState when the stored status is no longer from.
func (r *JobRepository) UpdateJobStatus(ctx context.Context, h dal.Handler, id string, from, to models.JobStatus) error {
	return compareAndSet(ctx, h,
		"UPDATE jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		to, time.Now().UTC(), id, from)
}

// IncrementApplications bumps the application counter of a job.
func (r *JobRepository) IncrementApplications(ctx context.Context, h dal.Handler, id string) error {
	res, err := h.ExecContext(ctx, h.Rebind("UPDATE jobs SET applications_count = applications_count + 1 WHERE id = ?"), id)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}

// DeactivateExpired clears is_active on jobs whose expiry date has passed
// and returns how many were changed.
func (r *JobRepository) DeactivateExpired(ctx context.Context, h dal.Handler, now time.Time) (int64, error) {
	var rows []struct {
		ID         string     `db:"id"`
		ExpiryDate *time.Time `db:"expiry_date"`
	}
	if err := h.SelectContext(ctx, &rows, h.Rebind("SELECT id, expiry_date FROM jobs WHERE is_active = ? AND expiry_date IS NOT NULL"), true); err != nil {
		return 0, dal.WrapError(err)
	}

	var changed int64
	for _, row := range rows {
		if !row.ExpiryDate.Before(now) {
			continue
		}
		res, err := h.ExecContext(ctx, h.Rebind("UPDATE jobs SET is_active = ?, updated_at = ? WHERE id = ? AND is_active = ?"),
			false, now.UTC(), row.ID, true)
		if err != nil {
			return changed, dal.WrapError(err)
		}
		n, _ := res.RowsAffected()
		changed += n
	}
	return changed, nil
}

func (r *JobRepository) DeleteJob(ctx context.Context, h dal.Handler, id string) error {
	res, err := h.ExecContext(ctx, h.Rebind("DELETE FROM jobs WHERE id = ?"), id)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}
