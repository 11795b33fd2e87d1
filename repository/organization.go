package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"agrihire-backend/dal"
	"agrihire-backend/models"
	"agrihire-backend/utils"
	"agrihire-backend/utils/logger"
)

type OrganizationRepository struct {
	config *models.Config
	codec  *Codec
	logger logger.Logger
}

// NewOrganizationRepository creates a repository for organizations, their
// memberships and their details.
func NewOrganizationRepository(cfg *models.Config, codec *Codec, log logger.Logger) *OrganizationRepository {
	return &OrganizationRepository{
		config: cfg,
		codec:  codec,
		logger: log,
	}
}

const organizationColumns = `id, name, type, description, website, logo_url, is_active, created_by, created_at, updated_at`

func (r *OrganizationRepository) CreateOrganization(ctx context.Context, h dal.Handler, org *models.Organization) (*models.Organization, error) {
	now := time.Now().UTC()
	if org.ID == "" {
		org.ID = utils.GenerateUUID()
	}
	org.IsActive = true
	org.CreatedAt = now
	org.UpdatedAt = now

	query := h.Rebind(`INSERT INTO organizations (` + organizationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := h.ExecContext(ctx, query,
		org.ID, org.Name, org.Type, org.Description, org.Website, org.LogoURL,
		org.IsActive, org.CreatedBy, org.CreatedAt, org.UpdatedAt)
	if err := dal.WrapError(err); err != nil {
		return nil, r.writeError("organization", "created_by "+org.CreatedBy, err)
	}

	r.logger.Infof("Organization created successfully: %s", org.ID)
	return org, nil
}

func (r *OrganizationRepository) GetOrganization(ctx context.Context, h dal.Handler, id string) (*models.Organization, error) {
	var org models.Organization
	query := h.Rebind(`SELECT ` + organizationColumns + ` FROM organizations WHERE id = ?`)
	if err := notFound(h.GetContext(ctx, &org, query, id)); err != nil {
		return nil, err
	}
	return &org, nil
}

// UpdateOrganization replaces the editable fields of an organization.
// Creation metadata is preserved.
func (r *OrganizationRepository) UpdateOrganization(ctx context.Context, h dal.Handler, org *models.Organization) (*models.Organization, error) {
	org.UpdatedAt = time.Now().UTC()
	query := h.Rebind(`UPDATE organizations
		SET name = ?, type = ?, description = ?, website = ?, logo_url = ?, updated_at = ?
		WHERE id = ?`)
	res, err := h.ExecContext(ctx, query,
		org.Name, org.Type, org.Description, org.Website, org.LogoURL, org.UpdatedAt, org.ID)
	if err != nil {
		return nil, dal.WrapError(err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return r.GetOrganization(ctx, h, org.ID)
}

// DeleteOrganization removes an organization. Memberships, details, jobs
// and their applications are removed with it.
func (r *OrganizationRepository) DeleteOrganization(ctx context.Context, h dal.Handler, id string) error {
	res, err := h.ExecContext(ctx, h.Rebind("DELETE FROM organizations WHERE id = ?"), id)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}

func (r *OrganizationRepository) ListOrganizationsForUser(ctx context.Context, h dal.Handler, userID string) ([]*models.Organization, error) {
	orgs := []*models.Organization{}
	query := h.Rebind(`SELECT o.id, o.name, o.type, o.description, o.website, o.logo_url, o.is_active,
			o.created_by, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_memberships m ON m.organization_id = o.id
		WHERE m.user_id = ?
		ORDER BY m.is_primary DESC, o.name`)
	if err := h.SelectContext(ctx, &orgs, query, userID); err != nil {
		return nil, dal.WrapError(err)
	}
	return orgs, nil
}

const membershipColumns = `id, user_id, organization_id, role, is_primary, created_at, updated_at`

// CreateMembership inserts a membership. A second membership for the same
// user and organization is a DuplicateKeyError.
func (r *OrganizationRepository) CreateMembership(ctx context.Context, h dal.Handler, m *models.OrganizationMembership) (*models.OrganizationMembership, error) {
	now := time.Now().UTC()
	m.ID = utils.GenerateUUID()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := h.Rebind(`INSERT INTO organization_memberships (` + membershipColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := h.ExecContext(ctx, query, m.ID, m.UserID, m.OrganizationID, m.Role, m.IsPrimary, m.CreatedAt, m.UpdatedAt)
	if err := dal.WrapError(err); err != nil {
		return nil, r.writeError("membership", "user "+m.UserID+" in organization "+m.OrganizationID, err)
	}
	return m, nil
}

func (r *OrganizationRepository) GetMembership(ctx context.Context, h dal.Handler, userID, organizationID string) (*models.OrganizationMembership, error) {
	var m models.OrganizationMembership
	query := h.Rebind(`SELECT ` + membershipColumns + ` FROM organization_memberships
		WHERE user_id = ? AND organization_id = ?`)
	if err := notFound(h.GetContext(ctx, &m, query, userID, organizationID)); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *OrganizationRepository) ListMemberships(ctx context.Context, h dal.Handler, userID string) ([]*models.OrganizationMembership, error) {
	out := []*models.OrganizationMembership{}
	query := h.Rebind(`SELECT ` + membershipColumns + ` FROM organization_memberships
		WHERE user_id = ? ORDER BY is_primary DESC, created_at`)
	if err := h.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, dal.WrapError(err)
	}
	return out, nil
}

func (r *OrganizationRepository) UpdateMembership(ctx context.Context, h dal.Handler, m *models.OrganizationMembership) error {
	m.UpdatedAt = time.Now().UTC()
	query := h.Rebind(`UPDATE organization_memberships SET role = ?, is_primary = ?, updated_at = ? WHERE id = ?`)
	res, err := h.ExecContext(ctx, query, m.Role, m.IsPrimary, m.UpdatedAt, m.ID)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}

// CountOwners returns how many owner memberships an organization has.
func (r *OrganizationRepository) CountOwners(ctx context.Context, h dal.Handler, organizationID string) (int, error) {
	var n int
	query := h.Rebind("SELECT COUNT(*) FROM organization_memberships WHERE organization_id = ? AND role = ?")
	if err := h.GetContext(ctx, &n, query, organizationID, models.MembershipOwner); err != nil {
		return 0, dal.WrapError(err)
	}
	return n, nil
}

// ClearPrimary unsets the primary flag on every membership of a user.
func (r *OrganizationRepository) ClearPrimary(ctx context.Context, h dal.Handler, userID string) error {
	query := h.Rebind(`UPDATE organization_memberships SET is_primary = ?, updated_at = ? WHERE user_id = ? AND is_primary = ?`)
	_, err := h.ExecContext(ctx, query, false, time.Now().UTC(), userID, true)
	return dal.WrapError(err)
}

type detailsRow struct {
	OrganizationID     string          `db:"organization_id"`
	EnterpriseType     string          `db:"enterprise_type"`
	MainEnterprises    string          `db:"main_enterprises"`
	District           string          `db:"district"`
	SubCounty          string          `db:"sub_county"`
	Parish             string          `db:"parish"`
	Village            string          `db:"village"`
	FarmSizeAcres      sql.NullFloat64 `db:"farm_size_acres"`
	FarmStage          string          `db:"farm_stage"`
	ContactPersonName  string          `db:"contact_person_name"`
	ContactPersonTitle string          `db:"contact_person_title"`
	WhatsAppContact    string          `db:"whatsapp_contact"`
	Email              string          `db:"email"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

const detailsColumns = `organization_id, enterprise_type, main_enterprises, district, sub_county, parish, village,
	farm_size_acres, farm_stage, contact_person_name, contact_person_title, whatsapp_contact, email,
	created_at, updated_at`

func (r *OrganizationRepository) toDetails(row *detailsRow) *models.OrganizationDetails {
	d := &models.OrganizationDetails{
		OrganizationID:  row.OrganizationID,
		EnterpriseType:  models.EnterpriseType(row.EnterpriseType),
		MainEnterprises: decodeList[string](r.codec, "organization_details", row.OrganizationID, "mainEnterprises", row.MainEnterprises),
		Location: models.Location{
			District:  row.District,
			SubCounty: row.SubCounty,
			Parish:    row.Parish,
			Village:   row.Village,
		},
		FarmStage:          models.FarmStage(row.FarmStage),
		ContactPersonName:  row.ContactPersonName,
		ContactPersonTitle: row.ContactPersonTitle,
		WhatsAppContact:    row.WhatsAppContact,
		Email:              row.Email,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.FarmSizeAcres.Valid {
		v := row.FarmSizeAcres.Float64
		d.FarmSizeAcres = &v
	}
	return d
}

func (r *OrganizationRepository) GetDetails(ctx context.Context, h dal.Handler, organizationID string) (*models.OrganizationDetails, error) {
	var row detailsRow
	query := h.Rebind(`SELECT ` + detailsColumns + ` FROM organization_details WHERE organization_id = ?`)
	if err := notFound(h.GetContext(ctx, &row, query, organizationID)); err != nil {
		return nil, err
	}
	return r.toDetails(&row), nil
}

// UpsertDetails stores the details of an organization, replacing any
// existing record. It reports whether a new record was created.
func (r *OrganizationRepository) UpsertDetails(ctx context.Context, h dal.Handler, d *models.OrganizationDetails) (bool, error) {
	now := time.Now().UTC()
	d.UpdatedAt = now

	exists, err := rowExists(ctx, h, "SELECT 1 FROM organization_details WHERE organization_id = ?", d.OrganizationID)
	if err != nil {
		return false, err
	}
	if !exists {
		d.CreatedAt = now
		inserted, err := r.insertDetails(ctx, h, d)
		if err != nil || inserted {
			return inserted, err
		}
	}
	return false, r.updateDetails(ctx, h, d)
}

func detailsValues(d *models.OrganizationDetails) (string, sql.NullFloat64, error) {
	enc := &listEncoder{}
	mainEnterprises := enc.strings(d.MainEnterprises)
	if enc.err != nil {
		return "", sql.NullFloat64{}, enc.err
	}
	var farmSize sql.NullFloat64
	if d.FarmSizeAcres != nil {
		farmSize = sql.NullFloat64{Float64: *d.FarmSizeAcres, Valid: true}
	}
	return mainEnterprises, farmSize, nil
}

// insertDetails reports false, without failing the surrounding transaction,
// when details for the organization already exist.
func (r *OrganizationRepository) insertDetails(ctx context.Context, h dal.Handler, d *models.OrganizationDetails) (bool, error) {
	mainEnterprises, farmSize, err := detailsValues(d)
	if err != nil {
		return false, err
	}
	query := h.Rebind(`INSERT INTO organization_details (` + detailsColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (organization_id) DO NOTHING`)
	res, err := h.ExecContext(ctx, query,
		d.OrganizationID, d.EnterpriseType, mainEnterprises, d.Location.District, d.Location.SubCounty,
		d.Location.Parish, d.Location.Village, farmSize, d.FarmStage, d.ContactPersonName,
		d.ContactPersonTitle, d.WhatsAppContact, d.Email, d.CreatedAt, d.UpdatedAt)
	if err := dal.WrapError(err); err != nil {
		return false, r.writeError("organization_details", "organization "+d.OrganizationID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *OrganizationRepository) updateDetails(ctx context.Context, h dal.Handler, d *models.OrganizationDetails) error {
	mainEnterprises, farmSize, err := detailsValues(d)
	if err != nil {
		return err
	}
	query := h.Rebind(`UPDATE organization_details
		SET enterprise_type = ?, main_enterprises = ?, district = ?, sub_county = ?, parish = ?, village = ?,
			farm_size_acres = ?, farm_stage = ?, contact_person_name = ?, contact_person_title = ?,
			whatsapp_contact = ?, email = ?, updated_at = ?
		WHERE organization_id = ?`)
	res, err := h.ExecContext(ctx, query,
		d.EnterpriseType, mainEnterprises, d.Location.District, d.Location.SubCounty, d.Location.Parish,
		d.Location.Village, farmSize, d.FarmStage, d.ContactPersonName, d.ContactPersonTitle,
		d.WhatsAppContact, d.Email, d.UpdatedAt, d.OrganizationID)
	if err != nil {
		return dal.WrapError(err)
	}
	return requireRow(res)
}

func (r *OrganizationRepository) writeError(entity, key string, err error) error {
	switch {
	case errors.Is(err, dal.ErrDuplicateKey):
		return &models.DuplicateKeyError{Entity: entity, Key: key}
	case errors.Is(err, dal.ErrForeignKey):
		return &models.ReferentialIntegrityError{Entity: entity, Reference: key, Reason: "referenced record does not exist"}
	}
	r.logger.Errorf("Failed to write %s: %v", entity, err)
	return err
}
