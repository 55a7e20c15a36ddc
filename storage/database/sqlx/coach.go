package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kwanza/kocha/core/coach"
)

type coachRepository struct {
	db *sqlx.DB
}

var _ coach.Repository = (*coachRepository)(nil) // interface compliance check

func NewCoachRepository(db *sqlx.DB) coach.Repository {
	return &coachRepository{db: db}
}

type coachRow struct {
	ID        string      `db:"id"`
	AcademyID string      `db:"academy_id"`
	UserID    null.String `db:"user_id"`
	Name      null.String `db:"name"`
	Email     null.String `db:"email"`
	Phone     null.String `db:"phone"`
	Specialty null.String `db:"specialty"`
	IsActive  null.Bool   `db:"is_active"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (repo coachRepository) row(c coach.Coach) coachRow {
	return coachRow{
		ID:        c.ID,
		AcademyID: c.AcademyID,
		UserID:    null.NewString(c.UserID, c.UserID != ""),
		Name:      null.NewString(c.Name, c.Name != ""),
		Email:     null.NewString(c.Email, c.Email != ""),
		Phone:     null.NewString(c.Phone, c.Phone != ""),
		Specialty: null.NewString(c.Specialty, c.Specialty != ""),
		IsActive:  null.BoolFrom(c.IsActive),
		CreatedAt: null.NewTime(c.CreatedAt.UTC(), !c.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(c.UpdatedAt.UTC(), !c.UpdatedAt.IsZero()),
	}
}

func (repo coachRepository) unrow(row coachRow) coach.Coach {
	return coach.Coach{
		ID:        row.ID,
		AcademyID: row.AcademyID,
		UserID:    row.UserID.String,
		Name:      row.Name.String,
		Email:     row.Email.String,
		Phone:     row.Phone.String,
		Specialty: row.Specialty.String,
		IsActive:  row.IsActive.Bool,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo coachRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return coach.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *coachRepository) CreateCoach(c coach.Coach) (coach.Coach, error) {
	c.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO coach (id, academy_id, user_id, name, email, phone, specialty, is_active, created_at, updated_at)
		VALUES (:id, :academy_id, :user_id, :name, :email, :phone, :specialty, :is_active, :created_at, :updated_at)`,
		repo.row(c),
	)
	if err != nil {
		return coach.Coach{}, errors.Wrap(err, "inserting coach")
	}
	return c, nil
}

func (repo *coachRepository) GetCoachByID(id string) (coach.Coach, error) {
	var row coachRow
	if err := repo.db.Get(&row, `SELECT * FROM coach WHERE id = $1`, id); err != nil {
		return coach.Coach{}, repo.trapNoRowsErr(err, "getting coach by id")
	}
	return repo.unrow(row), nil
}

func (repo *coachRepository) FilterCoaches(filter coach.QueryFilter) ([]coach.Coach, error) {
	where := make([]string, 0, 4)
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, `(name ILIKE ? OR email ILIKE ?)`)
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.AcademyID != "" {
		where = append(where, `academy_id = ?`)
		args = append(args, filter.AcademyID)
	}
	if filter.Specialty != "" {
		where = append(where, `specialty ILIKE ?`)
		args = append(args, filter.Specialty)
	}
	if filter.IsActive != nil {
		where = append(where, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}

	query := `SELECT * FROM coach`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name`

	var rows []coachRow
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering coaches")
	}
	coaches := make([]coach.Coach, 0, len(rows))
	for _, row := range rows {
		coaches = append(coaches, repo.unrow(row))
	}
	return coaches, nil
}

func (repo *coachRepository) UpdateCoach(c coach.Coach, isActive *bool) (coach.Coach, error) {
	set := make([]string, 0, 6)
	args := []interface{}{}

	if c.Name != "" {
		set = append(set, `name = ?`)
		args = append(args, c.Name)
	}
	if c.Email != "" {
		set = append(set, `email = ?`)
		args = append(args, c.Email)
	}
	if c.Phone != "" {
		set = append(set, `phone = ?`)
		args = append(args, c.Phone)
	}
	if c.Specialty != "" {
		set = append(set, `specialty = ?`)
		args = append(args, c.Specialty)
	}
	if isActive != nil {
		set = append(set, `is_active = ?`)
		args = append(args, *isActive)
	}
	set = append(set, `updated_at = ?`)
	args = append(args, c.UpdatedAt.UTC())
	args = append(args, c.ID)

	query := `UPDATE coach SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := repo.db.Exec(repo.db.Rebind(query), args...)
	if err != nil {
		return coach.Coach{}, errors.Wrap(err, "updating coach")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return coach.Coach{}, coach.ErrNotFound
	}
	return repo.GetCoachByID(c.ID)
}

func (repo *coachRepository) DeleteCoachesByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM coach WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting coaches")
	}
	return nil
}
