package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kwanza/kocha/core/court"
)

type courtRepository struct {
	db *sqlx.DB
}

var _ court.Repository = (*courtRepository)(nil) // interface compliance check

func NewCourtRepository(db *sqlx.DB) court.Repository {
	return &courtRepository{db: db}
}

type courtRow struct {
	ID        string      `db:"id"`
	AcademyID string      `db:"academy_id"`
	Name      null.String `db:"name"`
	Surface   null.String `db:"surface"`
	Indoor    null.Bool   `db:"indoor"`
	IsActive  null.Bool   `db:"is_active"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (repo courtRepository) row(c court.Court) courtRow {
	return courtRow{
		ID:        c.ID,
		AcademyID: c.AcademyID,
		Name:      null.NewString(c.Name, c.Name != ""),
		Surface:   null.NewString(c.Surface, c.Surface != ""),
		Indoor:    null.BoolFrom(c.Indoor),
		IsActive:  null.BoolFrom(c.IsActive),
		CreatedAt: null.NewTime(c.CreatedAt.UTC(), !c.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(c.UpdatedAt.UTC(), !c.UpdatedAt.IsZero()),
	}
}

func (repo courtRepository) unrow(row courtRow) court.Court {
	return court.Court{
		ID:        row.ID,
		AcademyID: row.AcademyID,
		Name:      row.Name.String,
		Surface:   row.Surface.String,
		Indoor:    row.Indoor.Bool,
		IsActive:  row.IsActive.Bool,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo courtRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return court.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *courtRepository) CreateCourt(c court.Court) (court.Court, error) {
	c.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO court (id, academy_id, name, surface, indoor, is_active, created_at, updated_at)
		VALUES (:id, :academy_id, :name, :surface, :indoor, :is_active, :created_at, :updated_at)`,
		repo.row(c),
	)
	if err != nil {
		return court.Court{}, errors.Wrap(err, "inserting court")
	}
	return c, nil
}

func (repo *courtRepository) GetCourtByID(id string) (court.Court, error) {
	var row courtRow
	if err := repo.db.Get(&row, `SELECT * FROM court WHERE id = $1`, id); err != nil {
		return court.Court{}, repo.trapNoRowsErr(err, "getting court by id")
	}
	return repo.unrow(row), nil
}

func (repo *courtRepository) FilterCourts(filter court.QueryFilter) ([]court.Court, error) {
	where := make([]string, 0, 4)
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, `(name ILIKE ? OR surface ILIKE ?)`)
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.AcademyID != "" {
		where = append(where, `academy_id = ?`)
		args = append(args, filter.AcademyID)
	}
	if filter.Indoor != nil {
		where = append(where, `indoor = ?`)
		args = append(args, *filter.Indoor)
	}
	if filter.IsActive != nil {
		where = append(where, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}

	query := `SELECT * FROM court`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name`

	var rows []courtRow
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering courts")
	}
	courts := make([]court.Court, 0, len(rows))
	for _, row := range rows {
		courts = append(courts, repo.unrow(row))
	}
	return courts, nil
}

func (repo *courtRepository) UpdateCourt(c court.Court, indoor, isActive *bool) (court.Court, error) {
	set := make([]string, 0, 5)
	args := []interface{}{}

	if c.Name != "" {
		set = append(set, `name = ?`)
		args = append(args, c.Name)
	}
	if c.Surface != "" {
		set = append(set, `surface = ?`)
		args = append(args, c.Surface)
	}
	if indoor != nil {
		set = append(set, `indoor = ?`)
		args = append(args, *indoor)
	}
	if isActive != nil {
		set = append(set, `is_active = ?`)
		args = append(args, *isActive)
	}
	set = append(set, `updated_at = ?`)
	args = append(args, c.UpdatedAt.UTC())
	args = append(args, c.ID)

	query := `UPDATE court SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := repo.db.Exec(repo.db.Rebind(query), args...)
	if err != nil {
		return court.Court{}, errors.Wrap(err, "updating court")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return court.Court{}, court.ErrNotFound
	}
	return repo.GetCourtByID(c.ID)
}

func (repo *courtRepository) DeleteCourtsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM court WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting courts")
	}
	return nil
}
