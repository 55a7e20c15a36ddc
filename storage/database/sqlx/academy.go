package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kwanza/kocha/core/academy"
)

type academyRepository struct {
	db *sqlx.DB
}

var _ academy.Repository = (*academyRepository)(nil) // interface compliance check

func NewAcademyRepository(db *sqlx.DB) academy.Repository {
	return &academyRepository{db: db}
}

type academyRow struct {
	ID        string      `db:"id"`
	Name      null.String `db:"name"`
	Slug      null.String `db:"slug"`
	Email     null.String `db:"email"`
	Phone     null.String `db:"phone"`
	Address   null.String `db:"address"`
	IsActive  null.Bool   `db:"is_active"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (repo academyRepository) row(ac academy.Academy) academyRow {
	return academyRow{
		ID:        ac.ID,
		Name:      null.NewString(ac.Name, ac.Name != ""),
		Slug:      null.NewString(ac.Slug, ac.Slug != ""),
		Email:     null.NewString(ac.Email, ac.Email != ""),
		Phone:     null.NewString(ac.Phone, ac.Phone != ""),
		Address:   null.NewString(ac.Address, ac.Address != ""),
		IsActive:  null.BoolFrom(ac.IsActive),
		CreatedAt: null.NewTime(ac.CreatedAt.UTC(), !ac.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(ac.UpdatedAt.UTC(), !ac.UpdatedAt.IsZero()),
	}
}

func (repo academyRepository) unrow(row academyRow) academy.Academy {
	return academy.Academy{
		ID:        row.ID,
		Name:      row.Name.String,
		Slug:      row.Slug.String,
		Email:     row.Email.String,
		Phone:     row.Phone.String,
		Address:   row.Address.String,
		IsActive:  row.IsActive.Bool,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo academyRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return academy.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *academyRepository) CheckSlugUniqueness(slug string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM academy WHERE slug = $1)`, slug)
	if err != nil {
		return errors.Wrap(err, "checking slug uniqueness")
	}
	if exists {
		return academy.ErrSlugExists
	}
	return nil
}

func (repo *academyRepository) CreateAcademy(ac academy.Academy) (academy.Academy, error) {
	ac.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO academy (id, name, slug, email, phone, address, is_active, created_at, updated_at)
		VALUES (:id, :name, :slug, :email, :phone, :address, :is_active, :created_at, :updated_at)`,
		repo.row(ac),
	)
	if err != nil {
		return academy.Academy{}, errors.Wrap(err, "inserting academy")
	}
	return ac, nil
}

func (repo *academyRepository) GetAcademyByID(id string) (academy.Academy, error) {
	var row academyRow
	if err := repo.db.Get(&row, `SELECT * FROM academy WHERE id = $1`, id); err != nil {
		return academy.Academy{}, repo.trapNoRowsErr(err, "getting academy by id")
	}
	return repo.unrow(row), nil
}

func (repo *academyRepository) GetAcademyBySlug(slug string) (academy.Academy, error) {
	var row academyRow
	if err := repo.db.Get(&row, `SELECT * FROM academy WHERE slug = $1`, slug); err != nil {
		return academy.Academy{}, repo.trapNoRowsErr(err, "getting academy by slug")
	}
	return repo.unrow(row), nil
}

func (repo *academyRepository) QueryAllAcademies() ([]academy.Academy, error) {
	var rows []academyRow
	if err := repo.db.Select(&rows, `SELECT * FROM academy ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying academies")
	}
	academies := make([]academy.Academy, 0, len(rows))
	for _, row := range rows {
		academies = append(academies, repo.unrow(row))
	}
	return academies, nil
}

func (repo *academyRepository) UpdateAcademy(ac academy.Academy, isActive *bool) (academy.Academy, error) {
	set := make([]string, 0, 6)
	args := []interface{}{}

	if ac.Name != "" {
		set = append(set, `name = ?`)
		args = append(args, ac.Name)
	}
	if ac.Email != "" {
		set = append(set, `email = ?`)
		args = append(args, ac.Email)
	}
	if ac.Phone != "" {
		set = append(set, `phone = ?`)
		args = append(args, ac.Phone)
	}
	if ac.Address != "" {
		set = append(set, `address = ?`)
		args = append(args, ac.Address)
	}
	if isActive != nil {
		set = append(set, `is_active = ?`)
		args = append(args, *isActive)
	}
	set = append(set, `updated_at = ?`)
	args = append(args, ac.UpdatedAt.UTC())
	args = append(args, ac.ID)

	query := `UPDATE academy SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := repo.db.Exec(repo.db.Rebind(query), args...)
	if err != nil {
		return academy.Academy{}, errors.Wrap(err, "updating academy")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return academy.Academy{}, academy.ErrNotFound
	}
	return repo.GetAcademyByID(ac.ID)
}

// DeleteAcademy relies on ON DELETE CASCADE to clean up dependents; the
// delete and the existence check share one transaction.
func (repo *academyRepository) DeleteAcademy(id string) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM academy WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting academy")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return academy.ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
