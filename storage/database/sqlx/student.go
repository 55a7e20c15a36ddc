package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kwanza/kocha/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID            string      `db:"id"`
	AcademyID     string      `db:"academy_id"`
	Name          null.String `db:"name"`
	Email         null.String `db:"email"`
	Phone         null.String `db:"phone"`
	GuardianName  null.String `db:"guardian_name"`
	GuardianPhone null.String `db:"guardian_phone"`
	BirthDate     null.Time   `db:"birth_date"`
	IsActive      null.Bool   `db:"is_active"`
	CreatedAt     null.Time   `db:"created_at"`
	UpdatedAt     null.Time   `db:"updated_at"`
}

func (repo studentRepository) row(st student.Student) studentRow {
	return studentRow{
		ID:            st.ID,
		AcademyID:     st.AcademyID,
		Name:          null.NewString(st.Name, st.Name != ""),
		Email:         null.NewString(st.Email, st.Email != ""),
		Phone:         null.NewString(st.Phone, st.Phone != ""),
		GuardianName:  null.NewString(st.GuardianName, st.GuardianName != ""),
		GuardianPhone: null.NewString(st.GuardianPhone, st.GuardianPhone != ""),
		BirthDate:     null.NewTime(st.BirthDate.UTC(), !st.BirthDate.IsZero()),
		IsActive:      null.BoolFrom(st.IsActive),
		CreatedAt:     null.NewTime(st.CreatedAt.UTC(), !st.CreatedAt.IsZero()),
		UpdatedAt:     null.NewTime(st.UpdatedAt.UTC(), !st.UpdatedAt.IsZero()),
	}
}

func (repo studentRepository) unrow(row studentRow) student.Student {
	return student.Student{
		ID:            row.ID,
		AcademyID:     row.AcademyID,
		Name:          row.Name.String,
		Email:         row.Email.String,
		Phone:         row.Phone.String,
		GuardianName:  row.GuardianName.String,
		GuardianPhone: row.GuardianPhone.String,
		BirthDate:     row.BirthDate.Time,
		IsActive:      row.IsActive.Bool,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	st.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO student (id, academy_id, name, email, phone, guardian_name, guardian_phone, birth_date, is_active, created_at, updated_at)
		VALUES (:id, :academy_id, :name, :email, :phone, :guardian_name, :guardian_phone, :birth_date, :is_active, :created_at, :updated_at)`,
		repo.row(st),
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student by id")
	}
	return repo.unrow(row), nil
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	where := make([]string, 0, 3)
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
	if filter.IsActive != nil {
		where = append(where, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}

	query := `SELECT * FROM student`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name`

	var rows []studentRow
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.unrow(row))
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(st student.Student, isActive *bool) (student.Student, error) {
	set := make([]string, 0, 8)
	args := []interface{}{}

	if st.Name != "" {
		set = append(set, `name = ?`)
		args = append(args, st.Name)
	}
	if st.Email != "" {
		set = append(set, `email = ?`)
		args = append(args, st.Email)
	}
	if st.Phone != "" {
		set = append(set, `phone = ?`)
		args = append(args, st.Phone)
	}
	if st.GuardianName != "" {
		set = append(set, `guardian_name = ?`)
		args = append(args, st.GuardianName)
	}
	if st.GuardianPhone != "" {
		set = append(set, `guardian_phone = ?`)
		args = append(args, st.GuardianPhone)
	}
	if !st.BirthDate.IsZero() {
		set = append(set, `birth_date = ?`)
		args = append(args, st.BirthDate.UTC())
	}
	if isActive != nil {
		set = append(set, `is_active = ?`)
		args = append(args, *isActive)
	}
	set = append(set, `updated_at = ?`)
	args = append(args, st.UpdatedAt.UTC())
	args = append(args, st.ID)

	query := `UPDATE student SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := repo.db.Exec(repo.db.Rebind(query), args...)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(st.ID)
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}
