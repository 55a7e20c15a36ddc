package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/student"
)

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{db: db}
}

type classRow struct {
	ID          string      `db:"id"`
	AcademyID   string      `db:"academy_id"`
	CoachID     string      `db:"coach_id"`
	CourtID     null.String `db:"court_id"`
	Name        null.String `db:"name"`
	Level       null.String `db:"level"`
	DayOfWeek   int         `db:"day_of_week"`
	StartTime   string      `db:"start_time"`
	EndTime     string      `db:"end_time"`
	Capacity    null.Int    `db:"capacity"`
	IsRecurring null.Bool   `db:"is_recurring"`
	CreatedAt   null.Time   `db:"created_at"`
	UpdatedAt   null.Time   `db:"updated_at"`
}

type enrollmentRow struct {
	ID         string    `db:"id"`
	ClassID    string    `db:"class_id"`
	StudentID  string    `db:"student_id"`
	EnrolledAt null.Time `db:"enrolled_at"`
}

func (repo classRepository) row(cl class.Class) classRow {
	return classRow{
		ID:          cl.ID,
		AcademyID:   cl.AcademyID,
		CoachID:     cl.CoachID,
		CourtID:     null.NewString(cl.CourtID, cl.CourtID != ""),
		Name:        null.NewString(cl.Name, cl.Name != ""),
		Level:       null.NewString(cl.Level, cl.Level != ""),
		DayOfWeek:   int(cl.DayOfWeek),
		StartTime:   cl.StartTime.String(),
		EndTime:     cl.EndTime.String(),
		Capacity:    null.IntFrom(cl.Capacity),
		IsRecurring: null.BoolFrom(cl.IsRecurring),
		CreatedAt:   null.NewTime(cl.CreatedAt.UTC(), !cl.CreatedAt.IsZero()),
		UpdatedAt:   null.NewTime(cl.UpdatedAt.UTC(), !cl.UpdatedAt.IsZero()),
	}
}

func (repo classRepository) unrow(row classRow) (class.Class, error) {
	start, err := core.ParseTimeOfDay(row.StartTime)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "parsing class start time")
	}
	end, err := core.ParseTimeOfDay(row.EndTime)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "parsing class end time")
	}
	return class.Class{
		ID:          row.ID,
		AcademyID:   row.AcademyID,
		CoachID:     row.CoachID,
		CourtID:     row.CourtID.String,
		Name:        row.Name.String,
		Level:       row.Level.String,
		DayOfWeek:   time.Weekday(row.DayOfWeek),
		StartTime:   start,
		EndTime:     end,
		Capacity:    row.Capacity.Int,
		IsRecurring: row.IsRecurring.Bool,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}, nil
}

func (repo classRepository) unrowSlice(rows []classRow) ([]class.Class, error) {
	classes := make([]class.Class, 0, len(rows))
	for _, row := range rows {
		cl, err := repo.unrow(row)
		if err != nil {
			return nil, err
		}
		classes = append(classes, cl)
	}
	return classes, nil
}

func (repo classRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return class.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *classRepository) CreateClass(cl class.Class) (class.Class, error) {
	cl.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO class (id, academy_id, coach_id, court_id, name, level, day_of_week, start_time, end_time, capacity, is_recurring, created_at, updated_at)
		VALUES (:id, :academy_id, :coach_id, :court_id, :name, :level, :day_of_week, :start_time, :end_time, :capacity, :is_recurring, :created_at, :updated_at)`,
		repo.row(cl),
	)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return cl, nil
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	var row classRow
	if err := repo.db.Get(&row, `SELECT * FROM class WHERE id = $1`, id); err != nil {
		return class.Class{}, repo.trapNoRowsErr(err, "getting class by id")
	}
	return repo.unrow(row)
}

func (repo *classRepository) GetClassWithRoster(id string) (class.ClassWithRoster, error) {
	cl, err := repo.GetClassByID(id)
	if err != nil {
		return class.ClassWithRoster{}, err
	}

	var rows []studentRow
	err = repo.db.Select(&rows, `
		SELECT s.* FROM student s
		JOIN enrollment e ON e.student_id = s.id
		WHERE e.class_id = $1
		ORDER BY s.name`, id,
	)
	if err != nil {
		return class.ClassWithRoster{}, errors.Wrap(err, "querying class roster")
	}

	stRepo := studentRepository{db: repo.db}
	roster := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		roster = append(roster, stRepo.unrow(row))
	}
	return class.ClassWithRoster{Class: cl, Roster: roster}, nil
}

func (repo *classRepository) FilterClasses(filter class.QueryFilter) ([]class.Class, error) {
	where := make([]string, 0, 7)
	args := []interface{}{}

	if filter.Search != "" {
		where = append(where, `(name ILIKE ? OR level ILIKE ?)`)
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.AcademyID != "" {
		where = append(where, `academy_id = ?`)
		args = append(args, filter.AcademyID)
	}
	if filter.CoachID != "" {
		where = append(where, `coach_id = ?`)
		args = append(args, filter.CoachID)
	}
	if filter.CourtID != "" {
		where = append(where, `court_id = ?`)
		args = append(args, filter.CourtID)
	}
	if filter.DayOfWeek != nil {
		where = append(where, `day_of_week = ?`)
		args = append(args, *filter.DayOfWeek)
	}
	if filter.Level != "" {
		where = append(where, `level = ?`)
		args = append(args, filter.Level)
	}
	if filter.Recurring != nil {
		where = append(where, `is_recurring = ?`)
		args = append(args, *filter.Recurring)
	}

	query := `SELECT * FROM class`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY day_of_week, start_time`

	var rows []classRow
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering classes")
	}
	return repo.unrowSlice(rows)
}

func (repo *classRepository) QueryClassesByCoachDay(coachID string, day time.Weekday) ([]class.Class, error) {
	var rows []classRow
	err := repo.db.Select(&rows, `SELECT * FROM class WHERE coach_id = $1 AND day_of_week = $2 ORDER BY start_time`, coachID, int(day))
	if err != nil {
		return nil, errors.Wrap(err, "querying classes by coach and day")
	}
	return repo.unrowSlice(rows)
}

func (repo *classRepository) QueryRecurringClasses() ([]class.Class, error) {
	var rows []classRow
	err := repo.db.Select(&rows, `SELECT * FROM class WHERE is_recurring ORDER BY day_of_week, start_time`)
	if err != nil {
		return nil, errors.Wrap(err, "querying recurring classes")
	}
	return repo.unrowSlice(rows)
}

func (repo *classRepository) UpdateClass(cl class.Class, isRecurring *bool) (class.Class, error) {
	// update fields are pre-merged with the original by the service layer
	set := []string{
		`coach_id = ?`, `court_id = ?`, `name = ?`, `level = ?`,
		`day_of_week = ?`, `start_time = ?`, `end_time = ?`, `capacity = ?`,
	}
	args := []interface{}{
		cl.CoachID, null.NewString(cl.CourtID, cl.CourtID != ""), cl.Name, cl.Level,
		int(cl.DayOfWeek), cl.StartTime.String(), cl.EndTime.String(), cl.Capacity,
	}
	if isRecurring != nil {
		set = append(set, `is_recurring = ?`)
		args = append(args, *isRecurring)
	}
	set = append(set, `updated_at = ?`)
	args = append(args, cl.UpdatedAt.UTC())
	args = append(args, cl.ID)

	query := `UPDATE class SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := repo.db.Exec(repo.db.Rebind(query), args...)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return class.Class{}, class.ErrNotFound
	}
	return repo.GetClassByID(cl.ID)
}

func (repo *classRepository) DeleteClassesByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM class WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return nil
}

func (repo *classRepository) CreateEnrollment(enr class.Enrollment) (class.Enrollment, error) {
	enr.ID = uuid.New().String()
	_, err := repo.db.Exec(`
		INSERT INTO enrollment (id, class_id, student_id, enrolled_at)
		VALUES ($1, $2, $3, $4)`,
		enr.ID, enr.ClassID, enr.StudentID, enr.EnrolledAt.UTC(),
	)
	if err != nil {
		return class.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *classRepository) GetEnrollment(classID, studentID string) (class.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.Get(&row, `SELECT * FROM enrollment WHERE class_id = $1 AND student_id = $2`, classID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return class.Enrollment{}, class.ErrEnrollmentNotFound
		}
		return class.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return class.Enrollment{
		ID:         row.ID,
		ClassID:    row.ClassID,
		StudentID:  row.StudentID,
		EnrolledAt: row.EnrolledAt.Time,
	}, nil
}

func (repo *classRepository) QueryEnrollmentsByClass(classID string) ([]class.Enrollment, error) {
	var rows []enrollmentRow
	err := repo.db.Select(&rows, `SELECT * FROM enrollment WHERE class_id = $1 ORDER BY enrolled_at`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrs := make([]class.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrs = append(enrs, class.Enrollment{
			ID:         row.ID,
			ClassID:    row.ClassID,
			StudentID:  row.StudentID,
			EnrolledAt: row.EnrolledAt.Time,
		})
	}
	return enrs, nil
}

func (repo *classRepository) DeleteEnrollmentsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM enrollment WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}
