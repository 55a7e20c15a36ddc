package dummydb

import (
	"time"

	"github.com/google/uuid"

	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/student"
)

type classRepository struct {
	db *DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(cl class.Class) (class.Class, error) {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	cl.ID = uuid.New().String()
	repo.db.class.table[cl.ID] = &cl
	return cl, nil
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	if cl, ok := repo.db.class.table[id]; ok {
		return *cl, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) GetClassWithRoster(id string) (class.ClassWithRoster, error) {
	cl, err := repo.GetClassByID(id)
	if err != nil {
		return class.ClassWithRoster{}, err
	}
	enrs, err := repo.QueryEnrollmentsByClass(id)
	if err != nil {
		return class.ClassWithRoster{}, err
	}

	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	roster := make([]student.Student, 0, len(enrs))
	for _, enr := range enrs {
		if st, ok := repo.db.student.table[enr.StudentID]; ok {
			roster = append(roster, *st)
		}
	}
	return class.ClassWithRoster{Class: cl, Roster: roster}, nil
}

func (repo *classRepository) FilterClasses(filter class.QueryFilter) ([]class.Class, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.class.table))
	for _, cl := range repo.db.class.table {
		if filter.Search != "" && !matchesSearch(filter.Search, cl.Name, cl.Level) {
			continue
		}
		if filter.AcademyID != "" && cl.AcademyID != filter.AcademyID {
			continue
		}
		if filter.CoachID != "" && cl.CoachID != filter.CoachID {
			continue
		}
		if filter.CourtID != "" && cl.CourtID != filter.CourtID {
			continue
		}
		if filter.DayOfWeek != nil && cl.DayOfWeek != time.Weekday(*filter.DayOfWeek) {
			continue
		}
		if filter.Level != "" && cl.Level != filter.Level {
			continue
		}
		if filter.Recurring != nil && cl.IsRecurring != *filter.Recurring {
			continue
		}
		classes = append(classes, *cl)
	}
	return classes, nil
}

func (repo *classRepository) QueryClassesByCoachDay(coachID string, day time.Weekday) ([]class.Class, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	var classes []class.Class
	for _, cl := range repo.db.class.table {
		if cl.CoachID == coachID && cl.DayOfWeek == day {
			classes = append(classes, *cl)
		}
	}
	return classes, nil
}

func (repo *classRepository) QueryRecurringClasses() ([]class.Class, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	var classes []class.Class
	for _, cl := range repo.db.class.table {
		if cl.IsRecurring {
			classes = append(classes, *cl)
		}
	}
	return classes, nil
}

func (repo *classRepository) UpdateClass(cl class.Class, isRecurring *bool) (class.Class, error) {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	orig, ok := repo.db.class.table[cl.ID]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	// update fields are pre-merged with the original by the service layer
	orig.CoachID = cl.CoachID
	orig.CourtID = cl.CourtID
	orig.Name = cl.Name
	orig.Level = cl.Level
	orig.DayOfWeek = cl.DayOfWeek
	orig.StartTime = cl.StartTime
	orig.EndTime = cl.EndTime
	orig.Capacity = cl.Capacity
	if isRecurring != nil {
		orig.IsRecurring = *isRecurring
	}
	orig.UpdatedAt = cl.UpdatedAt
	return *orig, nil
}

func (repo *classRepository) DeleteClassesByID(ids ...string) error {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	for _, id := range ids {
		delete(repo.db.class.table, id)
		for eid, enr := range repo.db.class.enrollments {
			if enr.ClassID == id {
				delete(repo.db.class.enrollments, eid)
			}
		}
	}
	return nil
}

func (repo *classRepository) CreateEnrollment(enr class.Enrollment) (class.Enrollment, error) {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	enr.ID = uuid.New().String()
	repo.db.class.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *classRepository) GetEnrollment(classID, studentID string) (class.Enrollment, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	for _, enr := range repo.db.class.enrollments {
		if enr.ClassID == classID && enr.StudentID == studentID {
			return *enr, nil
		}
	}
	return class.Enrollment{}, class.ErrEnrollmentNotFound
}

func (repo *classRepository) QueryEnrollmentsByClass(classID string) ([]class.Enrollment, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	var enrs []class.Enrollment
	for _, enr := range repo.db.class.enrollments {
		if enr.ClassID == classID {
			enrs = append(enrs, *enr)
		}
	}
	return enrs, nil
}

func (repo *classRepository) DeleteEnrollmentsByID(ids ...string) error {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	for _, id := range ids {
		delete(repo.db.class.enrollments, id)
	}
	return nil
}
