package dummydb

import (
	"github.com/google/uuid"

	"github.com/kwanza/kocha/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	st.ID = uuid.New().String()
	repo.db.student.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	if st, ok := repo.db.student.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	students := make([]student.Student, 0, len(repo.db.student.table))
	for _, st := range repo.db.student.table {
		if filter.Search != "" && !matchesSearch(filter.Search, st.Name, st.Email) {
			continue
		}
		if filter.AcademyID != "" && st.AcademyID != filter.AcademyID {
			continue
		}
		if filter.IsActive != nil && st.IsActive != *filter.IsActive {
			continue
		}
		students = append(students, *st)
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(st student.Student, isActive *bool) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	orig, ok := repo.db.student.table[st.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if st.Name != "" {
		orig.Name = st.Name
	}
	if st.Email != "" {
		orig.Email = st.Email
	}
	if st.Phone != "" {
		orig.Phone = st.Phone
	}
	if st.GuardianName != "" {
		orig.GuardianName = st.GuardianName
	}
	if st.GuardianPhone != "" {
		orig.GuardianPhone = st.GuardianPhone
	}
	if !st.BirthDate.IsZero() {
		orig.BirthDate = st.BirthDate
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = st.UpdatedAt
	return *orig, nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	for _, id := range ids {
		delete(repo.db.student.table, id)
	}
	return nil
}
