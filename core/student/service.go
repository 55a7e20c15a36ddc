package student

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(st Student) (Student, error)
		GetStudentByID(id string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Student.Name or Student.Email.
		FilterStudents(filter QueryFilter) ([]Student, error)
		UpdateStudent(st Student, isActive *bool) (Student, error)
		DeleteStudentsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	st := Student{
		AcademyID:     ns.AcademyID,
		Name:          ns.Name,
		Email:         ns.Email,
		Phone:         ns.Phone,
		GuardianName:  ns.GuardianName,
		GuardianPhone: ns.GuardianPhone,
		BirthDate:     ns.BirthDate,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateStudent(st)
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Student, error) {
	return svc.repo.FilterStudents(filter)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	st := Student{
		ID:            id,
		Name:          us.Name,
		Email:         us.Email,
		Phone:         us.Phone,
		GuardianName:  us.GuardianName,
		GuardianPhone: us.GuardianPhone,
		BirthDate:     us.BirthDate,
		UpdatedAt:     time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(st, us.IsActive)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteStudentsByID(ids...)
}
