package academy

import (
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound   = errors.New("academy not found")
	ErrSlugExists = errors.New("an academy with this slug already exists")
)

type (
	Repository interface {
		CheckSlugUniqueness(slug string) error
		CreateAcademy(ac Academy) (Academy, error)
		GetAcademyByID(id string) (Academy, error)
		GetAcademyBySlug(slug string) (Academy, error)
		QueryAllAcademies() ([]Academy, error)
		UpdateAcademy(ac Academy, isActive *bool) (Academy, error)
		// DeleteAcademy removes the academy and all its dependents
		// (students, coaches, courts, classes, sessions, attendance)
		// in a single transaction.
		DeleteAcademy(id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(na NewAcademy) (Academy, error) {
	if err := svc.repo.CheckSlugUniqueness(na.Slug); err != nil {
		return Academy{}, err
	}
	now := time.Now().UTC()
	ac := Academy{
		Name:      na.Name,
		Slug:      na.Slug,
		Email:     na.Email,
		Phone:     na.Phone,
		Address:   na.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateAcademy(ac)
}

func (svc *Service) QueryAll() ([]Academy, error) {
	return svc.repo.QueryAllAcademies()
}

func (svc *Service) GetByID(id string) (Academy, error) {
	return svc.repo.GetAcademyByID(id)
}

func (svc *Service) GetBySlug(slug string) (Academy, error) {
	return svc.repo.GetAcademyBySlug(slug)
}

func (svc *Service) Update(id string, ua UpdateAcademy) (Academy, error) {
	ac := Academy{
		ID:        id,
		Name:      ua.Name,
		Email:     ua.Email,
		Phone:     ua.Phone,
		Address:   ua.Address,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateAcademy(ac, ua.IsActive)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteAcademy(id)
}
