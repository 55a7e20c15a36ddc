package coach

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("coach not found")

type (
	Repository interface {
		CreateCoach(c Coach) (Coach, error)
		GetCoachByID(id string) (Coach, error)
		FilterCoaches(filter QueryFilter) ([]Coach, error)
		UpdateCoach(c Coach, isActive *bool) (Coach, error)
		DeleteCoachesByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCoach) (Coach, error) {
	now := time.Now().UTC()
	c := Coach{
		AcademyID: nc.AcademyID,
		UserID:    nc.UserID,
		Name:      nc.Name,
		Email:     nc.Email,
		Phone:     nc.Phone,
		Specialty: nc.Specialty,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCoach(c)
}

func (svc *Service) GetByID(id string) (Coach, error) {
	return svc.repo.GetCoachByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Coach, error) {
	return svc.repo.FilterCoaches(filter)
}

func (svc *Service) Update(id string, uc UpdateCoach) (Coach, error) {
	c := Coach{
		ID:        id,
		Name:      uc.Name,
		Email:     uc.Email,
		Phone:     uc.Phone,
		Specialty: uc.Specialty,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateCoach(c, uc.IsActive)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteCoachesByID(ids...)
}
