package court

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("court not found")

type (
	Repository interface {
		CreateCourt(c Court) (Court, error)
		GetCourtByID(id string) (Court, error)
		FilterCourts(filter QueryFilter) ([]Court, error)
		UpdateCourt(c Court, indoor, isActive *bool) (Court, error)
		DeleteCourtsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCourt) (Court, error) {
	now := time.Now().UTC()
	c := Court{
		AcademyID: nc.AcademyID,
		Name:      nc.Name,
		Surface:   nc.Surface,
		Indoor:    nc.Indoor,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCourt(c)
}

func (svc *Service) GetByID(id string) (Court, error) {
	return svc.repo.GetCourtByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Court, error) {
	return svc.repo.FilterCourts(filter)
}

func (svc *Service) Update(id string, uc UpdateCourt) (Court, error) {
	c := Court{
		ID:        id,
		Name:      uc.Name,
		Surface:   uc.Surface,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateCourt(c, uc.Indoor, uc.IsActive)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteCourtsByID(ids...)
}
