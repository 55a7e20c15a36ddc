package dummydb

import (
	"strings"

	"github.com/google/uuid"

	"github.com/kwanza/kocha/core/coach"
)

type coachRepository struct {
	db *DB
}

var _ coach.Repository = (*coachRepository)(nil) // interface compliance check

func NewCoachRepository(db *DB) coach.Repository {
	return &coachRepository{db: db}
}

func (repo *coachRepository) CreateCoach(c coach.Coach) (coach.Coach, error) {
	repo.db.coach.Lock()
	defer repo.db.coach.Unlock()

	c.ID = uuid.New().String()
	repo.db.coach.table[c.ID] = &c
	return c, nil
}

func (repo *coachRepository) GetCoachByID(id string) (coach.Coach, error) {
	repo.db.coach.RLock()
	defer repo.db.coach.RUnlock()

	if c, ok := repo.db.coach.table[id]; ok {
		return *c, nil
	}
	return coach.Coach{}, coach.ErrNotFound
}

func (repo *coachRepository) FilterCoaches(filter coach.QueryFilter) ([]coach.Coach, error) {
	repo.db.coach.RLock()
	defer repo.db.coach.RUnlock()

	coaches := make([]coach.Coach, 0, len(repo.db.coach.table))
	for _, c := range repo.db.coach.table {
		if filter.Search != "" && !matchesSearch(filter.Search, c.Name, c.Email) {
			continue
		}
		if filter.AcademyID != "" && c.AcademyID != filter.AcademyID {
			continue
		}
		if filter.Specialty != "" && !strings.EqualFold(c.Specialty, filter.Specialty) {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		coaches = append(coaches, *c)
	}
	return coaches, nil
}

func (repo *coachRepository) UpdateCoach(c coach.Coach, isActive *bool) (coach.Coach, error) {
	repo.db.coach.Lock()
	defer repo.db.coach.Unlock()

	orig, ok := repo.db.coach.table[c.ID]
	if !ok {
		return coach.Coach{}, coach.ErrNotFound
	}
	if c.Name != "" {
		orig.Name = c.Name
	}
	if c.Email != "" {
		orig.Email = c.Email
	}
	if c.Phone != "" {
		orig.Phone = c.Phone
	}
	if c.Specialty != "" {
		orig.Specialty = c.Specialty
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = c.UpdatedAt
	return *orig, nil
}

func (repo *coachRepository) DeleteCoachesByID(ids ...string) error {
	repo.db.coach.Lock()
	defer repo.db.coach.Unlock()

	for _, id := range ids {
		delete(repo.db.coach.table, id)
	}
	return nil
}
