package dummydb

import (
	"github.com/google/uuid"

	"github.com/kwanza/kocha/core/court"
)

type courtRepository struct {
	db *DB
}

var _ court.Repository = (*courtRepository)(nil) // interface compliance check

func NewCourtRepository(db *DB) court.Repository {
	return &courtRepository{db: db}
}

func (repo *courtRepository) CreateCourt(c court.Court) (court.Court, error) {
	repo.db.court.Lock()
	defer repo.db.court.Unlock()

	c.ID = uuid.New().String()
	repo.db.court.table[c.ID] = &c
	return c, nil
}

func (repo *courtRepository) GetCourtByID(id string) (court.Court, error) {
	repo.db.court.RLock()
	defer repo.db.court.RUnlock()

	if c, ok := repo.db.court.table[id]; ok {
		return *c, nil
	}
	return court.Court{}, court.ErrNotFound
}

func (repo *courtRepository) FilterCourts(filter court.QueryFilter) ([]court.Court, error) {
	repo.db.court.RLock()
	defer repo.db.court.RUnlock()

	courts := make([]court.Court, 0, len(repo.db.court.table))
	for _, c := range repo.db.court.table {
		if filter.Search != "" && !matchesSearch(filter.Search, c.Name, c.Surface) {
			continue
		}
		if filter.AcademyID != "" && c.AcademyID != filter.AcademyID {
			continue
		}
		if filter.Indoor != nil && c.Indoor != *filter.Indoor {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		courts = append(courts, *c)
	}
	return courts, nil
}

func (repo *courtRepository) UpdateCourt(c court.Court, indoor, isActive *bool) (court.Court, error) {
	repo.db.court.Lock()
	defer repo.db.court.Unlock()

	orig, ok := repo.db.court.table[c.ID]
	if !ok {
		return court.Court{}, court.ErrNotFound
	}
	if c.Name != "" {
		orig.Name = c.Name
	}
	if c.Surface != "" {
		orig.Surface = c.Surface
	}
	if indoor != nil {
		orig.Indoor = *indoor
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = c.UpdatedAt
	return *orig, nil
}

func (repo *courtRepository) DeleteCourtsByID(ids ...string) error {
	repo.db.court.Lock()
	defer repo.db.court.Unlock()

	for _, id := range ids {
		delete(repo.db.court.table, id)
	}
	return nil
}
