package dummydb

import (
	"github.com/google/uuid"

	"github.com/kwanza/kocha/core/academy"
)

type academyRepository struct {
	db *DB
}

var _ academy.Repository = (*academyRepository)(nil) // interface compliance check

func NewAcademyRepository(db *DB) academy.Repository {
	return &academyRepository{db: db}
}

func (repo *academyRepository) CheckSlugUniqueness(slug string) error {
	repo.db.academy.RLock()
	defer repo.db.academy.RUnlock()

	for _, ac := range repo.db.academy.table {
		if ac.Slug == slug {
			return academy.ErrSlugExists
		}
	}
	return nil
}

func (repo *academyRepository) CreateAcademy(ac academy.Academy) (academy.Academy, error) {
	repo.db.academy.Lock()
	defer repo.db.academy.Unlock()

	ac.ID = uuid.New().String()
	repo.db.academy.table[ac.ID] = &ac
	return ac, nil
}

func (repo *academyRepository) GetAcademyByID(id string) (academy.Academy, error) {
	repo.db.academy.RLock()
	defer repo.db.academy.RUnlock()

	if ac, ok := repo.db.academy.table[id]; ok {
		return *ac, nil
	}
	return academy.Academy{}, academy.ErrNotFound
}

func (repo *academyRepository) GetAcademyBySlug(slug string) (academy.Academy, error) {
	repo.db.academy.RLock()
	defer repo.db.academy.RUnlock()

	for _, ac := range repo.db.academy.table {
		if ac.Slug == slug {
			return *ac, nil
		}
	}
	return academy.Academy{}, academy.ErrNotFound
}

func (repo *academyRepository) QueryAllAcademies() ([]academy.Academy, error) {
	repo.db.academy.RLock()
	defer repo.db.academy.RUnlock()

	academies := make([]academy.Academy, 0, len(repo.db.academy.table))
	for _, ac := range repo.db.academy.table {
		academies = append(academies, *ac)
	}
	return academies, nil
}

func (repo *academyRepository) UpdateAcademy(ac academy.Academy, isActive *bool) (academy.Academy, error) {
	repo.db.academy.Lock()
	defer repo.db.academy.Unlock()

	orig, ok := repo.db.academy.table[ac.ID]
	if !ok {
		return academy.Academy{}, academy.ErrNotFound
	}
	if ac.Name != "" {
		orig.Name = ac.Name
	}
	if ac.Email != "" {
		orig.Email = ac.Email
	}
	if ac.Phone != "" {
		orig.Phone = ac.Phone
	}
	if ac.Address != "" {
		orig.Address = ac.Address
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = ac.UpdatedAt
	return *orig, nil
}

// DeleteAcademy cascades through every dependent table, mirroring the
// transactional cleanup the SQL implementation performs.
func (repo *academyRepository) DeleteAcademy(id string) error {
	repo.db.academy.Lock()
	if _, ok := repo.db.academy.table[id]; !ok {
		repo.db.academy.Unlock()
		return academy.ErrNotFound
	}
	delete(repo.db.academy.table, id)
	repo.db.academy.Unlock()

	// classes + enrollments + sessions + attendance
	repo.db.class.Lock()
	var classIDs []string
	for cid, cl := range repo.db.class.table {
		if cl.AcademyID == id {
			classIDs = append(classIDs, cid)
			delete(repo.db.class.table, cid)
		}
	}
	for eid, enr := range repo.db.class.enrollments {
		for _, cid := range classIDs {
			if enr.ClassID == cid {
				delete(repo.db.class.enrollments, eid)
				break
			}
		}
	}
	repo.db.class.Unlock()

	repo.db.session.Lock()
	var sessionIDs []string
	for sid, s := range repo.db.session.table {
		for _, cid := range classIDs {
			if s.ClassID == cid {
				sessionIDs = append(sessionIDs, sid)
				delete(repo.db.session.table, sid)
				break
			}
		}
	}
	for rid, rec := range repo.db.session.attendance {
		for _, sid := range sessionIDs {
			if rec.SessionID == sid {
				delete(repo.db.session.attendance, rid)
				break
			}
		}
	}
	repo.db.session.Unlock()

	repo.db.student.Lock()
	for sid, st := range repo.db.student.table {
		if st.AcademyID == id {
			delete(repo.db.student.table, sid)
		}
	}
	repo.db.student.Unlock()

	repo.db.coach.Lock()
	for cid, c := range repo.db.coach.table {
		if c.AcademyID == id {
			delete(repo.db.coach.table, cid)
		}
	}
	repo.db.coach.Unlock()

	repo.db.court.Lock()
	for cid, c := range repo.db.court.table {
		if c.AcademyID == id {
			delete(repo.db.court.table, cid)
		}
	}
	repo.db.court.Unlock()

	return nil
}
