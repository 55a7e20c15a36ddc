package coach

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kwanza/kocha/core"
)

type Coach struct {
	ID        string    `json:"id"`
	AcademyID string    `json:"academy_id"`
	UserID    string    `json:"user_id,omitempty"` // login account, if any
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewCoach contains information needed to create a new Coach.
type NewCoach struct {
	AcademyID string `json:"academy_id" validate:"required"`
	UserID    string `json:"user_id"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

func (nc *NewCoach) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.Specialty = core.CleanString(nc.Specialty)
	return validate.Struct(nc)
}

// UpdateCoach defines what information may be provided to modify an existing Coach.
type UpdateCoach struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	IsActive  *bool  `json:"is_active"`
}

func (uc *UpdateCoach) Validate(orig Coach, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if email := core.CleanString(uc.Email, true /* lower */); email != "" {
		uc.Email = email
	} else {
		uc.Email = orig.Email
	}
	return validate.Struct(uc)
}

type QueryFilter struct {
	Search    string `query:"search"`
	AcademyID string `query:"academy_id"`
	Specialty string `query:"specialty"`
	IsActive  *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.AcademyID == "" && qf.Specialty == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Specialty = core.CleanString(qf.Specialty)
}
