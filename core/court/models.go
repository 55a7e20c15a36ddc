package court

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kwanza/kocha/core"
)

type Court struct {
	ID        string    `json:"id"`
	AcademyID string    `json:"academy_id"`
	Name      string    `json:"name"`
	Surface   string    `json:"surface"`
	Indoor    bool      `json:"indoor"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewCourt contains information needed to create a new Court.
type NewCourt struct {
	AcademyID string `json:"academy_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Surface   string `json:"surface"`
	Indoor    bool   `json:"indoor"`
}

func (nc *NewCourt) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Surface = core.CleanString(nc.Surface, true /* lower */)
	return validate.Struct(nc)
}

// UpdateCourt defines what information may be provided to modify an existing Court.
type UpdateCourt struct {
	Name     string `json:"name"`
	Surface  string `json:"surface"`
	Indoor   *bool  `json:"indoor"`
	IsActive *bool  `json:"is_active"`
}

func (uc *UpdateCourt) Validate(orig Court, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if surface := core.CleanString(uc.Surface, true /* lower */); surface != "" {
		uc.Surface = surface
	} else {
		uc.Surface = orig.Surface
	}
	return validate.Struct(uc)
}

type QueryFilter struct {
	Search    string `query:"search"`
	AcademyID string `query:"academy_id"`
	Indoor    *bool  `query:"indoor"`
	IsActive  *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.AcademyID == "" && qf.Indoor == nil && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
