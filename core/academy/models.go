package academy

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kwanza/kocha/core"
)

// Academy is a tenant: one sports academy with its own students, coaches,
// courts and classes.
type Academy struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewAcademy contains information needed to create a new Academy.
type NewAcademy struct {
	Name    string `json:"name" validate:"required"`
	Slug    string `json:"slug" validate:"required,alphanum_"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (na *NewAcademy) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	na.Slug = core.CleanString(na.Slug, true /* lower */)
	na.Email = core.CleanString(na.Email, true /* lower */)
	return validate.Struct(na)
}

// UpdateAcademy defines what information may be provided to modify an existing Academy.
type UpdateAcademy struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

func (ua *UpdateAcademy) Validate(orig Academy, validate *validator.Validate) error {
	if name := core.CleanString(ua.Name); name != "" {
		ua.Name = name
	} else {
		ua.Name = orig.Name
	}
	if email := core.CleanString(ua.Email, true /* lower */); email != "" {
		ua.Email = email
	} else {
		ua.Email = orig.Email
	}
	return validate.Struct(ua)
}
