package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
	)
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

func (req *UpdateUserRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In("admin", "organizer", "participant")),
	)
}
