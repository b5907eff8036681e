package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
	)
}

type UpdateCategoryRequest struct {
	CreateCategoryRequest
}
