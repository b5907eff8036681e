package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (req *CoordinatesRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

type CreateLocationRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Address     string              `json:"address"`
	Coordinates *CoordinatesRequest `json:"coordinates"`
	Images      []string            `json:"images"`
}

func (req *CreateLocationRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.Address, validation.Length(0, 500)),
	)
	if err != nil {
		return err
	}

	if req.Coordinates != nil {
		return req.Coordinates.Validate()
	}

	return nil
}

type UpdateLocationRequest struct {
	CreateLocationRequest
}
