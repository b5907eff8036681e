package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SettingValueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type UpdateSettingRequest struct {
	MainLogo                string                `json:"main_logo"`
	DarkModeLogo            string                `json:"dark_mode_logo"`
	Carousel                []string              `json:"carousel"`
	AboutText               string                `json:"about_text"`
	CarouselWelcomeText     string                `json:"carousel_welcome_text"`
	CarouselAppNameText     string                `json:"carousel_app_name_text"`
	CarouselDescriptionText string                `json:"carousel_description_text"`
	CallToActionText        string                `json:"call_to_action_text"`
	Values                  []SettingValueRequest `json:"values"`
}

func (req *UpdateSettingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AboutText, validation.Length(0, 5000)),
		validation.Field(&req.CallToActionText, validation.Length(0, 1000)),
	)
}
