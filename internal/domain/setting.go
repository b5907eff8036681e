package domain

import "time"

type SettingValue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Setting is the singleton branding/content document, lazily created
// with defaults on first read.
type Setting struct {
	MainLogo                string         `json:"main_logo"`
	DarkModeLogo            string         `json:"dark_mode_logo"`
	Carousel                []string       `json:"carousel"`
	AboutText               string         `json:"about_text"`
	CarouselWelcomeText     string         `json:"carousel_welcome_text"`
	CarouselAppNameText     string         `json:"carousel_app_name_text"`
	CarouselDescriptionText string         `json:"carousel_description_text"`
	CallToActionText        string         `json:"call_to_action_text"`
	Values                  []SettingValue `json:"values"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

func DefaultSetting() Setting {
	return Setting{
		MainLogo:                "/uploads/default-logo-light.png",
		DarkModeLogo:            "/uploads/default-logo-dark.png",
		AboutText:               "EventHub is your platform for discovering and organizing local events.",
		CarouselWelcomeText:     "Welcome to",
		CarouselAppNameText:     "Event Hub",
		CarouselDescriptionText: "Discover the best events near you",
		CallToActionText:        "Join the EventHub community and discover events near you, or start organizing your own today!",
	}
}
