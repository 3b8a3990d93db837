package entities

// User is the farmer profile.
type User struct {
	Meta
	Name     string   `json:"name,omitempty"`
	Image    string   `json:"image,omitempty"`
	Email    string   `json:"email,omitempty"`
	Age      *float64 `json:"age,omitempty"`
	Location string   `json:"location,omitempty"`
	FarmSize *float64 `json:"farmSize,omitempty"` // acres
	Language string   `json:"language,omitempty"`
}
