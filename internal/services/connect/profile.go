package connect

import (
	"strings"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

// ProfileUpdate carries the fields a farmer may change; nil means untouched.
type ProfileUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Image    *string  `json:"image,omitempty"`
	Age      *float64 `json:"age,omitempty"`
	Location *string  `json:"location,omitempty"`
	FarmSize *float64 `json:"farmSize,omitempty"`
	Language *string  `json:"language,omitempty"`
}

// Profile returns the caller's profile, if one was ever written.
func (s *Service) Profile(userID string) (entities.User, bool) {
	return s.users.Get(userID)
}

// UpdateProfile patches only the provided fields, creating the profile on first use.
// A non empty email from the auth proxy is recorded as well.
func (s *Service) UpdateProfile(c Caller, in ProfileUpdate) entities.User {
	u := s.users.Upsert(c.ID, func(u *entities.User) {
		if email := strings.TrimSpace(c.Email); email != "" {
			u.Email = email
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Image != nil {
			u.Image = *in.Image
		}
		if in.Age != nil {
			age := *in.Age
			u.Age = &age
		}
		if in.Location != nil {
			u.Location = *in.Location
		}
		if in.FarmSize != nil {
			size := *in.FarmSize
			u.FarmSize = &size
		}
		if in.Language != nil {
			u.Language = *in.Language
		}
	})
	s.log.Info("profile updated", zap.String("user", c.ID))
	return u
}
