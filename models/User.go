package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	Email            string         `json:"email" gorm:"uniqueIndex"`
	Password         string         `json:"-"`
	AvatarURL        string         `json:"avatarURL"`
	Bio              string         `json:"bio"`
	SavedExperiences datatypes.JSON `json:"savedExperiences"`
	TelegramChatID   *int64         `json:"telegramChatID,omitempty"`                        // booking alerts for business owners
	Role             string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, business, admin

	Experiences []Experience `json:"experiences,omitempty" gorm:"foreignKey:HostID;references:ID"`
}

// Custom JSON marshaling so JSONB columns render as arrays, not raw bytes.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		SavedExperiences []int `json:"savedExperiences,omitempty"`
		*Alias
	}{
		SavedExperiences: []int{},
		Alias:            (*Alias)(u),
	}

	if u.SavedExperiences != nil {
		var saved []int
		if err := json.Unmarshal(u.SavedExperiences, &saved); err == nil {
			aux.SavedExperiences = saved
		}
	}

	// Experiences are excluded to prevent circular references.
	aux.Alias.Experiences = nil

	return json.Marshal(aux)
}
