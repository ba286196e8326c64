package models

import "time"

// UserProfile - публичный профиль коллекционера
type UserProfile struct {
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	PhotoURL  string     `json:"photoUrl"`
	Bio       string     `json:"bio"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ProfileUpdate - частичное обновление профиля
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photoUrl,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}
