package domain

import (
	"errors"
	"time"
)

var ErrValidation = errors.New("validation failed")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrChannelNotFound = errors.New("channel not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrUploadFailed = errors.New("media upload failed")

// Image is a stored media asset: the provider's public id plus the CDN URL
// clients use to retrieve it.
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// IsZero reports whether no asset is stored.
func (i Image) IsZero() bool {
	return i.PublicID == "" && i.URL == ""
}

// User is the persisted account entity. PasswordHash and RefreshToken never
// leave the service layer.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"full_name" bson:"full_name"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Avatar       Image     `json:"avatar" bson:"avatar"`
	CoverImage   Image     `json:"cover_image" bson:"cover_image,omitempty"`
	WatchHistory []string  `json:"watch_history" bson:"watch_history"`
	RefreshToken string    `json:"-" bson:"refresh_token,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
