package handler

import "time"

// apiResponse is the envelope returned by every successful endpoint.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// --- Request types ---

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
}

// --- Response types ---
//
// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes, and so the password hash and refresh token can never leak.

type imageResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type userResponse struct {
	ID         string        `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	FullName   string        `json:"fullName"`
	Avatar     imageResponse `json:"avatar"`
	CoverImage imageResponse `json:"coverImage"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

type loginResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type channelProfileResponse struct {
	FullName                  string        `json:"fullName"`
	Username                  string        `json:"username"`
	Email                     string        `json:"email"`
	Avatar                    imageResponse `json:"avatar"`
	CoverImage                imageResponse `json:"coverImage"`
	// The misspelled key is the established wire contract; clients already
	// depend on it.
	SubscribersCount          int64         `json:"subcribersCount"`
	ChannelsSubscribedToCount int64         `json:"channelsSubscribedToCount"`
	IsSubscribed              bool          `json:"isSubscribed"`
}

type videoOwnerResponse struct {
	FullName string        `json:"fullName"`
	Username string        `json:"username"`
	Avatar   imageResponse `json:"avatar"`
}

type videoResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoFile   imageResponse      `json:"videoFile"`
	Thumbnail   imageResponse      `json:"thumbnail"`
	Duration    float64            `json:"duration"`
	Views       int64              `json:"views"`
	Owner       videoOwnerResponse `json:"owner"`
	CreatedAt   time.Time          `json:"createdAt"`
}
