package dto

import (
	"time"

	"photogallery/internal/entity"
)

// URLFunc turns a stored media path into a public URL.
type URLFunc func(path string) string

type RequestOTPRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	OTP   string `json:"otp" validate:"required,max=9"`
}

type SetupProfileRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Gender *string `json:"gender"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type ProfileResponse struct {
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	Gender            string  `json:"gender"`
	Avatar            *string `json:"avatar"`
	IsProfileComplete bool    `json:"is_profile_complete"`
}

type UserResponse struct {
	ID                string           `json:"id"`
	Email             string           `json:"email"`
	Username          string           `json:"username"`
	Role              string           `json:"role"`
	IsActive          bool             `json:"is_active"`
	IsProfileComplete bool             `json:"is_profile_complete"`
	Profile           *ProfileResponse `json:"profile"`
	CreatedAt         time.Time        `json:"created_at"`
}

func UserResponseFromEntity(user *entity.User, mediaURL URLFunc) UserResponse {
	response := UserResponse{
		ID:                user.ID.String(),
		Email:             user.Email,
		Username:          user.Username,
		Role:              string(user.Role),
		IsActive:          user.IsActive,
		IsProfileComplete: user.IsProfileComplete(),
		CreatedAt:         user.CreatedAt,
	}
	if user.Profile != nil {
		response.Profile = profileResponse(user.Profile, mediaURL)
	}
	return response
}

func UserResponsesFromEntities(users []entity.User, mediaURL URLFunc) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i], mediaURL))
	}
	return responses
}

func profileResponse(profile *entity.UserProfile, mediaURL URLFunc) *ProfileResponse {
	response := &ProfileResponse{
		Name:              profile.Name,
		Phone:             profile.Phone,
		Gender:            string(profile.Gender),
		IsProfileComplete: profile.IsProfileComplete,
	}
	if profile.Avatar != nil && *profile.Avatar != "" {
		avatar := resolveURL(mediaURL, *profile.Avatar)
		response.Avatar = &avatar
	}
	return response
}

func resolveURL(mediaURL URLFunc, path string) string {
	if mediaURL == nil {
		return path
	}
	return mediaURL(path)
}
