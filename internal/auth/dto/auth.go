package dto

import authdomain "examprep-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	FullName         string `json:"fullName" binding:"required,min=2,max=100"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8,max=72,strongpassword"`
	Phone            string `json:"phone" binding:"omitempty,phone"`
	EducationalLevel string `json:"educationalLevel" binding:"omitempty,oneof=Elementary 'Middle School' 'High School' Undergraduate Graduate"`
	State            string `json:"state" binding:"omitempty,min=1"`
	Institution      string `json:"institution" binding:"omitempty,min=1"`
}

// RefreshTokenRequest leaves token optional so a missing token is reported as
// 401 by the usecase rather than as a validation failure
type RefreshTokenRequest struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	User         authdomain.Profile `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}
