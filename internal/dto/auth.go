package dto

// SignUpRequest registers a new account.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,notblank,max=255,email" example:"newuser@example.com"`
	Password string `json:"password" validate:"required,notblank,min=8,max=72" example:"password123!"`
	Name     string `json:"name" validate:"required,notblank,min=2,max=50" example:"Jane Doe"`
	Phone    string `json:"phone" validate:"required,notblank,max=20" example:"010-1234-5678"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,notblank" example:"password123!"`
}

// RefreshTokenRequest is only consulted when the refresh cookie is absent.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type TokenResponse struct {
	AccessToken  string       `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string       `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User         UserResponse `json:"user"`
}
