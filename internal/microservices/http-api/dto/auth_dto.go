package dto

// Data Transfer Objects for the signup / confirmation code / token flow

// SignupRequest: payload for POST /auth/signup
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the registered pair; the code itself only travels by email.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// ConfirmationCodeRequest: payload for POST /auth/confirmation_code
type ConfirmationCodeRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// TokenRequest: payload for POST /auth/token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: bearer access token minted from a confirmation code
type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
