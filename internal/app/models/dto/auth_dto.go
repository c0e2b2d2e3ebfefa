package dto

// LoginRequest carries user credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"mparker"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// TokenResponse returns an issued access token.
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"bearer"`
	ExpiresIn   int          `json:"expiresIn" example:"28800"`
	User        *UserSummary `json:"user,omitempty"`
}
