package auth

import "time"

// Credentials is the login payload for the local demo principal.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the client-held view of an authenticated principal. At most one
// is active at a time; setting a new id implicitly invalidates the previous.
type Session struct {
	SessionID       string    `json:"sessionId"`
	EstablishedAt   time.Time `json:"establishedAt"`
	LastValidatedAt time.Time `json:"lastValidatedAt"`
}

// Tokens holds the bearer material attached to outgoing HTTP requests.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// LoginResult is the outcome of auth.login / auth.refresh.
type LoginResult struct {
	Success      bool   `json:"success"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ValidateResult is the outcome of auth.validate.
type ValidateResult struct {
	Valid bool `json:"valid"`
}
