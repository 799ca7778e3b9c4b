package dto

// User mirrors the account payload returned by the user endpoints.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Enabled bool   `json:"enabled"`
}

// Credentials is the request body for register and login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// CredentialStatus reports whether the shared AI credential is configured.
// The server only ever returns a masked form of the key.
type CredentialStatus struct {
	HasKey bool   `json:"hasKey"`
	Masked string `json:"masked"`
}

// CredentialUpdateRequest carries a new shared AI credential.
type CredentialUpdateRequest struct {
	APIKey string `json:"apiKey" validate:"required"`
}
