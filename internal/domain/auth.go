package domain

// Permission granted to API clients allowed to submit compile jobs
const PermissionCompile = "docforge.compile"

type AuthPayload struct {
	Username   string          `json:"username"`
	Permission []string        `json:"permission"`
	Resources  map[string]bool `json:"features"`
}

// ClientCredentials identifies an API client requesting a token
type ClientCredentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
