package auth

import "time"

// Credential is a bearer access token plus its expiry timestamp.
type Credential struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"` // epoch milliseconds
}

// Envelope mirrors the refresh endpoint response shape:
// { "data": { "auth": { "accessToken": ..., "expiresAt": ... } } }.
type Envelope struct {
	Data struct {
		Auth Credential `json:"auth"`
	} `json:"data"`
}

// Valid reports whether the credential is still usable at the given instant.
// A credential is valid only while now (in milliseconds) is strictly before
// its expiry.
func (e *Envelope) Valid(now time.Time) bool {
	if e == nil {
		return false
	}
	return now.UnixMilli() < e.Data.Auth.ExpiresAt
}
