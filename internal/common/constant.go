package common

// RefreshTokenHeaderName is the HTTP header used to carry the refresh token
// on /auth/refresh and /auth/logout requests.
const RefreshTokenHeaderName = "X-Refresh-Token"

// Token type claim values. The claim is always present and is checked
// before any authorization decision is made from a claim set.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
