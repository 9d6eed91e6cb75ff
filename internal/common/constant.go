// Package common contains constants and small helpers shared by the client
// packages.
package common

const (
	// AuthorizationHeaderName carries the bearer token on authorized requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the raw token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName tags every outbound request for log correlation.
	RequestIDHeaderName = "X-Request-ID"
)

// Keys of the persisted credential record. Together they are the whole
// on-disk contract with earlier versions of the client.
const (
	TokenKey = "authToken"
	UserKey  = "user"
)
