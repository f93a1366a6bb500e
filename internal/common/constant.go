// Package common contains shared constants and small helpers used across
// medilink components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// outbound authenticated requests.
const AuthorizationHeaderName = "Authorization"

// APIPrefix is the default versioned path prefix of the backend API.
const APIPrefix = "/api/v1"
