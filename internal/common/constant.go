package common

// AuthorizationHeaderName carries the session token on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "
