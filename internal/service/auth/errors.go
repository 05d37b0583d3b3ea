package auth

import "errors"

// Common errors returned by the auth service.
var (
	// ErrInvalidToken is returned when a token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's not-before claim
	// lies in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrWrongTokenType is returned when a token of the wrong type is
	// presented (e.g. a refresh token where an access token is required).
	ErrWrongTokenType = errors.New("wrong token type")
)
