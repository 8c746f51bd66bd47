// Package common defines shared constants and sentinel errors used across
// quotekeeper packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Token inspection errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Secret sealing errors.
	ErrSealedDataCorrupted = errors.New("sealed data corrupted")
)
