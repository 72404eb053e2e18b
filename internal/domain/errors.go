package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when a bearer token is missing, malformed or expired
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller is authenticated but not allowed to act
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned when the password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when signing up with an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrListNotFound is returned when a watch list does not exist or belongs to another user
	ErrListNotFound = errors.New("list not found")

	// ErrTermNotFound is returned when a watch term does not exist in the list
	ErrTermNotFound = errors.New("ingredient not found")

	// ErrProductNotFound is returned when a product cannot be found locally or in Open Food Facts
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateBarcode is returned when a product with the same barcode already exists
	ErrDuplicateBarcode = errors.New("product with this barcode already exists")

	// ErrFoodAPIFailure is returned when an Open Food Facts request fails
	ErrFoodAPIFailure = errors.New("open food facts request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrFileTooLarge is returned when an uploaded file exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedMedia is returned when an uploaded file is not an accepted image type
	ErrUnsupportedMedia = errors.New("unsupported file type")
)
