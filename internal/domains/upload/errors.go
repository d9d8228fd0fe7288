package upload

import "errors"

var (
	// ErrStorageNotConfigured: thiếu region, bucket hoặc credentials
	ErrStorageNotConfigured = errors.New("storage is not configured")
)
