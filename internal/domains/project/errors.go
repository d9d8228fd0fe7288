package project

import "errors"

var (
	// Không tồn tại, id sai format, hoặc thuộc user khác: không phân biệt
	ErrProjectNotFound = errors.New("project not found")
)
