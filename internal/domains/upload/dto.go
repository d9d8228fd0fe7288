package upload

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultFolder dùng khi request không gửi folder
const DefaultFolder = "uploads"

var folderPattern = regexp.MustCompile(`^[A-Za-z0-9_\-/]+$`)

// SignedURLRequest - POST /api/upload/get-signed-url
type SignedURLRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Folder   string `json:"folder,omitempty"`
}

func (r *SignedURLRequest) Normalize() {
	r.FileName = strings.TrimSpace(r.FileName)
	r.FileType = strings.TrimSpace(r.FileType)
	r.Folder = strings.Trim(strings.TrimSpace(r.Folder), "/")
}

func (r SignedURLRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FileName,
			validation.Required.Error("fileName is required"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&r.FileType,
			validation.Required.Error("fileType is required"),
			validation.Length(1, 127),
		),
		validation.Field(&r.Folder,
			validation.Match(folderPattern).Error("folder may only contain letters, digits, '_', '-' and '/'"),
			validation.Length(0, 128),
		),
	)
}

// SignedURLResponse - {uploadUrl, fileUrl, key}
type SignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
}
