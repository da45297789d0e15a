package session

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError is a local pre-request rejection. It never reaches the
// network and is reported synchronously on the mutation slice.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a local validation failure.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// invalidNameRunes are rejected in folder names before any request.
const invalidNameRunes = `/\:*?"<>|`

// MaxUploadSize is the client-side cap on upload size.
const MaxUploadSize = 5 * 1024 * 1024

// allowedUploadExts lists the upload extensions the server accepts; checked
// locally so a doomed upload never leaves the machine.
var allowedUploadExts = map[string]bool{
	"txt":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"json": true,
}

// validateFolderName checks a trimmed folder name.
func validateFolderName(name string) error {
	if name == "" {
		return &ValidationError{Message: "folder name cannot be empty"}
	}
	if strings.ContainsAny(name, invalidNameRunes) {
		return &ValidationError{Message: "folder name contains invalid characters"}
	}
	return nil
}

// validateUpload checks name and size before any network call.
func validateUpload(name string, size int64) error {
	if size > MaxUploadSize {
		return &ValidationError{Message: fmt.Sprintf("file size must be less than %dMB", MaxUploadSize/(1024*1024))}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !allowedUploadExts[ext] {
		return &ValidationError{Message: "file type not allowed. Allowed: txt, jpg, jpeg, png, json"}
	}
	return nil
}
