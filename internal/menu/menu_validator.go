package menu

import (
	"errors"
	"path/filepath"
	"strings"
)

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
}

const maxUploadBytes = 10 << 20

func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return errors.New("file extension missing")
	}

	if _, ok := allowedExt[ext]; !ok {
		return errors.New("file type not allowed")
	}

	return nil
}

// ContentTypeFor prefers the declared type when it is an image and falls
// back to the extension.
func ContentTypeFor(filename, declared string) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}
