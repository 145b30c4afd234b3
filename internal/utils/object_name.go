package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewObjectName returns a fresh, collision-free name for a stored object,
// keeping the extension of the original file name.
func NewObjectName(originalName string) string {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || len(ext) > 16 {
		return id
	}
	return id + ext
}
