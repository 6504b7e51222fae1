// Package photo stores book cover photos and serves them back by key.
package photo

import (
	"fmt"
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Photo describes a stored image.
type Photo struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
}

// Keys are a nanoid plus the extension of the sniffed type, e.g. "V1StGXR8_Z5jdHi6B-myT.jpg".
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{21}\.[a-z0-9]{2,5}$`)

func newKey(ext string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate photo key: %w", err)
	}
	return id + ext, nil
}

// ValidKey reports whether key has the shape of a generated key. Store
// implementations rely on it to keep keys inside their root.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}
