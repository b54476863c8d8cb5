// internal/adapters/out/gcs/helper_repository_gcs.go
package gcs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"
)

// sanitizePathSegment normalizes a path segment for GCS object paths.
// - removes separators
// - trims dots/spaces
func sanitizePathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return strings.Trim(s, ". ")
}

// extensionByMIME maps the accepted photo types to a file extension.
func extensionByMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// newObjectID generates a random-ish id for object paths.
func newObjectID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err == nil {
		return hex.EncodeToString(b)
	}
	return fmt.Sprintf("%d", time.Now().UTC().UnixNano())
}

// photoObjectPath builds "products/<productID>/<random><ext>".
func photoObjectPath(productID, contentType string) (string, error) {
	seg := sanitizePathSegment(productID)
	if seg == "" {
		return "", fmt.Errorf("gcs: product id is empty")
	}
	return path.Join("products", seg, newObjectID()+extensionByMIME(contentType)), nil
}
