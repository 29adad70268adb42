package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a process-unique opaque identifier. IDs are not security
// tokens; uniqueness within the process lifetime is all that is required.
func NewID() string {
	return uuid.NewString()
}

// ClassifyFileType maps a declared media type onto the closed FileType enum.
// Classification happens once at ingestion and is carried on the item.
func ClassifyFileType(mediaType string) FileType {
	t := strings.ToLower(mediaType)
	switch {
	case strings.HasPrefix(t, "image/"):
		return FileTypeImage
	case t == "application/pdf":
		return FileTypePDF
	case strings.Contains(t, "word") || strings.Contains(t, "document"):
		return FileTypeDocument
	case strings.Contains(t, "sheet") || strings.Contains(t, "excel"):
		return FileTypeSpreadsheet
	default:
		return FileTypeOther
	}
}

// FormatByteSize renders a byte count with binary (1024-based) scaling,
// picking the largest unit where the value is at least 1. Values above the
// byte unit carry one decimal place.
func FormatByteSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes)
	units := []string{"KB", "MB", "GB"}
	idx := 0
	value /= unit
	for value >= unit && idx < len(units)-1 {
		value /= unit
		idx++
	}
	return fmt.Sprintf("%.1f %s", value, units[idx])
}

// FormatEvidenceNumber renders the sequential evidence number for a matter.
// The caller supplies a pre-incremented sequence; no two items in a session
// share one.
func FormatEvidenceNumber(seq int, matterNumber string) string {
	return fmt.Sprintf("EV-%s-%03d", matterNumber, seq)
}

// ComputeFingerprint returns the lowercase hex SHA-256 digest of the full
// content. The hash itself cannot fail; unreadable sources are the caller's
// Failed outcome.
func ComputeFingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
