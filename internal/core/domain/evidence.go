package domain

import "time"

// FingerprintState tracks the integrity pipeline's progress for one item.
// The state is monotonic: Pending transitions exactly once to Verified or
// Failed and never back.
type FingerprintState string

const (
	FingerprintPending  FingerprintState = "pending"
	FingerprintVerified FingerprintState = "verified"
	FingerprintFailed   FingerprintState = "failed"
)

// Terminal reports whether the state can no longer change.
func (s FingerprintState) Terminal() bool {
	return s == FingerprintVerified || s == FingerprintFailed
}

// FileType is the closed classification decided once at ingestion.
type FileType string

const (
	FileTypeImage       FileType = "image"
	FileTypePDF         FileType = "pdf"
	FileTypeDocument    FileType = "document"
	FileTypeSpreadsheet FileType = "spreadsheet"
	FileTypeOther       FileType = "other"
)

// AuditEntry is one line of an item's append-only audit trail.
type AuditEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
}

// EvidenceItem is a single ingested file plus its derived metadata and
// fingerprint state. Everything except Fingerprint, FingerprintState and
// IsFavourite is immutable after ingestion.
type EvidenceItem struct {
	ID             string    `json:"id"`
	EvidenceNumber string    `json:"evidence_number"`
	DisplayName    string    `json:"display_name"`
	MediaType      string    `json:"media_type"`
	FileType       FileType  `json:"file_type"`
	ByteSize       int64     `json:"byte_size"`
	FormattedSize  string    `json:"formatted_size"`
	StorageKey     string    `json:"storage_key"`
	UploadedAt     time.Time `json:"uploaded_at"`

	Fingerprint      string           `json:"fingerprint,omitempty"`
	FingerprintState FingerprintState `json:"fingerprint_state"`

	IsFavourite bool         `json:"is_favourite"`
	AuditTrail  []AuditEntry `json:"audit_trail"`
}

// FingerprintOutcome is the terminal result delivered by the hashing
// pipeline. An empty Fingerprint means the computation failed.
type FingerprintOutcome struct {
	Fingerprint string
}

// Failed reports whether the outcome is the failure branch.
func (o FingerprintOutcome) Failed() bool {
	return o.Fingerprint == ""
}

// AuditActionUploaded is the single entry appended at ingestion.
const AuditActionUploaded = "Uploaded"
