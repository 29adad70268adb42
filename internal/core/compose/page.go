// Package compose is the layout stage of the bundle compositor: it turns a
// bundle, its resolved member items and a matter context into an ordered
// sequence of page descriptions. Serialization into artifact bytes is a
// separate stage behind the ArtifactRenderer port, so every layout decision
// here is testable without a rendering backend.
package compose

// Page dimensions and margins in millimetres (A4 portrait).
const (
	PageWidth   = 210.0
	PageHeight  = 297.0
	ImageMargin = 15.0
)

// Fixed document strings.
const (
	CoverTitle           = "FORENSIC EVIDENCE BUNDLE"
	ConfidentialityLabel = "FORENSIC EVIDENCE BUNDLE — CONFIDENTIAL"
	IndexTitle           = "I  N  D  E  X"
	CertificationLine    = "I certify that this bundle is accurate and complete."
	PlaceholderNotice    = "Document content attached separately"
)

// Page is one page description in the composed sequence. Concrete types are
// CoverPage, IndexPage, TabPage, ImagePage and PlaceholderPage; the renderer
// switches on them in order.
type Page interface {
	page()
}

// CoverPage opens every bundle document.
type CoverPage struct {
	BundleName   string
	MatterName   string
	MatterNumber string
	GeneratedOn  string
	Authorisers  []string
}

// IndexRow is one table line on the index page.
type IndexRow struct {
	TabLabel    string
	Description string
	PageRange   string
}

// IndexPage lists every member with its tab label and synthetic page range.
// Certification, when set, appends the certification sentence and one
// signature line per authoriser below the table.
type IndexPage struct {
	AffidavitLine string
	Rows          []IndexRow
	Certification bool
	Authorisers   []string
}

// TabPage is the full-bleed separator preceding each member's content.
type TabPage struct {
	Label          string
	Title          string
	EvidenceNumber string
}

// ImagePage carries pre-scaled placement for a renderable image member.
// Coordinates are millimetres from the page origin.
type ImagePage struct {
	Name           string
	EvidenceNumber string
	Format         string // "PNG" or "JPEG"
	Data           []byte
	X, Y           float64
	Width, Height  float64
}

// PlaceholderPage stands in for members whose content is attached separately.
type PlaceholderPage struct {
	Name           string
	EvidenceNumber string
}

func (CoverPage) page()       {}
func (IndexPage) page()       {}
func (TabPage) page()         {}
func (ImagePage) page()       {}
func (PlaceholderPage) page() {}
