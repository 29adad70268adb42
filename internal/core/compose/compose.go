package compose

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/matterdesk/bundler/internal/core/domain"
)

const tabLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MemberItem is one resolved bundle member. Content holds the raw source
// bytes for items whose content is rendered inline (images); it stays nil
// for everything else.
type MemberItem struct {
	domain.EvidenceItem
	Content []byte
}

// Compose produces the full page sequence for a bundle. Member order is tab
// order. Returns domain.ErrEmptyBundle when the resolved member list is
// empty; that is the caller's no-op signal, not a failure.
func Compose(bundle *domain.Bundle, items []MemberItem, matter domain.Matter, now time.Time) ([]Page, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyBundle
	}

	generatedOn := LongDate(now)
	pages := make([]Page, 0, 2+2*len(items))

	pages = append(pages, CoverPage{
		BundleName:   bundle.Name,
		MatterName:   matter.Name,
		MatterNumber: matter.Number,
		GeneratedOn:  generatedOn,
		Authorisers:  append([]string(nil), bundle.Authorisers...),
	})

	if bundle.Settings.ShowIndex {
		pages = append(pages, indexPage(bundle, items, generatedOn))
	}

	for i := range items {
		item := &items[i]
		pages = append(pages, TabPage{
			Label:          TabLabel(i),
			Title:          StripExtension(item.DisplayName),
			EvidenceNumber: item.EvidenceNumber,
		})
		pages = append(pages, contentPage(item))
	}

	return pages, nil
}

func indexPage(bundle *domain.Bundle, items []MemberItem, generatedOn string) IndexPage {
	rows := make([]IndexRow, len(items))
	for i := range items {
		rows[i] = IndexRow{
			TabLabel:    TabLabel(i),
			Description: StripExtension(items[i].DisplayName),
			PageRange:   PageRange(i),
		}
	}

	deponent := "DEPONENT"
	if len(bundle.Authorisers) > 0 {
		deponent = strings.ToUpper(bundle.Authorisers[0])
	}

	return IndexPage{
		AffidavitLine: fmt.Sprintf("AFFIDAVIT OF %s ON %s", deponent, strings.ToUpper(generatedOn)),
		Rows:          rows,
		Certification: bundle.Settings.ShowCertification && len(bundle.Authorisers) > 0,
		Authorisers:   append([]string(nil), bundle.Authorisers...),
	}
}

// contentPage renders an image page when the member is image-classified and
// its content decodes; anything else degrades to the placeholder page. A
// single bad image never fails the document.
func contentPage(item *MemberItem) Page {
	if item.FileType != domain.FileTypeImage || len(item.Content) == 0 {
		return placeholder(item)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(item.Content))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return placeholder(item)
	}

	maxW := PageWidth - 2*ImageMargin
	maxH := PageHeight - 2*ImageMargin
	ratio := maxW / float64(cfg.Width)
	if r := maxH / float64(cfg.Height); r < ratio {
		ratio = r
	}
	width := float64(cfg.Width) * ratio
	height := float64(cfg.Height) * ratio

	format := "JPEG"
	if strings.Contains(strings.ToLower(item.MediaType), "png") {
		format = "PNG"
	}

	return ImagePage{
		Name:           item.DisplayName,
		EvidenceNumber: item.EvidenceNumber,
		Format:         format,
		Data:           item.Content,
		X:              (PageWidth - width) / 2,
		Y:              (PageHeight - height) / 2,
		Width:          width,
		Height:         height,
	}
}

func placeholder(item *MemberItem) PlaceholderPage {
	return PlaceholderPage{
		Name:           item.DisplayName,
		EvidenceNumber: item.EvidenceNumber,
	}
}

// TabLabel cycles through the 26 uppercase letters by member position and
// falls back to the 1-based numeric position beyond Z.
func TabLabel(position int) string {
	if position >= 0 && position < len(tabLetters) {
		return string(tabLetters[position])
	}
	return strconv.Itoa(position + 1)
}

// PageRange is the synthetic, non-authoritative index range for the member
// at the given position. It is a placeholder convention, not a count of
// real source pages.
func PageRange(position int) string {
	return fmt.Sprintf("%d–%d", 2*position+1, 2*position+2)
}

// StripExtension removes the final extension suffix from a display name.
func StripExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// LongDate renders the local calendar date in long form.
func LongDate(t time.Time) string {
	return t.Format("2 January 2006")
}

var (
	nonFilenameChars = regexp.MustCompile(`[^A-Za-z0-9\s]`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// SuggestedFilename sanitizes a bundle name into an artifact filename stem:
// characters outside [A-Za-z0-9\s] are stripped, the result trimmed, and
// internal whitespace runs collapsed to single underscores.
func SuggestedFilename(bundleName string) string {
	s := nonFilenameChars.ReplaceAllString(bundleName, "")
	s = strings.TrimSpace(s)
	s = whitespaceRuns.ReplaceAllString(s, "_")
	if s == "" {
		return "bundle"
	}
	return s
}
