// Package pdf serializes a composed page sequence into a PDF document. All
// layout decisions are made upstream in compose; this stage only draws, with
// the fixed coordinates, fonts and colors of the bundle document design.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/matterdesk/bundler/internal/core/compose"
	"github.com/matterdesk/bundler/internal/core/domain"
)

// Document palette.
var (
	navy      = [3]int{30, 54, 94}
	accent    = [3]int{246, 145, 57}
	white     = [3]int{255, 255, 255}
	ink       = [3]int{37, 38, 39}
	slate     = [3]int{88, 89, 91}
	grey      = [3]int{133, 133, 133}
	lightGrey = [3]int{170, 170, 170}
	frame     = [3]int{221, 225, 231}
	altRow    = [3]int{248, 249, 251}
)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(_ context.Context, pages []compose.Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "render document", errors.New("no pages"))
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	d := &drawer{doc: doc, tr: tr}
	for i, page := range pages {
		doc.AddPage()
		switch p := page.(type) {
		case compose.CoverPage:
			d.cover(p)
		case compose.IndexPage:
			d.index(p)
		case compose.TabPage:
			d.tab(p)
		case compose.ImagePage:
			d.image(p, i)
		case compose.PlaceholderPage:
			d.placeholder(p)
		default:
			return nil, domain.WrapError(domain.ErrInvalidInput, "render document",
				fmt.Errorf("unknown page type %T", page))
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type drawer struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

const (
	pageW = compose.PageWidth
	pageH = compose.PageHeight
)

func (d *drawer) fill(c [3]int)   { d.doc.SetFillColor(c[0], c[1], c[2]) }
func (d *drawer) text(c [3]int)   { d.doc.SetTextColor(c[0], c[1], c[2]) }
func (d *drawer) stroke(c [3]int) { d.doc.SetDrawColor(c[0], c[1], c[2]) }

// centered draws one line of text horizontally centered at the given
// baseline.
func (d *drawer) centered(y float64, s string) {
	d.doc.SetXY(0, y-4)
	d.doc.CellFormat(pageW, 8, d.tr(s), "", 0, "C", false, 0, "")
}

func (d *drawer) cover(p compose.CoverPage) {
	d.fill(navy)
	d.doc.Rect(0, 0, pageW, 55, "F")

	d.text(white)
	d.doc.SetFont("Helvetica", "B", 22)
	d.centered(28, compose.CoverTitle)
	d.doc.SetFont("Helvetica", "", 13)
	d.centered(43, strings.ToUpper(p.BundleName))

	d.text(navy)
	d.doc.SetFont("Helvetica", "B", 10)
	d.label(20, 72, "MATTER")
	d.doc.SetFont("Helvetica", "", 10)
	d.label(20, 80, fmt.Sprintf("%s — MATTER %s", strings.ToUpper(p.MatterName), p.MatterNumber))

	d.doc.SetFont("Helvetica", "B", 10)
	d.label(20, 96, "DATE GENERATED")
	d.doc.SetFont("Helvetica", "", 10)
	d.label(20, 104, p.GeneratedOn)

	if len(p.Authorisers) > 0 {
		d.doc.SetFont("Helvetica", "B", 10)
		d.label(20, 120, "AUTHORISED BY")
		d.doc.SetFont("Helvetica", "", 10)
		for i, name := range p.Authorisers {
			d.label(20, 128+float64(i)*9, name)
		}
	}

	d.fill(navy)
	d.doc.Rect(0, pageH-16, pageW, 16, "F")
	d.text(white)
	d.doc.SetFont("Helvetica", "", 8)
	d.centered(pageH-6, compose.ConfidentialityLabel)
}

func (d *drawer) index(p compose.IndexPage) {
	d.text(navy)
	d.doc.SetFont("Helvetica", "B", 26)
	d.centered(28, compose.IndexTitle)

	d.stroke(navy)
	d.doc.SetLineWidth(0.5)
	d.doc.Line(20, 33, pageW-20, 33)

	d.text(slate)
	d.doc.SetFont("Helvetica", "", 9)
	d.centered(42, p.AffidavitLine)

	finalY := d.indexTable(p.Rows)

	if p.Certification {
		d.doc.SetFont("Helvetica", "I", 8)
		d.text(slate)
		d.label(20, finalY+14, compose.CertificationLine)
		for i, name := range p.Authorisers {
			y := finalY + 28 + float64(i)*16
			d.stroke(ink)
			d.doc.SetLineWidth(0.3)
			d.doc.Line(20, y, 100, y)
			d.doc.SetFont("Helvetica", "", 8)
			d.label(20, y+5, name)
		}
	}
}

// indexTable draws the member table and returns its final y position,
// starting a fresh page when rows run past the bottom margin.
func (d *drawer) indexTable(rows []compose.IndexRow) float64 {
	const (
		tableX   = 20.0
		tabW     = 14.0
		pagesW   = 22.0
		rowH     = 7.0
		bottom   = pageH - 20
		tableW   = pageW - 2*tableX
		descW    = tableW - tabW - pagesW
		startY   = 50.0
		headingH = 8.0
	)

	drawHead := func(y float64) float64 {
		d.fill(navy)
		d.text(white)
		d.doc.SetFont("Helvetica", "B", 9)
		d.doc.SetXY(tableX, y)
		d.doc.CellFormat(tabW, headingH, "Tab", "", 0, "C", true, 0, "")
		d.doc.CellFormat(descW, headingH, "Document Description", "", 0, "L", true, 0, "")
		d.doc.CellFormat(pagesW, headingH, "Pages", "", 0, "C", true, 0, "")
		return y + headingH
	}

	y := drawHead(startY)
	for i, row := range rows {
		if y+rowH > bottom {
			d.doc.AddPage()
			y = drawHead(startY)
		}
		shaded := i%2 == 1
		if shaded {
			d.fill(altRow)
		}
		d.text(ink)
		d.doc.SetXY(tableX, y)
		d.doc.SetFont("Helvetica", "B", 8)
		d.doc.CellFormat(tabW, rowH, d.tr(row.TabLabel), "", 0, "C", shaded, 0, "")
		d.doc.SetFont("Helvetica", "", 8)
		d.doc.CellFormat(descW, rowH, d.tr(row.Description), "", 0, "L", shaded, 0, "")
		d.doc.CellFormat(pagesW, rowH, d.tr(row.PageRange), "", 0, "C", shaded, 0, "")
		y += rowH
	}
	return y
}

func (d *drawer) tab(p compose.TabPage) {
	d.fill(navy)
	d.doc.Rect(0, 0, pageW, pageH, "F")

	d.text(white)
	d.doc.SetFont("Helvetica", "B", 110)
	d.centered(pageH/2-10, p.Label)

	d.doc.SetFont("Helvetica", "", 12)
	d.wrapped(pageH/2+32, pageW-60, p.Title)

	d.text(accent)
	d.doc.SetFont("Helvetica", "", 10)
	d.centered(pageH/2+50, p.EvidenceNumber)
}

// image draws the member's content, degrading to the placeholder layout
// when the backend rejects bytes the layout stage's header sniff accepted.
// A single bad image never fails the document.
func (d *drawer) image(p compose.ImagePage, pageIndex int) {
	if err := d.drawImage(p, pageIndex); err != nil {
		d.doc.ClearError()
		d.placeholder(compose.PlaceholderPage{Name: p.Name, EvidenceNumber: p.EvidenceNumber})
	}
}

// drawImage registers and places one image. The backend decodes the full
// stream here, so corruption past the header surfaces as a sticky document
// error or a decoder panic; both become a plain error for the caller.
func (d *drawer) drawImage(p compose.ImagePage, pageIndex int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode image: %v", r)
		}
	}()

	name := fmt.Sprintf("member-%d", pageIndex)
	opts := fpdf.ImageOptions{ImageType: p.Format}
	d.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.Data))
	if d.doc.Err() {
		return fmt.Errorf("register image: %w", d.doc.Error())
	}
	d.doc.ImageOptions(name, p.X, p.Y, p.Width, p.Height, false, opts, 0, "")
	if d.doc.Err() {
		return fmt.Errorf("place image: %w", d.doc.Error())
	}
	return nil
}

func (d *drawer) placeholder(p compose.PlaceholderPage) {
	d.stroke(frame)
	d.doc.SetLineWidth(0.3)
	d.doc.Rect(15, 15, pageW-30, pageH-30, "D")

	d.text(grey)
	d.doc.SetFont("Helvetica", "", 11)
	d.wrapped(pageH/2-8, pageW-60, p.Name)

	d.doc.SetFont("Helvetica", "", 9)
	d.centered(pageH/2+8, p.EvidenceNumber)

	d.text(lightGrey)
	d.centered(pageH/2+20, compose.PlaceholderNotice)
}

func (d *drawer) label(x, y float64, s string) {
	d.doc.Text(x, y, d.tr(s))
}

// wrapped draws center-aligned text word-wrapped to the given width.
func (d *drawer) wrapped(y, width float64, s string) {
	lines := d.doc.SplitText(d.tr(s), width)
	for i, line := range lines {
		d.doc.SetXY((pageW-width)/2, y-4+float64(i)*6)
		d.doc.CellFormat(width, 8, line, "", 0, "C", false, 0, "")
	}
}

