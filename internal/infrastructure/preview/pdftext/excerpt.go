// Package pdftext extracts leading plain text from stored pdf content for
// the preview collaborator. The core never renders documents itself; this
// adapter only supplies text the viewer can show alongside the raw bytes.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/matterdesk/bundler/internal/core/ports"
)

type Excerpter struct {
	blobs ports.BlobStore
}

func New(blobs ports.BlobStore) *Excerpter {
	return &Excerpter{blobs: blobs}
}

func (e *Excerpter) Excerpt(ctx context.Context, storageKey string, maxRunes int) (text string, err error) {
	// The pdf parser panics on some malformed files; a preview must degrade
	// to an error instead.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := e.blobs.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("open stored content: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stored content: %w", err)
	}

	doc, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("collect text: %w", err)
	}

	out := strings.TrimSpace(sb.String())
	if maxRunes > 0 {
		runes := []rune(out)
		if len(runes) > maxRunes {
			out = string(runes[:maxRunes])
		}
	}
	return out, nil
}
