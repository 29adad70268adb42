package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/matterdesk/bundler/internal/core/domain"
)

func TestWriteManifest(t *testing.T) {
	items := []domain.EvidenceItem{
		{
			EvidenceNumber:   "EV-7729-001",
			DisplayName:      "statement.pdf",
			FileType:         domain.FileTypePDF,
			FormattedSize:    "1.5 KB",
			UploadedAt:       time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
			Fingerprint:      domain.ComputeFingerprint([]byte("x")),
			FingerprintState: domain.FingerprintVerified,
			IsFavourite:      true,
		},
		{
			EvidenceNumber:   "EV-7729-002",
			DisplayName:      "photo.png",
			FileType:         domain.FileTypeImage,
			FormattedSize:    "9 B",
			UploadedAt:       time.Date(2026, 8, 28, 9, 31, 0, 0, time.UTC),
			FingerprintState: domain.FingerprintFailed,
		},
	}

	data, err := New().Write(context.Background(), "Trial Bundle", items)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	title, _ := f.GetCellValue("Manifest", "A1")
	if title != "Bundle: Trial Bundle" {
		t.Fatalf("title cell = %q", title)
	}
	header, _ := f.GetCellValue("Manifest", "A2")
	if header != "Evidence No" {
		t.Fatalf("header cell = %q", header)
	}
	number, _ := f.GetCellValue("Manifest", "A3")
	if number != "EV-7729-001" {
		t.Fatalf("first row number = %q", number)
	}
	state, _ := f.GetCellValue("Manifest", "G4")
	if state != "failed" {
		t.Fatalf("second row state = %q", state)
	}
	fp, _ := f.GetCellValue("Manifest", "F3")
	if len(fp) != 64 {
		t.Fatalf("fingerprint cell = %q", fp)
	}
}
