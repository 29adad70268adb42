// Package excel writes the bundle manifest workbook: one row per resolved
// member with its identity, classification, size and fingerprint status.
// This is where provenance data surfaces outside the PDF artifact.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matterdesk/bundler/internal/core/domain"
)

const sheetName = "Manifest"

var headers = []string{
	"Evidence No",
	"Document",
	"Type",
	"Size",
	"Uploaded",
	"Fingerprint (SHA-256)",
	"Integrity",
	"Favourite",
}

type ManifestWriter struct{}

func New() *ManifestWriter {
	return &ManifestWriter{}
}

func (w *ManifestWriter) Write(_ context.Context, bundleName string, items []domain.EvidenceItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name manifest sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bundle: %s", bundleName)); err != nil {
		return nil, fmt.Errorf("write bundle title: %w", err)
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}

	for i, item := range items {
		row := i + 3
		values := []any{
			item.EvidenceNumber,
			item.DisplayName,
			string(item.FileType),
			item.FormattedSize,
			item.UploadedAt.Format("2 January 2006 15:04"),
			item.Fingerprint,
			string(item.FingerprintState),
			item.IsFavourite,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "F", "F", 68); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
