package domain

import (
	"strings"
	"testing"
)

func TestClassifyFileType(t *testing.T) {
	cases := []struct {
		mediaType string
		want      FileType
	}{
		{"image/png", FileTypeImage},
		{"image/jpeg", FileTypeImage},
		{"application/pdf", FileTypePDF},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", FileTypeDocument},
		{"application/msword", FileTypeDocument},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FileTypeSpreadsheet},
		{"application/vnd.ms-excel", FileTypeSpreadsheet},
		{"text/plain", FileTypeOther},
		{"", FileTypeOther},
	}
	for _, tc := range cases {
		if got := ClassifyFileType(tc.mediaType); got != tc.want {
			t.Fatalf("ClassifyFileType(%q) = %s, want %s", tc.mediaType, got, tc.want)
		}
	}
}

func TestFormatByteSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tc := range cases {
		if got := FormatByteSize(tc.bytes); got != tc.want {
			t.Fatalf("FormatByteSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}

func TestFormatEvidenceNumber(t *testing.T) {
	if got := FormatEvidenceNumber(1, "7729"); got != "EV-7729-001" {
		t.Fatalf("FormatEvidenceNumber(1) = %q", got)
	}
	if got := FormatEvidenceNumber(42, "7729"); got != "EV-7729-042" {
		t.Fatalf("FormatEvidenceNumber(42) = %q", got)
	}
	if got := FormatEvidenceNumber(1000, "7729"); got != "EV-7729-1000" {
		t.Fatalf("FormatEvidenceNumber(1000) = %q", got)
	}
}

func TestComputeFingerprintDeterministic(t *testing.T) {
	data := []byte("exhibit body")
	first := ComputeFingerprint(data)
	second := ComputeFingerprint(data)
	if first != second {
		t.Fatalf("fingerprint not deterministic: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
	if first != strings.ToLower(first) {
		t.Fatalf("expected lowercase hex, got %s", first)
	}
	if other := ComputeFingerprint([]byte("different body")); other == first {
		t.Fatalf("distinct content produced identical fingerprint")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id == "" {
			t.Fatalf("empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSettingsPatchApply(t *testing.T) {
	settings := DefaultBundleSettings()
	if !settings.ShowIndex || settings.ShowCertification || settings.ShowProvenance {
		t.Fatalf("unexpected defaults: %+v", settings)
	}

	on := true
	off := false
	settings = SettingsPatch{ShowCertification: &on}.Apply(settings)
	if !settings.ShowIndex || !settings.ShowCertification {
		t.Fatalf("partial patch touched unrelated field: %+v", settings)
	}

	settings = SettingsPatch{ShowIndex: &off}.Apply(settings)
	if settings.ShowIndex || !settings.ShowCertification || settings.ShowProvenance {
		t.Fatalf("merge result wrong: %+v", settings)
	}
}
