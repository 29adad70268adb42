package domain

import "time"

// BundleSettings controls which optional sections the compositor emits.
type BundleSettings struct {
	ShowIndex         bool `json:"show_index"`
	ShowCertification bool `json:"show_certification"`
	ShowProvenance    bool `json:"show_provenance"`
}

// DefaultBundleSettings returns the settings a freshly created bundle carries.
func DefaultBundleSettings() BundleSettings {
	return BundleSettings{ShowIndex: true}
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	ShowIndex         *bool
	ShowCertification *bool
	ShowProvenance    *bool
}

// Apply merges the patch into s, field by field.
func (p SettingsPatch) Apply(s BundleSettings) BundleSettings {
	if p.ShowIndex != nil {
		s.ShowIndex = *p.ShowIndex
	}
	if p.ShowCertification != nil {
		s.ShowCertification = *p.ShowCertification
	}
	if p.ShowProvenance != nil {
		s.ShowProvenance = *p.ShowProvenance
	}
	return s
}

// Bundle is a named, ordered set of evidence-item references plus rendering
// settings and authoriser list. MemberIDs holds references only; the
// evidence store is the sole owner of item data.
type Bundle struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	MemberIDs   []string       `json:"member_ids"`
	Authorisers []string       `json:"authorisers"`
	Settings    BundleSettings `json:"settings"`
	CreatedAt   time.Time      `json:"created_at"`
}

// HasMember reports whether id is currently in the member list.
func (b *Bundle) HasMember(id string) bool {
	for _, m := range b.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Matter is the external case/client context a bundle is generated under.
// The core never mutates it.
type Matter struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Artifact is a generated downloadable output; the caller owns persisting it.
type Artifact struct {
	Filename string
	MIME     string
	Data     []byte
}
