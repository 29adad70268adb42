package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matterdesk/bundler/internal/core/domain"
)

// BundleStore owns the canonical bundle collection and tracks which bundle
// is active for membership toggles. It holds evidence-item ids only, never
// item data.
type BundleStore struct {
	mu       sync.Mutex
	order    []string
	bundles  map[string]domain.Bundle
	activeID string
	now      func() time.Time
}

func NewBundleStore() *BundleStore {
	return &BundleStore{
		bundles: make(map[string]domain.Bundle),
		now:     time.Now,
	}
}

// Create adds an empty bundle under the default naming policy and makes it
// active.
func (s *BundleStore) Create(_ context.Context) (*domain.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bundle := s.createLocked("")
	return &bundle, nil
}

// CreateFromSelection builds a bundle from a pre-selected item list in one
// step. An empty selection creates nothing and returns nil.
func (s *BundleStore) CreateFromSelection(_ context.Context, itemIDs []string, name string) (*domain.Bundle, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bundle := s.createLocked(strings.TrimSpace(name))
	seen := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		bundle.MemberIDs = append(bundle.MemberIDs, id)
	}
	s.bundles[bundle.ID] = cloneBundle(bundle)
	return &bundle, nil
}

// createLocked allocates, registers and activates a bundle. An empty name
// falls back to the default policy "Bundle <n>".
func (s *BundleStore) createLocked(name string) domain.Bundle {
	if name == "" {
		name = fmt.Sprintf("Bundle %d", len(s.order)+1)
	}
	bundle := domain.Bundle{
		ID:        domain.NewID(),
		Name:      name,
		Settings:  domain.DefaultBundleSettings(),
		CreatedAt: s.now(),
	}
	s.bundles[bundle.ID] = cloneBundle(bundle)
	s.order = append(s.order, bundle.ID)
	s.activeID = bundle.ID
	return bundle
}

func (s *BundleStore) GetByID(_ context.Context, id string) (*domain.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, ok := s.bundles[id]
	if !ok {
		return nil, domain.ErrBundleNotFound
	}
	out := cloneBundle(bundle)
	return &out, nil
}

// List returns every bundle in creation order.
func (s *BundleStore) List(_ context.Context) ([]domain.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Bundle, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneBundle(s.bundles[id]))
	}
	return out, nil
}

// Active returns the active bundle, or nil when none is selected.
func (s *BundleStore) Active(_ context.Context) (*domain.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return nil, nil
	}
	out := cloneBundle(s.bundles[s.activeID])
	return &out, nil
}

func (s *BundleStore) SetActive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bundles[id]; !ok {
		return domain.ErrBundleNotFound
	}
	s.activeID = id
	return nil
}

// Rename updates the bundle name. A trimmed-empty name is rejected as a
// silent no-op; the prior name is retained.
func (s *BundleStore) Rename(_ context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, ok := s.bundles[id]
	if !ok {
		return domain.ErrBundleNotFound
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	bundle.Name = trimmed
	s.bundles[id] = bundle
	return nil
}

// ToggleMembership adds the item if absent, removes it if present. An empty
// bundleID targets the active bundle, auto-creating one when none exists so
// the toggle becomes its first member. Removal preserves the order of the
// remaining members; re-adding appends at the current end.
func (s *BundleStore) ToggleMembership(_ context.Context, bundleID, itemID string) (*domain.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bundleID == "" {
		bundleID = s.activeID
	}
	if bundleID == "" {
		bundle := s.createLocked("")
		bundle.MemberIDs = []string{itemID}
		s.bundles[bundle.ID] = cloneBundle(bundle)
		return &bundle, nil
	}

	bundle, ok := s.bundles[bundleID]
	if !ok {
		return nil, domain.ErrBundleNotFound
	}

	if bundle.HasMember(itemID) {
		kept := bundle.MemberIDs[:0:0]
		for _, id := range bundle.MemberIDs {
			if id != itemID {
				kept = append(kept, id)
			}
		}
		bundle.MemberIDs = kept
	} else {
		bundle.MemberIDs = append(bundle.MemberIDs, itemID)
	}

	s.bundles[bundleID] = cloneBundle(bundle)
	return &bundle, nil
}

// UpdateSettings merges only the keys supplied on the patch.
func (s *BundleStore) UpdateSettings(_ context.Context, id string, patch domain.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, ok := s.bundles[id]
	if !ok {
		return domain.ErrBundleNotFound
	}
	bundle.Settings = patch.Apply(bundle.Settings)
	s.bundles[id] = bundle
	return nil
}

// SetAuthorisers replaces the authoriser list, dropping blank names and
// duplicates while preserving first-occurrence order.
func (s *BundleStore) SetAuthorisers(_ context.Context, id string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, ok := s.bundles[id]
	if !ok {
		return domain.ErrBundleNotFound
	}

	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	bundle.Authorisers = unique
	s.bundles[id] = bundle
	return nil
}

func (s *BundleStore) RemoveAuthoriser(_ context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, ok := s.bundles[id]
	if !ok {
		return domain.ErrBundleNotFound
	}

	kept := bundle.Authorisers[:0:0]
	for _, existing := range bundle.Authorisers {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	bundle.Authorisers = kept
	s.bundles[id] = bundle
	return nil
}

// Delete removes the bundle. Deleting the active bundle selects the most
// recently created remaining bundle, or none.
func (s *BundleStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bundles[id]; !ok {
		return domain.ErrBundleNotFound
	}
	delete(s.bundles, id)

	kept := s.order[:0:0]
	for _, existing := range s.order {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	s.order = kept

	if s.activeID == id {
		s.activeID = ""
		if len(s.order) > 0 {
			s.activeID = s.order[len(s.order)-1]
		}
	}
	return nil
}

func cloneBundle(b domain.Bundle) domain.Bundle {
	b.MemberIDs = append([]string(nil), b.MemberIDs...)
	b.Authorisers = append([]string(nil), b.Authorisers...)
	return b
}
