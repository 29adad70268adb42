// Package memory holds the session-scoped canonical stores. Both stores are
// mutex-guarded and hand out copies, so the hashing pipeline's asynchronous
// result delivery and the single interaction path never alias shared state.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/matterdesk/bundler/internal/core/domain"
)

// EvidenceStore owns the canonical evidence collection and the session's
// evidence-number counter. The counter is initialized once at construction
// and advances only through Insert.
type EvidenceStore struct {
	mu           sync.Mutex
	matterNumber string
	nextSeq      int
	order        []string
	items        map[string]domain.EvidenceItem
}

func NewEvidenceStore(matterNumber string) *EvidenceStore {
	return &EvidenceStore{
		matterNumber: matterNumber,
		nextSeq:      1,
		items:        make(map[string]domain.EvidenceItem),
	}
}

// Insert adds a newly ingested item, assigning its evidence number from the
// store counter. The assigned number is written back onto the caller's item.
func (s *EvidenceStore) Insert(_ context.Context, item *domain.EvidenceItem) error {
	if item == nil || item.ID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "insert evidence", errors.New("missing item id"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "insert evidence", errors.New("duplicate item id"))
	}

	item.EvidenceNumber = domain.FormatEvidenceNumber(s.nextSeq, s.matterNumber)
	s.nextSeq++
	if item.FingerprintState == "" {
		item.FingerprintState = domain.FingerprintPending
	}

	s.items[item.ID] = cloneItem(*item)
	s.order = append(s.order, item.ID)
	return nil
}

func (s *EvidenceStore) GetByID(_ context.Context, id string) (*domain.EvidenceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	out := cloneItem(item)
	return &out, nil
}

// List returns every item in ingestion order.
func (s *EvidenceStore) List(_ context.Context) ([]domain.EvidenceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(""), nil
}

// Search filters by case-insensitive substring over display name and
// evidence number; a blank query returns everything.
func (s *EvidenceStore) Search(_ context.Context, query string) ([]domain.EvidenceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(strings.ToLower(strings.TrimSpace(query))), nil
}

func (s *EvidenceStore) snapshot(query string) []domain.EvidenceItem {
	out := make([]domain.EvidenceItem, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if query != "" &&
			!strings.Contains(strings.ToLower(item.DisplayName), query) &&
			!strings.Contains(strings.ToLower(item.EvidenceNumber), query) {
			continue
		}
		out = append(out, cloneItem(item))
	}
	return out
}

// ApplyFingerprintResult records the pipeline's terminal outcome. Once an
// item has left Pending further results for it are discarded, which makes
// late or duplicate delivery safe.
func (s *EvidenceStore) ApplyFingerprintResult(_ context.Context, id string, outcome domain.FingerprintOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	if item.FingerprintState.Terminal() {
		return nil
	}

	if outcome.Failed() {
		item.FingerprintState = domain.FingerprintFailed
	} else {
		item.Fingerprint = outcome.Fingerprint
		item.FingerprintState = domain.FingerprintVerified
	}
	s.items[id] = item
	return nil
}

// ToggleFavourite flips the flag. Favouriting is non-substantive and leaves
// no audit entry.
func (s *EvidenceStore) ToggleFavourite(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.IsFavourite = !item.IsFavourite
	s.items[id] = item
	return nil
}

func cloneItem(item domain.EvidenceItem) domain.EvidenceItem {
	item.AuditTrail = append([]domain.AuditEntry(nil), item.AuditTrail...)
	return item
}
