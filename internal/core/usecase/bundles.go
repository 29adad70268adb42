package usecase

import (
	"context"
	"fmt"

	"github.com/matterdesk/bundler/internal/core/domain"
	"github.com/matterdesk/bundler/internal/core/ports"
)

// BundleEditorUseCase fronts the bundle store for the editing collaborator
// and resolves member references against the evidence store. Membership
// lists may hold ids whose items are gone; resolution silently drops them.
type BundleEditorUseCase struct {
	bundles  ports.BundleStore
	evidence ports.EvidenceStore
}

func NewBundleEditorUseCase(bundles ports.BundleStore, evidence ports.EvidenceStore) *BundleEditorUseCase {
	return &BundleEditorUseCase{bundles: bundles, evidence: evidence}
}

func (uc *BundleEditorUseCase) Create(ctx context.Context) (*domain.Bundle, error) {
	return uc.bundles.Create(ctx)
}

func (uc *BundleEditorUseCase) CreateFromSelection(ctx context.Context, itemIDs []string, name string) (*domain.Bundle, error) {
	return uc.bundles.CreateFromSelection(ctx, itemIDs, name)
}

func (uc *BundleEditorUseCase) Rename(ctx context.Context, bundleID, name string) error {
	return uc.bundles.Rename(ctx, bundleID, name)
}

// ToggleMembership targets the active bundle when bundleID is empty,
// auto-creating one if none exists.
func (uc *BundleEditorUseCase) ToggleMembership(ctx context.Context, bundleID, itemID string) (*domain.Bundle, error) {
	return uc.bundles.ToggleMembership(ctx, bundleID, itemID)
}

func (uc *BundleEditorUseCase) UpdateSettings(ctx context.Context, bundleID string, patch domain.SettingsPatch) error {
	return uc.bundles.UpdateSettings(ctx, bundleID, patch)
}

func (uc *BundleEditorUseCase) SetAuthorisers(ctx context.Context, bundleID string, names []string) error {
	return uc.bundles.SetAuthorisers(ctx, bundleID, names)
}

func (uc *BundleEditorUseCase) RemoveAuthoriser(ctx context.Context, bundleID, name string) error {
	return uc.bundles.RemoveAuthoriser(ctx, bundleID, name)
}

func (uc *BundleEditorUseCase) Delete(ctx context.Context, bundleID string) error {
	return uc.bundles.Delete(ctx, bundleID)
}

func (uc *BundleEditorUseCase) Active(ctx context.Context) (*domain.Bundle, error) {
	return uc.bundles.Active(ctx)
}

func (uc *BundleEditorUseCase) SetActive(ctx context.Context, bundleID string) error {
	return uc.bundles.SetActive(ctx, bundleID)
}

func (uc *BundleEditorUseCase) List(ctx context.Context) ([]domain.Bundle, error) {
	return uc.bundles.List(ctx)
}

// ResolveMembers returns the bundle and its member items in tab order,
// dropping dangling references without error.
func (uc *BundleEditorUseCase) ResolveMembers(ctx context.Context, bundleID string) (*domain.Bundle, []domain.EvidenceItem, error) {
	bundle, err := uc.bundles.GetByID(ctx, bundleID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch bundle: %w", err)
	}

	items := make([]domain.EvidenceItem, 0, len(bundle.MemberIDs))
	for _, id := range bundle.MemberIDs {
		item, err := uc.evidence.GetByID(ctx, id)
		if err != nil {
			if domain.IsKind(err, domain.ErrItemNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("resolve member %s: %w", id, err)
		}
		items = append(items, *item)
	}
	return bundle, items, nil
}
