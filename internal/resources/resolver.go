package resources

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/pkg/db/models"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

// Resolver expands booking targets into the set of resources they conflict with.
type Resolver struct {
	repo *Repository
}

// NewResolver builds a resolver over the provided repository.
func NewResolver(repo *Repository) (*Resolver, error) {
	if repo == nil {
		return nil, errors.New("resource repository required")
	}
	return &Resolver{repo: repo}, nil
}

// ResolveConflictSet returns the resources that cannot be occupied at the same
// time as resourceID:
//
//	parent      -> itself and all of its children
//	leaf        -> itself and its parent
//	standalone  -> itself
//
// The result is sorted and free of duplicates.
func (r *Resolver) ResolveConflictSet(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) ([]uuid.UUID, error) {
	repo := r.repo.WithTx(tx)

	resource, err := repo.FindResource(ctx, resourceID)
	if err != nil {
		return nil, notFoundOr(err, "resource not found", "load resource")
	}

	set := []uuid.UUID{resource.ID}
	if resource.ParentID != nil {
		set = append(set, *resource.ParentID)
		return normalize(set), nil
	}

	children, err := repo.ListChildIDs(ctx, resource.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list child resources")
	}
	return normalize(append(set, children...)), nil
}

// ResolveTarget resolves a resource or configuration target. A configuration
// conflicts with the union of the conflict sets of every resource it maps to.
func (r *Resolver) ResolveTarget(ctx context.Context, tx *gorm.DB, target Target) (*ResolvedTarget, error) {
	switch {
	case target.ResourceID != nil:
		return r.resolveResource(ctx, tx, *target.ResourceID)
	case target.ConfigurationID != nil || strings.TrimSpace(target.ConfigurationSlug) != "":
		return r.resolveConfiguration(ctx, tx, target)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resourceId or configuration is required")
	}
}

func (r *Resolver) resolveResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*ResolvedTarget, error) {
	resource, err := r.repo.WithTx(tx).FindResource(ctx, resourceID)
	if err != nil {
		return nil, notFoundOr(err, "resource not found", "load resource")
	}
	set, err := r.ResolveConflictSet(ctx, tx, resource.ID)
	if err != nil {
		return nil, err
	}
	id := resource.ID
	return &ResolvedTarget{
		ResourceID:  &id,
		Label:       resource.Name,
		NightlyRate: resource.NightlyRate,
		Occupied:    []uuid.UUID{id},
		ConflictSet: set,
	}, nil
}

func (r *Resolver) resolveConfiguration(ctx context.Context, tx *gorm.DB, target Target) (*ResolvedTarget, error) {
	repo := r.repo.WithTx(tx)

	var (
		cfg *models.Configuration
		err error
	)
	if target.ConfigurationID != nil {
		cfg, err = repo.FindConfiguration(ctx, *target.ConfigurationID)
	} else {
		cfg, err = repo.FindConfigurationBySlug(ctx, strings.TrimSpace(target.ConfigurationSlug))
	}
	if err != nil {
		return nil, notFoundOr(err, "configuration not found", "load configuration")
	}
	if !cfg.Active && !target.IncludeInactive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "configuration not found")
	}

	mapped, err := repo.ListConfigurationResourceIDs(ctx, cfg.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list configuration resources")
	}
	if len(mapped) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "configuration has no resources")
	}

	var union []uuid.UUID
	for _, resourceID := range mapped {
		set, err := r.ResolveConflictSet(ctx, tx, resourceID)
		if err != nil {
			return nil, err
		}
		union = append(union, set...)
	}

	id := cfg.ID
	return &ResolvedTarget{
		ConfigurationID: &id,
		Label:           cfg.Label,
		NightlyRate:     cfg.PricePerNight,
		Occupied:        normalize(mapped),
		ConflictSet:     normalize(union),
	}, nil
}

func notFoundOr(err error, notFoundMsg, storageMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, storageMsg)
}

func normalize(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
