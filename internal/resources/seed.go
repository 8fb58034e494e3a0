package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/pkg/db/models"
)

// VillaCatalog holds the ids created by SeedVilla.
type VillaCatalog struct {
	Villa       uuid.UUID
	Unit3BHK    uuid.UUID
	RoomGarden  uuid.UUID
	RoomTerrace uuid.UUID

	EntireVilla uuid.UUID
	ThreeBHK    uuid.UUID
	SingleRoom  uuid.UUID
}

type seedResource struct {
	slug   string
	name   string
	rate   int64
	parent string
}

type seedConfiguration struct {
	slug      string
	label     string
	price     int64
	resources []string
}

var villaResources = []seedResource{
	{slug: "villa", name: "Entire Villa", rate: 15000},
	{slug: "villa-3bhk", name: "3BHK unit", rate: 8000, parent: "villa"},
	{slug: "villa-room-garden", name: "Garden room", rate: 1500, parent: "villa"},
	{slug: "villa-room-terrace", name: "Terrace room", rate: 1500, parent: "villa"},
}

var villaConfigurations = []seedConfiguration{
	{slug: "entire-villa", label: "Entire Villa", price: 15000, resources: []string{"villa"}},
	{slug: "3bhk-villa", label: "3BHK in Villa", price: 8000, resources: []string{"villa-3bhk"}},
	{slug: "single-rooms", label: "Single room", price: 1500, resources: []string{"villa-room-garden"}},
}

// SeedVilla creates the villa hierarchy and its stay configurations. Rows that
// already exist (matched by slug) are reused, so the call is idempotent.
func SeedVilla(ctx context.Context, repo *Repository) (*VillaCatalog, error) {
	if repo == nil {
		return nil, errors.New("resource repository required")
	}

	ids := map[string]uuid.UUID{}
	for _, spec := range villaResources {
		existing, err := repo.FindResourceBySlug(ctx, spec.slug)
		switch {
		case err == nil:
			ids[spec.slug] = existing.ID
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load resource %s: %w", spec.slug, err)
		}

		row := &models.Resource{
			Name:        spec.name,
			Slug:        spec.slug,
			NightlyRate: decimal.NewFromInt(spec.rate),
		}
		if spec.parent != "" {
			parentID := ids[spec.parent]
			row.ParentID = &parentID
		}
		if err := repo.CreateResource(ctx, row); err != nil {
			return nil, fmt.Errorf("create resource %s: %w", spec.slug, err)
		}
		ids[spec.slug] = row.ID
	}

	cfgIDs := map[string]uuid.UUID{}
	for _, spec := range villaConfigurations {
		existing, err := repo.FindConfigurationBySlug(ctx, spec.slug)
		switch {
		case err == nil:
			cfgIDs[spec.slug] = existing.ID
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load configuration %s: %w", spec.slug, err)
		}

		mapped := make([]uuid.UUID, 0, len(spec.resources))
		for _, slug := range spec.resources {
			mapped = append(mapped, ids[slug])
		}
		row := &models.Configuration{
			Slug:          spec.slug,
			Label:         spec.label,
			PricePerNight: decimal.NewFromInt(spec.price),
			Active:        true,
		}
		if err := repo.CreateConfiguration(ctx, row, mapped); err != nil {
			return nil, fmt.Errorf("create configuration %s: %w", spec.slug, err)
		}
		cfgIDs[spec.slug] = row.ID
	}

	return &VillaCatalog{
		Villa:       ids["villa"],
		Unit3BHK:    ids["villa-3bhk"],
		RoomGarden:  ids["villa-room-garden"],
		RoomTerrace: ids["villa-room-terrace"],
		EntireVilla: cfgIDs["entire-villa"],
		ThreeBHK:    cfgIDs["3bhk-villa"],
		SingleRoom:  cfgIDs["single-rooms"],
	}, nil
}
