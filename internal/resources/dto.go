package resources

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambernegi/rha/pkg/db/models"
)

// Target names what a booking occupies: a single resource or a configuration.
// ConfigurationSlug is accepted as an alternative to ConfigurationID.
// IncludeInactive lets existing reservations resolve a deactivated configuration.
type Target struct {
	ResourceID        *uuid.UUID
	ConfigurationID   *uuid.UUID
	ConfigurationSlug string
	IncludeInactive   bool
}

// ResourceTarget builds a Target for a single resource.
func ResourceTarget(id uuid.UUID) Target {
	return Target{ResourceID: &id}
}

// ConfigurationTarget builds a Target for a configuration.
func ConfigurationTarget(id uuid.UUID) Target {
	return Target{ConfigurationID: &id}
}

// ResolvedTarget is the outcome of resolving a Target against the hierarchy.
// Occupied lists the resources the booking itself takes; ConflictSet adds every
// resource whose occupancy would clash with them.
type ResolvedTarget struct {
	ResourceID      *uuid.UUID
	ConfigurationID *uuid.UUID
	Label           string
	NightlyRate     decimal.Decimal
	Occupied        []uuid.UUID
	ConflictSet     []uuid.UUID
}

// ResourceDTO is the public view of a resource.
type ResourceDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
	ParentID    *uuid.UUID      `json:"parentId,omitempty"`
	Children    []ResourceDTO   `json:"children,omitempty"`
}

// ConfigurationDTO is the public view of a configuration.
type ConfigurationDTO struct {
	ID            uuid.UUID       `json:"id"`
	Slug          string          `json:"slug"`
	Label         string          `json:"label"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	ResourceIDs   []uuid.UUID     `json:"resourceIds"`
}

func resourceFromModel(m models.Resource) ResourceDTO {
	return ResourceDTO{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		NightlyRate: m.NightlyRate,
		ParentID:    m.ParentID,
	}
}
