package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/pkg/db"
	"github.com/ambernegi/rha/pkg/db/models"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

// Service exposes the catalog: resources and configurations.
type Service interface {
	ListResources(ctx context.Context) ([]ResourceDTO, error)
	ListConfigurations(ctx context.Context) ([]ConfigurationDTO, error)
	CreateResource(ctx context.Context, input CreateResourceInput) (*ResourceDTO, error)
	CreateConfiguration(ctx context.Context, input CreateConfigurationInput) (*ConfigurationDTO, error)
}

// CreateResourceInput describes a new resource. ParentID must reference a
// resource that has no parent itself.
type CreateResourceInput struct {
	Name        string
	Slug        string
	NightlyRate decimal.Decimal
	ParentID    *uuid.UUID
}

// CreateConfigurationInput describes a new configuration.
type CreateConfigurationInput struct {
	Slug          string
	Label         string
	PricePerNight decimal.Decimal
	ResourceIDs   []uuid.UUID
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("resource repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListResources(ctx context.Context) ([]ResourceDTO, error) {
	rows, err := s.repo.ListResources(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list resources")
	}

	children := map[uuid.UUID][]ResourceDTO{}
	for _, row := range rows {
		if row.ParentID != nil {
			children[*row.ParentID] = append(children[*row.ParentID], resourceFromModel(row))
		}
	}

	out := make([]ResourceDTO, 0, len(rows))
	for _, row := range rows {
		if row.ParentID != nil {
			continue
		}
		dto := resourceFromModel(row)
		dto.Children = children[row.ID]
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) ListConfigurations(ctx context.Context) ([]ConfigurationDTO, error) {
	rows, err := s.repo.ListActiveConfigurations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list configurations")
	}
	out := make([]ConfigurationDTO, 0, len(rows))
	for _, row := range rows {
		ids, err := s.repo.ListConfigurationResourceIDs(ctx, row.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list configuration resources")
		}
		out = append(out, ConfigurationDTO{
			ID:            row.ID,
			Slug:          row.Slug,
			Label:         row.Label,
			PricePerNight: row.PricePerNight,
			ResourceIDs:   ids,
		})
	}
	return out, nil
}

func (s *service) CreateResource(ctx context.Context, input CreateResourceInput) (*ResourceDTO, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if name == "" || slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and slug are required")
	}
	if input.NightlyRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nightly rate must not be negative")
	}

	if input.ParentID != nil {
		parent, err := s.repo.FindResource(ctx, *input.ParentID)
		if err != nil {
			return nil, notFoundOr(err, "parent resource not found", "load parent resource")
		}
		if parent.ParentID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "resources may only be nested one level deep")
		}
	}

	row := &models.Resource{
		Name:        name,
		Slug:        slug,
		NightlyRate: input.NightlyRate,
		ParentID:    input.ParentID,
	}
	if err := s.repo.CreateResource(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "resource slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create resource")
	}
	dto := resourceFromModel(*row)
	return &dto, nil
}

func (s *service) CreateConfiguration(ctx context.Context, input CreateConfigurationInput) (*ConfigurationDTO, error) {
	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	label := strings.TrimSpace(input.Label)
	if slug == "" || label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug and label are required")
	}
	if input.PricePerNight.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per night must not be negative")
	}
	ids := normalize(input.ResourceIDs)
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "configuration must map at least one resource")
	}
	for _, id := range ids {
		if _, err := s.repo.FindResource(ctx, id); err != nil {
			return nil, notFoundOr(err, "resource not found", "load resource")
		}
	}

	row := &models.Configuration{
		Slug:          slug,
		Label:         label,
		PricePerNight: input.PricePerNight,
		Active:        true,
	}
	err := s.repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateConfiguration(ctx, row, ids)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "configuration slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create configuration")
	}
	return &ConfigurationDTO{
		ID:            row.ID,
		Slug:          row.Slug,
		Label:         row.Label,
		PricePerNight: row.PricePerNight,
		ResourceIDs:   ids,
	}, nil
}
