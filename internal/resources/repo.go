package resources

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/pkg/db/models"
)

// Repository handles resource and configuration persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to resource operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindResource loads a resource by id.
func (r *Repository) FindResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// FindResourceBySlug loads a resource by slug.
func (r *Repository) FindResourceBySlug(ctx context.Context, slug string) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// ListChildIDs returns the ids of resources whose parent is parentID.
func (r *Repository) ListChildIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("parent_id = ?", parentID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListResources returns every resource ordered by name.
func (r *Repository) ListResources(ctx context.Context) ([]models.Resource, error) {
	var rows []models.Resource
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateResource persists a resource row.
func (r *Repository) CreateResource(ctx context.Context, resource *models.Resource) error {
	if resource == nil {
		return fmt.Errorf("resource is required")
	}
	return r.db.WithContext(ctx).Create(resource).Error
}

// FindConfiguration loads a configuration by id.
func (r *Repository) FindConfiguration(ctx context.Context, id uuid.UUID) (*models.Configuration, error) {
	var cfg models.Configuration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfigurationBySlug loads a configuration by slug.
func (r *Repository) FindConfigurationBySlug(ctx context.Context, slug string) (*models.Configuration, error) {
	var cfg models.Configuration
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListActiveConfigurations returns active configurations, cheapest first.
func (r *Repository) ListActiveConfigurations(ctx context.Context) ([]models.Configuration, error) {
	var rows []models.Configuration
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price_per_night ASC").
		Order("slug ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListConfigurationResourceIDs returns the resources a configuration occupies.
func (r *Repository) ListConfigurationResourceIDs(ctx context.Context, configurationID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ConfigurationResource{}).
		Where("configuration_id = ?", configurationID).
		Order("resource_id ASC").
		Pluck("resource_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateConfiguration persists a configuration and its resource mapping.
func (r *Repository) CreateConfiguration(ctx context.Context, cfg *models.Configuration, resourceIDs []uuid.UUID) error {
	if cfg == nil {
		return fmt.Errorf("configuration is required")
	}
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return err
	}
	if len(resourceIDs) == 0 {
		return nil
	}
	rows := make([]models.ConfigurationResource, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		rows = append(rows, models.ConfigurationResource{ConfigurationID: cfg.ID, ResourceID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
