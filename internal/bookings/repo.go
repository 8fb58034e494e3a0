package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/pkg/db"
	"github.com/ambernegi/rha/pkg/db/models"
	"github.com/ambernegi/rha/pkg/enums"
	"github.com/ambernegi/rha/pkg/pagination"
)

// Repository exposes the ledger queries used by admission and lifecycle.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindReservationForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	LockResources(ctx context.Context, resourceIDs []uuid.UUID) error
	FindOverlap(ctx context.Context, resourceIDs []uuid.UUID, rng dates.Range, exclude *uuid.UUID) (*Overlap, error)
	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	CreateLocks(ctx context.Context, locks []models.OccupancyLock) error
	DeleteLocks(ctx context.Context, reservationID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from enums.ReservationStatus, updates map[string]any) (bool, error)
	ListLocks(ctx context.Context, resourceIDs []uuid.UUID, window dates.Window) ([]models.OccupancyLock, error)
	ListPendingOccupancy(ctx context.Context, resourceIDs []uuid.UUID, window dates.Window) ([]OccupiedRange, error)
	ListReservations(ctx context.Context, params listReservationsParams) ([]models.Reservation, *pagination.Cursor, error)
}

// Overlap describes the first ledger entry found clashing with a range.
type Overlap struct {
	Source        string
	ReservationID uuid.UUID
	ResourceID    *uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
}

const (
	overlapSourceReservation = "reservation"
	overlapSourceLock        = "lock"
)

// OccupiedRange is one resource held for [StartDate, EndDate).
type OccupiedRange struct {
	ResourceID    uuid.UUID `gorm:"column:resource_id"`
	ReservationID uuid.UUID `gorm:"column:reservation_id"`
	StartDate     time.Time `gorm:"column:start_date"`
	EndDate       time.Time `gorm:"column:end_date"`
}

type listReservationsParams struct {
	GuestID *uuid.UUID
	Status  *enums.ReservationStatus
	Kind    *enums.ReservationKind
	Limit   int
	Cursor  *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) isPostgres() bool {
	return r.db.Dialector.Name() == db.DialectPostgres
}

func (r *repository) FindReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindReservationForUpdate reads the reservation and, on Postgres, holds its
// row lock until the surrounding transaction ends.
func (r *repository) FindReservationForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if r.isPostgres() {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var reservation models.Reservation
	if err := query.First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// LockResources takes row locks on the resources in a conflict set. Callers
// pass ids sorted so competing transactions acquire them in the same order.
func (r *repository) LockResources(ctx context.Context, resourceIDs []uuid.UUID) error {
	if len(resourceIDs) == 0 || !r.isPostgres() {
		return nil
	}
	var locked []uuid.UUID
	return r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", resourceIDs).
		Order("id").
		Pluck("id", &locked).Error
}

// FindOverlap returns the first active reservation or lock touching any of the
// resources in [rng.Start, rng.End). Reservations made through a configuration
// count for every resource the configuration maps to.
func (r *repository) FindOverlap(ctx context.Context, resourceIDs []uuid.UUID, rng dates.Range, exclude *uuid.UUID) (*Overlap, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}

	mapped := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ConfigurationResource{}).
		Select("configuration_id").
		Where("resource_id IN ?", resourceIDs)

	query := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status IN ?", activeStatuses()).
		Where("start_date < ? AND end_date > ?", rng.End, rng.Start).
		Where("(resource_id IN ? OR configuration_id IN (?))", resourceIDs, mapped)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var reservations []models.Reservation
	if err := query.Order("start_date ASC").Limit(1).Find(&reservations).Error; err != nil {
		return nil, err
	}
	if len(reservations) > 0 {
		hit := reservations[0]
		return &Overlap{
			Source:        overlapSourceReservation,
			ReservationID: hit.ID,
			ResourceID:    hit.ResourceID,
			StartDate:     hit.StartDate,
			EndDate:       hit.EndDate,
		}, nil
	}

	lockQuery := r.db.WithContext(ctx).
		Where("resource_id IN ?", resourceIDs).
		Where("start_date < ? AND end_date > ?", rng.End, rng.Start)
	if exclude != nil {
		lockQuery = lockQuery.Where("reservation_id <> ?", *exclude)
	}
	var locks []models.OccupancyLock
	if err := lockQuery.Order("start_date ASC").Limit(1).Find(&locks).Error; err != nil {
		return nil, err
	}
	if len(locks) > 0 {
		hit := locks[0]
		resourceID := hit.ResourceID
		return &Overlap{
			Source:        overlapSourceLock,
			ReservationID: hit.ReservationID,
			ResourceID:    &resourceID,
			StartDate:     hit.StartDate,
			EndDate:       hit.EndDate,
		}, nil
	}
	return nil, nil
}

func (r *repository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) CreateLocks(ctx context.Context, locks []models.OccupancyLock) error {
	if len(locks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&locks).Error
}

func (r *repository) DeleteLocks(ctx context.Context, reservationID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.OccupancyLock{})
	return res.RowsAffected, res.Error
}

// UpdateStatus applies updates only while the row is still in status from.
// The boolean is false when another writer moved it first.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from enums.ReservationStatus, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListLocks(ctx context.Context, resourceIDs []uuid.UUID, window dates.Window) ([]models.OccupancyLock, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Where("resource_id IN ?", resourceIDs)
	query = applyWindow(query, "", window)
	var locks []models.OccupancyLock
	err := query.Order("start_date ASC").Order("resource_id ASC").Find(&locks).Error
	return locks, err
}

// ListPendingOccupancy expands pending reservations into the resources they
// hold, restricted to resourceIDs.
func (r *repository) ListPendingOccupancy(ctx context.Context, resourceIDs []uuid.UUID, window dates.Window) ([]OccupiedRange, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}

	var direct []OccupiedRange
	query := r.db.WithContext(ctx).
		Table("reservations").
		Select("resource_id, id AS reservation_id, start_date, end_date").
		Where("status = ?", string(enums.ReservationStatusPending)).
		Where("resource_id IN ?", resourceIDs)
	if err := applyWindow(query, "", window).Scan(&direct).Error; err != nil {
		return nil, err
	}

	var viaConfig []OccupiedRange
	query = r.db.WithContext(ctx).
		Table("reservations AS r").
		Select("cr.resource_id, r.id AS reservation_id, r.start_date, r.end_date").
		Joins("JOIN configuration_resources cr ON cr.configuration_id = r.configuration_id").
		Where("r.status = ?", string(enums.ReservationStatusPending)).
		Where("cr.resource_id IN ?", resourceIDs)
	if err := applyWindow(query, "r.", window).Scan(&viaConfig).Error; err != nil {
		return nil, err
	}

	return append(direct, viaConfig...), nil
}

func (r *repository) ListReservations(ctx context.Context, params listReservationsParams) ([]models.Reservation, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Reservation{})
	if params.GuestID != nil {
		query = query.Where("guest_id = ?", *params.GuestID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", string(*params.Status))
	}
	if params.Kind != nil {
		query = query.Where("kind = ?", string(*params.Kind))
	}
	if params.Cursor != nil {
		clause, args := pagination.After(*params.Cursor)
		query = query.Where(clause, args...)
	}

	var rows []models.Reservation
	err := query.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	rows, next := pagination.Trim(rows, params.Limit, func(r models.Reservation) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})
	return rows, next, nil
}

func applyWindow(query *gorm.DB, prefix string, window dates.Window) *gorm.DB {
	if !window.To.IsZero() {
		query = query.Where(prefix+"start_date < ?", window.To)
	}
	if !window.From.IsZero() {
		query = query.Where(prefix+"end_date > ?", window.From)
	}
	return query
}

func activeStatuses() []string {
	out := make([]string, 0, len(enums.ActiveReservationStatuses))
	for _, status := range enums.ActiveReservationStatuses {
		out = append(out, string(status))
	}
	return out
}
