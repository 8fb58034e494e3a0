package bookings

import (
	"context"
	"sort"

	"github.com/ambernegi/rha/internal/dates"
	"github.com/ambernegi/rha/pkg/enums"
	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

// ListAvailability returns the occupied ranges across the target's conflict
// set: confirmed locks plus pending reservations, ascending by start date.
// Read only; it runs outside any transaction.
func (s *service) ListAvailability(ctx context.Context, query AvailabilityQuery) ([]AvailabilitySlot, error) {
	window := dates.Window{}
	if !query.From.IsZero() {
		window.From = dates.Day(query.From)
	}
	if !query.To.IsZero() {
		window.To = dates.Day(query.To)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	target, err := s.resolver.ResolveTarget(ctx, nil, query.Target)
	if err != nil {
		return nil, err
	}

	locks, err := s.repo.ListLocks(ctx, target.ConflictSet, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list occupancy locks")
	}
	pending, err := s.repo.ListPendingOccupancy(ctx, target.ConflictSet, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list pending reservations")
	}

	slots := make([]AvailabilitySlot, 0, len(locks)+len(pending))
	for _, lock := range locks {
		slots = append(slots, AvailabilitySlot{
			ResourceID: lock.ResourceID,
			StartDate:  dates.FormatDay(lock.StartDate),
			EndDate:    dates.FormatDay(lock.EndDate),
			Status:     enums.ReservationStatusConfirmed,
		})
	}
	for _, occupied := range pending {
		slots = append(slots, AvailabilitySlot{
			ResourceID: occupied.ResourceID,
			StartDate:  dates.FormatDay(occupied.StartDate),
			EndDate:    dates.FormatDay(occupied.EndDate),
			Status:     enums.ReservationStatusPending,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].StartDate != slots[j].StartDate {
			return slots[i].StartDate < slots[j].StartDate
		}
		if slots[i].EndDate != slots[j].EndDate {
			return slots[i].EndDate < slots[j].EndDate
		}
		return slots[i].ResourceID.String() < slots[j].ResourceID.String()
	})
	return slots, nil
}
