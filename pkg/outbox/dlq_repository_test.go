package outbox

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambernegi/rha/pkg/db"
	"github.com/ambernegi/rha/pkg/db/models"
	"github.com/ambernegi/rha/pkg/enums"
)

func newDLQRepo(t *testing.T) *DLQRepository {
	t.Helper()
	client, err := db.NewSQLite(context.Background(), "file:dlq_"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, db.AutoMigrate(client.DB()))
	return NewDLQRepository(client.DB())
}

func dlqEntry(failedAt time.Time, message string) models.OutboxDLQ {
	return models.OutboxDLQ{
		EventID:       uuid.New(),
		EventType:     enums.EventReservationConfirmed,
		AggregateType: enums.AggregateReservation,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"templateKind":"booking_confirmed"}`),
		ErrorReason:   enums.OutboxDLQReasonMaxAttempts,
		ErrorMessage:  &message,
		AttemptCount:  5,
		FailedAt:      failedAt,
	}
}

func TestDLQRepositoryInsertAndFind(t *testing.T) {
	repo := newDLQRepo(t)
	ctx := context.Background()

	entry := dlqEntry(time.Now().UTC(), strings.Repeat("x", maxDLQErrorLen+50))
	require.NoError(t, repo.InsertTx(repo.db, entry))

	found, err := repo.FindByEventID(ctx, entry.EventID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.AggregateID, found.AggregateID)
	assert.Equal(t, enums.OutboxDLQReasonMaxAttempts, found.ErrorReason)
	require.NotNil(t, found.ErrorMessage)
	assert.Len(t, *found.ErrorMessage, maxDLQErrorLen)

	missing, err := repo.FindByEventID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDLQRepositoryDeleteFailedBefore(t *testing.T) {
	repo := newDLQRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := dlqEntry(now.AddDate(0, 0, -120), "publish timeout")
	recent := dlqEntry(now.AddDate(0, 0, -1), "publish timeout")
	require.NoError(t, repo.InsertTx(repo.db, old))
	require.NoError(t, repo.InsertTx(repo.db, recent))

	deleted, err := repo.DeleteFailedBefore(ctx, now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	gone, err := repo.FindByEventID(ctx, old.EventID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := repo.FindByEventID(ctx, recent.EventID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestDLQRepositoryInsertRequiresTx(t *testing.T) {
	repo := newDLQRepo(t)
	assert.Error(t, repo.InsertTx(nil, dlqEntry(time.Now().UTC(), "boom")))
}
