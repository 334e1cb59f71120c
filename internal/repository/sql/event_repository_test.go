package sql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)
	ctx := context.Background()

	event := &model.Event{
		EventType: model.EventTypeListingCreated,
		EventData: json.RawMessage(`{"listing_id":"abc"}`),
	}

	mock.ExpectPrepare("INSERT INTO catalog_events").
		ExpectExec().
		WithArgs(sqlmock.AnyArg(), model.EventTypeListingCreated, []byte(`{"listing_id":"abc"}`),
			model.EventStatusPending, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.Create(ctx, event)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, model.EventStatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)
	ctx := context.Background()

	t.Run("returns pending events oldest first", func(t *testing.T) {
		older := uuid.New()
		newer := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "event_type", "event_data", "status", "created_at", "processed_at"}).
			AddRow(older, model.EventTypeListingCreated, []byte(`{}`), model.EventStatusPending, now.Add(-time.Minute), nil).
			AddRow(newer, model.EventTypeListingDeleted, []byte(`{}`), model.EventStatusPending, now, nil)

		mock.ExpectPrepare("SELECT .+ FROM catalog_events WHERE status = \\$1 ORDER BY created_at ASC LIMIT \\$2").
			ExpectQuery().
			WithArgs(model.EventStatusPending, 100).
			WillReturnRows(rows)

		events, err := repo.ListPending(ctx, 100)
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, older, events[0].ID)
		assert.Equal(t, newer, events[1].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no pending events", func(t *testing.T) {
		mock.ExpectPrepare("SELECT .+ FROM catalog_events WHERE status = \\$1").
			ExpectQuery().
			WithArgs(model.EventStatusPending, 100).
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "event_data", "status", "created_at", "processed_at"}))

		events, err := repo.ListPending(ctx, 100)
		require.NoError(t, err)
		assert.Empty(t, events)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)
	ctx := context.Background()

	id := uuid.New()

	mock.ExpectPrepare("UPDATE catalog_events SET status = \\$1, processed_at = \\$2 WHERE id = \\$3").
		ExpectExec().
		WithArgs(model.EventStatusProcessed, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateStatus(ctx, id, model.EventStatusProcessed)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
