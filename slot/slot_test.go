package slot_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"booking-system/eligibility"
	"booking-system/slot"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	slotRowColumns  = []string{"id", "date", "start_time", "end_time", "label", "capacity", "booked_count", "created_at"}
	admitRowColumns = slotRowColumns[:7]
)

func setupSlots(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), dbMock
}

func TestEnsureSlots(t *testing.T) {
	db, dbMock := setupSlots(t)
	a := slot.NewAccessor()

	const date = "2026-03-07"
	windows := eligibility.Default().SlotSchedule(date)
	require.Len(t, windows, 9)

	insertQuery := `INSERT INTO slots (id, date, start_time, end_time, label, capacity, booked_count, created_at) VALUES ($1, $2, $3, $4, $5, $6, 0, $7) ON CONFLICT (date, start_time) DO NOTHING`
	for _, w := range windows {
		dbMock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs(sqlmock.AnyArg(), date, w.Start, w.End, w.Label, slot.DefaultCapacity, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, a.EnsureSlots(t.Context(), db, date, windows))
	require.NoError(t, dbMock.ExpectationsWereMet())

	t.Run("insert error", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WillReturnError(sql.ErrConnDone)

		err := a.EnsureSlots(t.Context(), db, date, windows[:1])
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Contains(t, err.Error(), "ensure slot 2026-03-07 10:00")
	})
}

func TestListSlots(t *testing.T) {
	db, dbMock := setupSlots(t)
	a := slot.NewAccessor()

	now := time.Now()
	first := uuid.New()
	second := uuid.New()

	selectQuery := `SELECT id, date, start_time, end_time, label, capacity, booked_count, created_at FROM slots WHERE date = $1 ORDER BY start_time ASC`
	dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("2026-03-01").
		WillReturnRows(sqlmock.NewRows(slotRowColumns).
			AddRow(first.String(), "2026-03-01", "09:00", "10:00", "09:00-10:00", 4, 0, now).
			AddRow(second.String(), "2026-03-01", "10:00", "11:00", "10:00-11:00", 4, 4, now))

	slots, err := a.ListSlots(t.Context(), db, "2026-03-01")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.NoError(t, dbMock.ExpectationsWereMet())

	open := slots[0].View()
	assert.Equal(t, first, open.ID)
	assert.Equal(t, 4, open.Remaining)
	assert.False(t, open.IsFull)

	full := slots[1].View()
	assert.Equal(t, second, full.ID)
	assert.Equal(t, 0, full.Remaining)
	assert.True(t, full.IsFull)
}

func TestGetSlot(t *testing.T) {
	db, dbMock := setupSlots(t)
	a := slot.NewAccessor()
	selectQuery := `SELECT id, date, start_time, end_time, label, capacity, booked_count, created_at FROM slots WHERE id = $1`

	t.Run("found", func(t *testing.T) {
		id := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(slotRowColumns).
				AddRow(id.String(), "2026-03-01", "09:00", "10:00", "09:00-10:00", 4, 1, time.Now()))

		s, err := a.GetSlot(t.Context(), db, id)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, id, s.ID)
		assert.Equal(t, "09:00-10:00", s.Label)
		assert.Equal(t, 1, s.Occupied)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		id := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(slotRowColumns))

		s, err := a.GetSlot(t.Context(), db, id)
		require.NoError(t, err)
		require.Nil(t, s)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTryAdmit(t *testing.T) {
	db, dbMock := setupSlots(t)
	a := slot.NewAccessor()
	updateQuery := `UPDATE slots SET booked_count = booked_count + 1 WHERE id = $1 AND booked_count < capacity RETURNING id, date, start_time, end_time, label, capacity, booked_count`

	t.Run("admitted", func(t *testing.T) {
		id := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(updateQuery)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(admitRowColumns).
				AddRow(id.String(), "2026-03-01", "09:00", "10:00", "09:00-10:00", 4, 3))

		s, err := a.TryAdmit(t.Context(), db, id)
		require.NoError(t, err)
		assert.Equal(t, 3, s.Occupied)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("full or missing", func(t *testing.T) {
		id := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(updateQuery)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(admitRowColumns))

		s, err := a.TryAdmit(t.Context(), db, id)
		require.ErrorIs(t, err, slot.ErrAdmissionDenied)
		require.Nil(t, s)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("storage error", func(t *testing.T) {
		id := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(updateQuery)).
			WithArgs(id).
			WillReturnError(sql.ErrConnDone)

		_, err := a.TryAdmit(t.Context(), db, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, slot.ErrAdmissionDenied)
		assert.Contains(t, err.Error(), "admit slot")
	})
}
