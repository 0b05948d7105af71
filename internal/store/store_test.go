package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"canchas-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newSQLiteStore returns a store over a private in-memory database.
func newSQLiteStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(&model.Field{}, &model.Slot{}, &model.PushSubscription{}))
	return NewGormStore(testDB), testDB
}

func seedField(t *testing.T, s Store, username string) *model.Field {
	t.Helper()
	field := &model.Field{Name: "Cancha " + username, Username: username, PasswordHash: "x"}
	require.NoError(t, s.CreateField(context.Background(), field))
	return field
}

func seedSlot(t *testing.T, s Store, fieldID int64, date, hhmm string) *model.Slot {
	t.Helper()
	slot := &model.Slot{FieldID: fieldID, Date: date, Time: hhmm, Status: model.StatusAvailable}
	require.NoError(t, s.CreateSlot(context.Background(), slot))
	return slot
}

func TestGormStore_SlotLifecycle(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	field := seedField(t, s, "owner")
	slot := seedSlot(t, s, field.ID, "2025-05-01", "20:00")

	customer := model.Customer{Name: "Ana", Phone: "3815551234", NationalID: "30111222"}
	require.NoError(t, s.RequestBooking(ctx, slot.ID, customer))

	got, err := s.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Ana", *got.Name)

	require.NoError(t, s.ConfirmSlot(ctx, slot.ID))
	got, err = s.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)

	require.NoError(t, s.ReleaseSlot(ctx, slot.ID))
	got, err = s.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)
	assert.Nil(t, got.Name)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.NationalID)

	require.NoError(t, s.DeleteSlot(ctx, slot.ID))
	_, err = s.GetSlot(ctx, slot.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestGormStore_LastWriteWins(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	field := seedField(t, s, "owner")
	slot := seedSlot(t, s, field.ID, "2025-05-01", "21:00")

	require.NoError(t, s.RequestBooking(ctx, slot.ID, model.Customer{Name: "Primero", Phone: "1", NationalID: "1"}))
	require.NoError(t, s.RequestBooking(ctx, slot.ID, model.Customer{Name: "Segundo", Phone: "2", NationalID: "2"}))

	got, err := s.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "Segundo", *got.Name)

	// Confirming a slot that was never booked is accepted without a precondition.
	other := seedSlot(t, s, field.ID, "2025-05-01", "22:00")
	require.NoError(t, s.ConfirmSlot(ctx, other.ID))
	got, err = s.GetSlot(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
}

func TestGormStore_StrictTransitions(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	field := seedField(t, s, "owner")
	slot := seedSlot(t, s, field.ID, "2025-05-01", "19:00")

	err := s.ConfirmSlot(ctx, slot.ID, model.ConfirmFrom...)
	assert.ErrorIs(t, err, ErrStatusConflict)

	require.NoError(t, s.RequestBooking(ctx, slot.ID, model.Customer{Name: "Ana"}, model.BookFrom...))
	err = s.RequestBooking(ctx, slot.ID, model.Customer{Name: "Beto"}, model.BookFrom...)
	assert.ErrorIs(t, err, ErrStatusConflict)

	got, err := s.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", *got.Name, "rejected booking must not overwrite the first one")

	err = s.DeleteSlot(ctx, slot.ID, model.DeleteFrom...)
	assert.ErrorIs(t, err, ErrStatusConflict)

	require.NoError(t, s.ConfirmSlot(ctx, slot.ID, model.ConfirmFrom...))
	require.NoError(t, s.ReleaseSlot(ctx, slot.ID, model.ReleaseFrom...))
	assert.ErrorIs(t, s.ReleaseSlot(ctx, slot.ID, model.ReleaseFrom...), ErrStatusConflict)
	require.NoError(t, s.DeleteSlot(ctx, slot.ID, model.DeleteFrom...))
}

func TestGormStore_MissingSlot(t *testing.T) {
	s, testDB := newSQLiteStore(t)
	ctx := context.Background()
	field := seedField(t, s, "owner")
	seedSlot(t, s, field.ID, "2025-05-01", "18:00")

	const missing = int64(999)
	assert.ErrorIs(t, s.RequestBooking(ctx, missing, model.Customer{Name: "x"}), ErrSlotNotFound)
	assert.ErrorIs(t, s.ConfirmSlot(ctx, missing), ErrSlotNotFound)
	assert.ErrorIs(t, s.ReleaseSlot(ctx, missing), ErrSlotNotFound)
	assert.ErrorIs(t, s.DeleteSlot(ctx, missing), ErrSlotNotFound)
	assert.ErrorIs(t, s.ConfirmSlot(ctx, missing, model.ConfirmFrom...), ErrSlotNotFound)

	var count int64
	require.NoError(t, testDB.Model(&model.Slot{}).Where("estado = ?", model.StatusAvailable).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormStore_CreateSlots(t *testing.T) {
	s, testDB := newSQLiteStore(t)
	ctx := context.Background()
	field := seedField(t, s, "owner")

	created, err := s.CreateSlots(ctx, []model.Slot{
		{FieldID: field.ID, Date: "2025-05-01", Time: "18:00", Status: model.StatusAvailable},
		{FieldID: field.ID, Date: "2025-05-01", Time: "19:00", Status: model.StatusAvailable},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotZero(t, created[0].ID)
	assert.NotZero(t, created[1].ID)

	_, err = s.CreateSlots(ctx, []model.Slot{
		{FieldID: field.ID, Date: "2025-05-01", Time: "20:00", Status: model.StatusAvailable},
		{FieldID: 404, Date: "2025-05-01", Time: "21:00", Status: model.StatusAvailable},
	})
	assert.ErrorIs(t, err, ErrFieldNotFound)

	var count int64
	require.NoError(t, testDB.Model(&model.Slot{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "a failed batch leaves nothing behind")

	err = s.CreateSlot(ctx, &model.Slot{FieldID: 404, Date: "2025-05-01", Time: "20:00", Status: model.StatusAvailable})
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestGormStore_ListSlotsByField(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	a := seedField(t, s, "a")
	b := seedField(t, s, "b")
	seedSlot(t, s, a.ID, "2025-05-01", "18:00")
	seedSlot(t, s, b.ID, "2025-05-01", "18:00")
	seedSlot(t, s, a.ID, "2025-05-02", "19:00")

	all, err := s.ListSlots(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ofA, err := s.ListSlotsByField(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, ofA, 2)
	for _, slot := range ofA {
		assert.Equal(t, a.ID, slot.FieldID)
	}

	none, err := s.ListSlotsByField(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormStore_Credentials(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	a := seedField(t, s, "a")
	seedField(t, s, "b")

	err := s.CreateField(ctx, &model.Field{Name: "dup", Username: "a", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	assert.ErrorIs(t, s.UpdateCredentials(ctx, a.ID, "b", "hash"), ErrUsernameTaken)
	require.NoError(t, s.UpdateCredentials(ctx, a.ID, "a", "new-hash"), "keeping the own username is allowed")
	require.NoError(t, s.UpdateCredentials(ctx, a.ID, "renamed", "new-hash"))
	assert.ErrorIs(t, s.UpdateCredentials(ctx, 404, "free", "hash"), ErrFieldNotFound)

	got, err := s.FieldByUsername(ctx, "renamed")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "new-hash", got.PasswordHash)

	_, err = s.FieldByUsername(ctx, "a")
	assert.ErrorIs(t, err, ErrFieldNotFound)
	_, err = s.GetField(ctx, 404)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestGormStore_Subscriptions(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	a := seedField(t, s, "a")
	b := seedField(t, s, "b")

	sub := &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k1", Auth: "a1", FieldID: a.ID}
	require.NoError(t, s.SaveSubscription(ctx, sub))

	moved := &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k2", Auth: "a2", FieldID: b.ID}
	require.NoError(t, s.SaveSubscription(ctx, moved))

	subsA, err := s.SubscriptionsForField(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, subsA)

	subsB, err := s.SubscriptionsForField(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, subsB, 1)
	assert.Equal(t, "k2", subsB[0].P256DH)

	require.NoError(t, s.DeleteSubscription(ctx, "https://push.example/1"))
	subsB, err = s.SubscriptionsForField(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, subsB)
}

func TestGormStore_TransitionSQL(t *testing.T) {
	testCases := []struct {
		name             string
		run              func(s Store) error
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      error
	}{
		{
			name: "unconditional confirm updates by id only",
			run:  func(s Store) error { return s.ConfirmSlot(context.Background(), 7) },
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "turnos_canchas" SET "estado"=$1,"updated_at"=$2 WHERE id = $3`)).
					WithArgs("reservado", Any{}, 7).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "strict confirm adds the status precondition",
			run: func(s Store) error {
				return s.ConfirmSlot(context.Background(), 7, model.ConfirmFrom...)
			},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "turnos_canchas" SET "estado"=$1,"updated_at"=$2 WHERE id = $3 AND estado IN ($4)`)).
					WithArgs("reservado", Any{}, 7, "pendiente").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "turnos_canchas" WHERE id = $1`)).
					WithArgs(7).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
			},
			expectedErr: ErrStatusConflict,
		},
		{
			name: "missing slot is reported as not found",
			run:  func(s Store) error { return s.DeleteSlot(context.Background(), 9) },
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "turnos_canchas" WHERE id = $1`)).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "turnos_canchas" WHERE id = $1`)).
					WithArgs(9).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			},
			expectedErr: ErrSlotNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			tc.mockExpectations(mock)

			err := tc.run(NewGormStore(gormDB))
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_DatabaseFailure(t *testing.T) {
	gormDB, mock := newTestDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "canchas" ORDER BY id`)).
		WillReturnError(errors.New("connection reset"))

	_, err := NewGormStore(gormDB).ListFields(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, errors.Is(err, ErrFieldNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
