package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pe4924/ReserveEase/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestReservationList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	start := time.Date(2023, 11, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2023, 11, 1, 11, 45, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "start_date", "end_date", "description", "user_id", "last_name", "created_at"}).
		AddRow(1, "予約あり", start, end, "x", "u-1", "平田", start)
	mock.ExpectQuery("SELECT r.id, r.title, r.start_date, r.end_date").WillReturnRows(rows)

	reservations, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, int64(1), reservations[0].ID)
	assert.Equal(t, "平田", reservations[0].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationListEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "start_date", "end_date", "description", "user_id", "last_name", "created_at"})
	mock.ExpectQuery("SELECT r.id, r.title").WillReturnRows(rows)

	reservations, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reservations)
	assert.Len(t, reservations, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(7)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnRows(rows)

	reservation := &models.Reservation{
		Title:     "予約あり",
		StartDate: time.Date(2023, 11, 8, 10, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 11, 8, 12, 0, 0, 0, time.UTC),
		UserID:    "u-1",
	}
	err := repo.Create(context.Background(), reservation)
	require.NoError(t, err)
	assert.Equal(t, int64(7), reservation.ID)
	assert.False(t, reservation.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
