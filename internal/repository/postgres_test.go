package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store, err := NewStore(db, DriverPostgres)
	require.NoError(t, err)
	return store, mock
}

var userColumns = []string{
	"id", "email", "password", "name", "phone",
	"created_at", "updated_at", "removed_at", "created_by", "updated_by",
}

func TestPostgresFindActiveByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 AND removed_at IS NULL`)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "user@example.com", "hash", "Jane", "010", now, now, nil, "system", "system"))

	u, err := NewUserRepository(store).FindActiveByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "Jane", u.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := NewUserRepository(store).FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresExistsByEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1`)).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := NewUserRepository(store).ExistsByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "uk_users_email"})
	mock.ExpectRollback()

	u := newUser("user@example.com", "Jane", "010")
	err := NewUserRepository(store).Save(context.Background(), u)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Empty(t, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveNameViolationIsNotEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "uk_users_name"})
	mock.ExpectRollback()

	err := NewUserRepository(store).Save(context.Background(), newUser("user@example.com", "Jane", "010"))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveInsert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := newUser("user@example.com", "Jane", "010")
	require.NoError(t, NewUserRepository(store).Save(context.Background(), u))
	assert.Len(t, u.ID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}
