package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"slotswapper/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "first_name", "last_name", "created_at", "updated_at"}

func userRow(id, username, email string) *sqlmock.Rows {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(userRowColumns).
		AddRow(id, username, email, "hash", "Alice", "Anders", created, created)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, first_name, last_name, created_at, updated_at\)`).
					WithArgs("alice", "alice@example.com", "hash", "Alice", "Anders", created, created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
			wantID: "user-uuid-1",
		},
		{
			name: "duplicate username or email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrDuplicateUser,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			u := domain.NewUser("alice", "alice@example.com", "hash", "Alice", "Anders", created, created)
			err = repo.Create(ctx, u)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, email, password_hash, first_name, last_name, created_at, updated_at FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(userRow("user-1", "alice", "alice@example.com"))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("user-missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)
	got, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)

	_, err = repo.GetByID(ctx, "user-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsernameOrEmail(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1 OR email = \$1`).
		WithArgs("alice").
		WillReturnRows(userRow("user-1", "alice", "alice@example.com"))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1 OR email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(userRow("user-1", "alice", "alice@example.com"))

	repo := NewUserRepository(db)
	byUsername, err := repo.GetByUsernameOrEmail(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "user-1", byUsername.ID)

	byEmail, err := repo.GetByUsernameOrEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "user-1", byEmail.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
