package repository

import (
	"context"
	"testing"
	"time"

	"contact_manager/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactColumns() []string {
	return []string{"id", "user_id", "name", "phone", "email", "company", "tags", "notes", "is_favorite", "created_at", "updated_at"}
}

func TestContactRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)
	now := time.Now()
	contact := &model.Contact{
		UserID:    7,
		Name:      "Alice Smith",
		Phone:     "123",
		Email:     "alice@example.com",
		Tags:      []string{"friends"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO contacts").
		WithArgs(contact.UserID, contact.Name, contact.Phone, contact.Email, contact.Company, contact.Tags, contact.Notes, contact.IsFavorite, contact.CreatedAt, contact.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	err = repo.Create(context.Background(), contact)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), contact.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)

	mock.ExpectQuery("FROM contacts WHERE id").
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	contact, err := repo.FindByID(context.Background(), 42)

	assert.NoError(t, err)
	assert.Nil(t, contact)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_FindByOwner_NoSearch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)
	now := time.Now()

	mock.ExpectQuery("FROM contacts WHERE user_id = \\$1 ORDER BY created_at DESC, id DESC").
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows(contactColumns()).
			AddRow(int64(2), 7, "Bob", "456", "bob@example.com", (*string)(nil), []string{"work"}, (*string)(nil), false, now, now).
			AddRow(int64(1), 7, "Alice", "123", "alice@example.com", (*string)(nil), []string(nil), (*string)(nil), true, now.Add(-time.Hour), now))

	contacts, err := repo.FindByOwner(context.Background(), 7, "")

	assert.NoError(t, err)
	assert.Len(t, contacts, 2)
	assert.Equal(t, "Bob", contacts[0].Name)
	assert.Equal(t, "Alice", contacts[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_FindByOwner_SearchEscapesWildcards(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)

	// LIKE wildcards in the raw term must reach the database escaped
	mock.ExpectQuery("FROM contacts WHERE user_id = \\$1 AND \\(name ILIKE").
		WithArgs(7, `al\%ice`).
		WillReturnRows(pgxmock.NewRows(contactColumns()))

	contacts, err := repo.FindByOwner(context.Background(), 7, "al%ice")

	assert.NoError(t, err)
	assert.Empty(t, contacts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_Update_NotOwnedOrMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)
	contact := &model.Contact{ID: 5, UserID: 7, Name: "Alice", Phone: "123", Email: "alice@example.com"}

	mock.ExpectQuery("UPDATE contacts").
		WithArgs(contact.Name, contact.Phone, contact.Email, contact.Company, contact.Tags, contact.Notes, contact.IsFavorite, contact.ID, contact.UserID).
		WillReturnError(pgx.ErrNoRows)

	err = repo.Update(context.Background(), contact)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)

	mock.ExpectExec("DELETE FROM contacts WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), 5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)

	mock.ExpectExec("DELETE FROM contacts WHERE id").
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), 99)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
