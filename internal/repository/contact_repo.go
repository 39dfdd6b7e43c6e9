package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contact_manager/internal/model"

	"github.com/jackc/pgx/v5"
)

// ContactRepository defines operations for contact data
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, id int64) (*model.Contact, error)
	FindByOwner(ctx context.Context, userID int, search string) ([]model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id int64) error
}

type contactRepository struct {
	db DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DB) ContactRepository {
	return &contactRepository{db: db}
}

// likeEscaper neutralizes LIKE wildcards in user-supplied search terms.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Create inserts a new contact into the database
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	sql := `INSERT INTO contacts (user_id, name, phone, email, company, tags, notes, is_favorite, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.UserID, c.Name, c.Phone, c.Email, c.Company, c.Tags, c.Notes, c.IsFavorite, c.CreatedAt, c.UpdatedAt).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact by its ID
func (r *contactRepository) FindByID(ctx context.Context, id int64) (*model.Contact, error) {
	c := &model.Contact{}
	sql := `SELECT id, user_id, name, phone, email, company, tags, notes, is_favorite, created_at, updated_at
            FROM contacts WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.Company,
		&c.Tags, &c.Notes, &c.IsFavorite, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	return c, nil
}

// FindByOwner retrieves all contacts owned by a user, newest-created first.
// When search is non-empty the result is narrowed to contacts whose name or
// email contains the term, case-insensitively.
func (r *contactRepository) FindByOwner(ctx context.Context, userID int, search string) ([]model.Contact, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, user_id, name, phone, email, company, tags, notes, is_favorite, created_at, updated_at
                               FROM contacts WHERE user_id = $1`)
	args := []interface{}{userID}

	if search != "" {
		queryBuilder.WriteString(` AND (name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`)
		args = append(args, likeEscaper.Replace(search))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by owner: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.Company,
			&c.Tags, &c.Notes, &c.IsFavorite, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

// Update modifies an existing contact. The owner column is never part of the
// SET list; the id/user_id predicate re-checks ownership at write time.
func (r *contactRepository) Update(ctx context.Context, c *model.Contact) error {
	sql := `UPDATE contacts
            SET name = $1, phone = $2, email = $3, company = $4, tags = $5, notes = $6, is_favorite = $7, updated_at = NOW()
            WHERE id = $8 AND user_id = $9 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, c.Name, c.Phone, c.Email, c.Company, c.Tags, c.Notes, c.IsFavorite, c.ID, c.UserID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("contact not found or not owned by user for update")
		}
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

// Delete removes a contact from the database
func (r *contactRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM contacts WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact not found for deletion")
	}
	return nil
}
