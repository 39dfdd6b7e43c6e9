package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"contact_manager/internal/model"
	"contact_manager/internal/repository"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrForbidden       = errors.New("forbidden: user does not have permission for this action")
)

// ContactService defines operations for contacts. Every operation takes the
// resolved caller id; ownership is re-checked here before any write.
type ContactService interface {
	CreateContact(ctx context.Context, userID int, req model.CreateContactRequest) (*model.Contact, error)
	GetUserContacts(ctx context.Context, userID int, search string) ([]model.Contact, error)
	UpdateContact(ctx context.Context, contactID int64, userID int, req model.UpdateContactRequest) (*model.Contact, error)
	DeleteContact(ctx context.Context, contactID int64, userID int) error
	ExportContactsCSV(ctx context.Context, userID int) (*bytes.Buffer, error)
}

type contactService struct {
	repo repository.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) CreateContact(ctx context.Context, userID int, req model.CreateContactRequest) (*model.Contact, error) {
	// Owner comes from the authenticated caller, never from the payload
	contact := &model.Contact{
		UserID:     userID,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Company:    req.Company,
		Tags:       req.Tags,
		Notes:      req.Notes,
		IsFavorite: req.IsFavorite,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact in repo: %w", err)
	}
	return contact, nil
}

func (s *contactService) GetUserContacts(ctx context.Context, userID int, search string) ([]model.Contact, error) {
	contacts, err := s.repo.FindByOwner(ctx, userID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("failed to get user contacts from repo: %w", err)
	}
	return contacts, nil
}

func (s *contactService) UpdateContact(ctx context.Context, contactID int64, userID int, req model.UpdateContactRequest) (*model.Contact, error) {
	existing, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact for update: %w", err)
	}
	if existing == nil {
		return nil, ErrContactNotFound
	}
	if existing.UserID != userID { // Only the owner can edit
		return nil, ErrForbidden
	}

	// Apply updates; user_id is not in the mutable set
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Company != nil { // handles setting to ""
		existing.Company = req.Company
	}
	if req.Tags != nil {
		existing.Tags = req.Tags
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}
	if req.IsFavorite != nil {
		existing.IsFavorite = *req.IsFavorite
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update contact in repo: %w", err)
	}
	return existing, nil
}

func (s *contactService) DeleteContact(ctx context.Context, contactID int64, userID int) error {
	existing, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		return fmt.Errorf("failed to find contact for deletion: %w", err)
	}
	if existing == nil {
		return ErrContactNotFound
	}
	if existing.UserID != userID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, contactID); err != nil {
		return fmt.Errorf("failed to delete contact in repo: %w", err)
	}
	return nil
}

// ExportContactsCSV writes the caller's own contacts to a CSV buffer.
func (s *contactService) ExportContactsCSV(ctx context.Context, userID int) (*bytes.Buffer, error) {
	contacts, err := s.repo.FindByOwner(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts for CSV export: %w", err)
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"ID", "Name", "Phone", "Email", "Company", "Tags", "Notes", "IsFavorite", "CreatedAt"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range contacts {
		var company, notes string
		if c.Company != nil {
			company = *c.Company
		}
		if c.Notes != nil {
			notes = *c.Notes
		}
		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Phone,
			c.Email,
			company,
			strings.Join(c.Tags, ";"),
			notes,
			strconv.FormatBool(c.IsFavorite),
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return buffer, nil
}
