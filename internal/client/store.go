package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"contact_manager/internal/model"
)

// TagAll is the default tag filter meaning "no tag filter".
const TagAll = "All"

// DefaultDebounce is the search inactivity window before a refetch fires.
const DefaultDebounce = 300 * time.Millisecond

// API is the slice of Client the Store needs. Satisfied by *Client.
type API interface {
	ListContacts(ctx context.Context, search string) ([]model.Contact, error)
	UpdateContact(ctx context.Context, id int64, req model.UpdateContactRequest) (*model.Contact, error)
	DeleteContact(ctx context.Context, id int64) (int64, error)
}

// Store holds the local copy of the contact list plus two independent view
// filters: a debounced free-text search (server-side) and a selected tag
// (client-side projection only, never refetches).
type Store struct {
	mu          sync.Mutex
	api         API
	debounce    time.Duration
	timer       *time.Timer
	contacts    []model.Contact
	search      string
	selectedTag string
}

// NewStore creates a Store. A zero debounce falls back to DefaultDebounce.
func NewStore(api API, debounce time.Duration) *Store {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Store{
		api:         api,
		debounce:    debounce,
		selectedTag: TagAll,
	}
}

// Refresh replaces the cached list with a fresh fetch using the current
// search term.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	search := s.search
	s.mu.Unlock()

	contacts, err := s.api.ListContacts(ctx, search)
	if err != nil {
		return fmt.Errorf("failed to refresh contacts: %w", err)
	}

	s.mu.Lock()
	s.contacts = contacts
	s.mu.Unlock()
	return nil
}

// SetSearch updates the search term. The refetch is debounced: it fires only
// after the configured window of inactivity, so fast typing does not flood
// the server.
func (s *Store) SetSearch(term string) {
	s.mu.Lock()
	s.search = term
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		// Errors here surface on the next explicit Refresh; the stale
		// cache simply remains visible until then.
		_ = s.Refresh(context.Background())
	})
	s.mu.Unlock()
}

// SelectTag sets the tag filter. Purely a local projection; no refetch.
func (s *Store) SelectTag(tag string) {
	s.mu.Lock()
	s.selectedTag = tag
	s.mu.Unlock()
}

// Tags returns the tag universe for the current result set: TagAll first,
// then each distinct tag in first-seen order.
func (s *Store) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := []string{TagAll}
	seen := map[string]bool{}
	for _, c := range s.contacts {
		for _, t := range c.Tags {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}

// Visible returns the cached contacts projected through the tag filter.
func (s *Store) Visible() []model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedTag == TagAll {
		out := make([]model.Contact, len(s.contacts))
		copy(out, s.contacts)
		return out
	}

	var out []model.Contact
	for _, c := range s.contacts {
		for _, t := range c.Tags {
			if t == s.selectedTag {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// ToggleFavorite flips the favorite flag optimistically: the local list is
// mutated first, then the update is sent. On failure the local state is
// discarded and replaced by a fresh fetch.
func (s *Store) ToggleFavorite(ctx context.Context, id int64) error {
	s.mu.Lock()
	var newVal bool
	found := false
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i].IsFavorite = !s.contacts[i].IsFavorite
			newVal = s.contacts[i].IsFavorite
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}

	_, err := s.api.UpdateContact(ctx, id, model.UpdateContactRequest{IsFavorite: &newVal})
	if err != nil {
		// Mandatory reconciliation: refetch rather than patch-level rollback
		if refreshErr := s.Refresh(ctx); refreshErr != nil {
			return fmt.Errorf("favorite update failed (%v) and refresh failed: %w", err, refreshErr)
		}
		return fmt.Errorf("failed to update favorite: %w", err)
	}
	return nil
}

// Delete removes the contact optimistically, then issues the delete. On
// failure the local state is replaced by a fresh fetch.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	kept := s.contacts[:0]
	found := false
	for _, c := range s.contacts {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	s.contacts = kept
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}

	if _, err := s.api.DeleteContact(ctx, id); err != nil {
		if refreshErr := s.Refresh(ctx); refreshErr != nil {
			return fmt.Errorf("delete failed (%v) and refresh failed: %w", err, refreshErr)
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
