package bookmarks

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateInput is the payload for creating a bookmark.
type CreateInput struct {
	URL   string   `json:"url" validate:"required,url"`
	Title string   `json:"title" validate:"required,max=200"`
	Notes string   `json:"notes" validate:"max=2000"`
	Tags  []string `json:"tags" validate:"max=25,dive,required,max=50"`
}

// UpdateInput is the payload for updating a bookmark. Nil fields are left
// unchanged.
type UpdateInput struct {
	URL   *string   `json:"url" validate:"omitempty,url"`
	Title *string   `json:"title" validate:"omitempty,max=200"`
	Notes *string   `json:"notes" validate:"omitempty,max=2000"`
	Tags  *[]string `json:"tags" validate:"omitempty,max=25,dive,required,max=50"`
}

// Service implements bookmark use cases over the store. It is registered
// Scoped: one instance per request, sharing the Singleton store and logger.
type Service struct {
	store    *Store
	logger   *zap.Logger
	validate *validator.Validate
	pageSize int
}

// NewService creates a Service. pageSize caps List results.
func NewService(store *Store, logger *zap.Logger, pageSize int) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		validate: newValidator(),
		pageSize: pageSize,
	}
}

// newValidator builds the input validator, reporting fields under their JSON
// names so validation errors match what clients actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Create validates the input and stores a new bookmark.
func (s *Service) Create(in CreateInput) (*Bookmark, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	ts := now().UTC()
	b := &Bookmark{
		ID:        uuid.NewString(),
		URL:       in.URL,
		Title:     in.Title,
		Notes:     in.Notes,
		Tags:      normalizeTags(in.Tags),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.store.Put(b); err != nil {
		return nil, err
	}
	s.logger.Info("bookmark created", zap.String("id", b.ID), zap.String("url", b.URL))
	return b, nil
}

// Get returns one bookmark by id.
func (s *Service) Get(id string) (*Bookmark, error) {
	return s.store.Get(id)
}

// Update applies the non-nil fields of in to an existing bookmark.
func (s *Service) Update(id string, in UpdateInput) (*Bookmark, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	b, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if in.URL != nil {
		b.URL = *in.URL
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	if in.Tags != nil {
		b.Tags = normalizeTags(*in.Tags)
	}
	b.UpdatedAt = now().UTC()

	if err := s.store.Put(b); err != nil {
		return nil, err
	}
	s.logger.Info("bookmark updated", zap.String("id", b.ID))
	return b, nil
}

// Delete removes a bookmark by id.
func (s *Service) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("bookmark deleted", zap.String("id", id))
	return nil
}

// List returns bookmarks newest first, optionally filtered by tag and search
// query, capped at the configured page size.
func (s *Service) List(tag, query string) ([]*Bookmark, error) {
	return s.store.List(tag, query, s.pageSize)
}

// Tags returns tag usage counts.
func (s *Service) Tags() ([]TagCount, error) {
	return s.store.Tags()
}

// normalizeTags lowercases, trims and de-duplicates tags, preserving first
// occurrence order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
