// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package collections implements the CRUD operations over saved looks.
// Every mutation loads the full collection list, changes it in memory and
// writes the full list back; a mutex serialises those cycles.
package collections

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fashiontechx/internal/models"
)

var (
	// ErrCollectionNotFound is returned when a collection ID does not resolve.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrLookNotFound is returned by GetLook for an unknown look ID.
	ErrLookNotFound = errors.New("look not found")
)

// Repository loads and saves the whole collection list.
type Repository interface {
	Load(ctx context.Context) ([]models.Collection, error)
	Save(ctx context.Context, collections []models.Collection) error
}

// IDFunc returns a fresh identifier with the given prefix ("coll", "look").
type IDFunc func(prefix string) string

// TimeOrderedID builds IDs from UUIDv7 values, which embed the creation
// time in milliseconds and stay ordered within the process.
func TimeOrderedID(prefix string) string {
	return prefix + "_" + uuid.Must(uuid.NewV7()).String()
}

// Option customises a Service.
type Option func(*Service)

// WithIDs replaces the ID generator.
func WithIDs(f IDFunc) Option {
	return func(s *Service) { s.newID = f }
}

// WithClock replaces the clock used for Look.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service provides the collection operations.
type Service struct {
	mu    sync.Mutex
	repo  Repository
	newID IDFunc
	now   func() time.Time
}

// NewService creates a Service over repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		newID: TimeOrderedID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all collections in stored order.
func (s *Service) List(ctx context.Context) ([]models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Load(ctx)
}

// Get returns one collection.
func (s *Service) Get(ctx context.Context, collectionID string) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(collections, collectionID)
	if i < 0 {
		return nil, ErrCollectionNotFound
	}
	return &collections[i], nil
}

// GetLook returns one look from a collection.
func (s *Service) GetLook(ctx context.Context, collectionID, lookID string) (*models.Look, error) {
	c, err := s.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	l := c.FindLook(lookID)
	if l == nil {
		return nil, ErrLookNotFound
	}
	return l, nil
}

// Create appends a new empty collection. Names need not be unique.
func (s *Service) Create(ctx context.Context, name string) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	c := models.Collection{
		ID:    s.newID("coll"),
		Name:  name,
		Looks: []models.Look{},
	}
	collections = append(collections, c)

	if err := s.repo.Save(ctx, collections); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &c, nil
}

// AddLook saves data as a new look at the front of the collection.
func (s *Service) AddLook(ctx context.Context, collectionID string, data models.GeneratedAssetData, lookName, originalSketch, prompt string) (*models.Look, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(collections, collectionID)
	if i < 0 {
		return nil, ErrCollectionNotFound
	}

	assets := data.Clone()
	look := models.Look{
		ID:             s.newID("look"),
		Name:           lookName,
		CreatedAt:      s.now().UTC(),
		OriginalSketch: originalSketch,
		Prompt:         prompt,
		Images:         assets.Images,
		MoodboardImage: assets.MoodboardImage,
		MarketingCopy:  assets.MarketingCopy,
	}

	looks := make([]models.Look, 0, len(collections[i].Looks)+1)
	looks = append(looks, look)
	looks = append(looks, collections[i].Looks...)
	collections[i].Looks = looks

	if err := s.repo.Save(ctx, collections); err != nil {
		return nil, fmt.Errorf("add look: %w", err)
	}
	return &look, nil
}

// DeleteLook removes a look. Unknown collection or look IDs are a no-op.
func (s *Service) DeleteLook(ctx context.Context, collectionID, lookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(collections, collectionID)
	if i < 0 {
		return nil
	}

	kept := make([]models.Look, 0, len(collections[i].Looks))
	for _, l := range collections[i].Looks {
		if l.ID != lookID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(collections[i].Looks) {
		return nil
	}
	collections[i].Looks = kept

	if err := s.repo.Save(ctx, collections); err != nil {
		return fmt.Errorf("delete look: %w", err)
	}
	return nil
}

// DeleteCollection removes a collection and its looks. Unknown IDs are a
// no-op, so repeated calls are safe.
func (s *Service) DeleteCollection(ctx context.Context, collectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(collections, collectionID)
	if i < 0 {
		return nil
	}
	collections = append(collections[:i], collections[i+1:]...)

	if err := s.repo.Save(ctx, collections); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

func indexOf(collections []models.Collection, id string) int {
	for i := range collections {
		if collections[i].ID == id {
			return i
		}
	}
	return -1
}
