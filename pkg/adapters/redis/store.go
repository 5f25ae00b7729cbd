// Package redis provides Redis-backed adapters: a versioned slide store and a distributed locker.
//
// Each step keeps a sorted set of its content versions (score = version) and
// one hash per version holding the slide title and body.
package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/deckflow/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "deckflow:content:"

// Store implements ports.ContentStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for content keys.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) versionsKey(stepID string) string {
	return s.prefix + "versions:" + stepID
}

func (s *Store) slideKey(stepID string, version int) string {
	return s.prefix + "slide:" + stepID + ":" + strconv.Itoa(version)
}

// Put stores a slide and indexes its version.
func (s *Store) Put(ctx context.Context, slide domain.Slide) error {
	if slide.StepID == "" {
		return fmt.Errorf("slide missing step id")
	}
	if slide.Version < 0 {
		return fmt.Errorf("slide %s has negative version %d", slide.StepID, slide.Version)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.slideKey(slide.StepID, slide.Version), map[string]any{
		"title": slide.Title,
		"body":  slide.Body,
	})
	pipe.ZAdd(ctx, s.versionsKey(slide.StepID), backend.Z{
		Score:  float64(slide.Version),
		Member: strconv.Itoa(slide.Version),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Versions returns the versions of a step in ascending order.
func (s *Store) Versions(ctx context.Context, stepID string) ([]int, error) {
	members, err := s.client.ZRangeWithScores(ctx, s.versionsKey(stepID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list versions from redis: %w", err)
	}

	versions := make([]int, 0, len(members))
	for _, m := range members {
		versions = append(versions, int(m.Score))
	}
	return versions, nil
}

// Slide returns the slide at exactly the given version.
func (s *Store) Slide(ctx context.Context, stepID string, version int) (domain.Slide, error) {
	fields, err := s.client.HGetAll(ctx, s.slideKey(stepID, version)).Result()
	if err != nil {
		return domain.Slide{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	if len(fields) == 0 {
		return domain.Slide{}, fmt.Errorf("%s@%d: %w", stepID, version, domain.ErrSlideNotFound)
	}

	return domain.Slide{
		StepID:  stepID,
		Version: version,
		Title:   fields["title"],
		Body:    fields["body"],
	}, nil
}

// Delete removes one version of a step.
func (s *Store) Delete(ctx context.Context, stepID string, version int) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.slideKey(stepID, version))
	pipe.ZRem(ctx, s.versionsKey(stepID), strconv.Itoa(version))

	_, err := pipe.Exec(ctx)
	return err
}
