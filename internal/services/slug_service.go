package services

import (
	"fmt"
	"net/http"

	"gatherly_backend/pkg/apperrors"
	"gatherly_backend/pkg/slugify"
)

// SlugKind tags the entity family a slug belongs to. Uniqueness is
// only enforced within a kind.
type SlugKind string

const (
	SlugKindEvent   SlugKind = "event"
	SlugKindProfile SlugKind = "profile"
)

// slugKindConfig holds the per-kind generation parameters.
type slugKindConfig struct {
	maxLength int
}

var slugKindConfigs = map[SlugKind]slugKindConfig{
	SlugKindEvent:   {maxLength: 50},
	SlugKindProfile: {maxLength: 30},
}

// SlugStore answers whether a candidate slug is already taken within
// one kind. Both entity repositories satisfy it.
type SlugStore interface {
	SlugExists(slug string) (bool, error)
}

type SlugService interface {
	// Generate derives a unique URL-safe slug for the kind from a
	// human-readable seed.
	Generate(kind SlugKind, seed string) (string, error)
}

type slugService struct {
	stores map[SlugKind]SlugStore
}

func NewSlugService(eventStore, profileStore SlugStore) SlugService {
	return &slugService{
		stores: map[SlugKind]SlugStore{
			SlugKindEvent:   eventStore,
			SlugKindProfile: profileStore,
		},
	}
}

// Generate normalizes the seed, then checks the store for the base
// and counter-suffixed candidates until a free one is found. The
// check-then-set is not atomic against concurrent creators using the
// same seed; the unique index on the slug column is the backstop.
// Termination is bounded in practice by counter growth.
func (s *slugService) Generate(kind SlugKind, seed string) (string, error) {
	cfg, ok := slugKindConfigs[kind]
	if !ok {
		return "", apperrors.ErrInvalidOperation("slugs", fmt.Sprintf("unknown slug kind: %s", kind))
	}

	store, ok := s.stores[kind]
	if !ok {
		return "", apperrors.ErrInvalidOperation("slugs", fmt.Sprintf("no store registered for kind: %s", kind))
	}

	base := slugify.Make(seed, cfg.maxLength)
	if base == "" {
		base = string(kind)
	}

	candidate := base
	for counter := 1; ; counter++ {
		exists, err := store.SlugExists(candidate)
		if err != nil {
			// Never hand back a possibly colliding slug on a failed
			// uniqueness lookup.
			return "", apperrors.Wrap(err, apperrors.CodeDatabaseError, "slugs",
				"Failed to check slug uniqueness", http.StatusInternalServerError)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
