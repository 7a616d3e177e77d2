package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// RegistryStore loads and saves the whole registry.
type RegistryStore interface {
	Load(ctx context.Context) (*models.Registry, error)
	Save(ctx context.Context, reg *models.Registry) error
}

// RegistryRepository keeps the registry as one JSON blob under a single key.
//
// There is no locking: two processes sharing the key race on
// read-modify-write and the last Save wins.
type RegistryRepository struct {
	blobs BlobStore
	key   string
}

// NewRegistryRepository creates a RegistryRepository storing under key.
func NewRegistryRepository(blobs BlobStore, key string) *RegistryRepository {
	return &RegistryRepository{blobs: blobs, key: key}
}

// Load reads the registry. A missing (or empty) blob is seeded from the
// sample dataset and persisted before returning. A blob that is present but
// not valid JSON is reported as ErrCorruptRegistry and left untouched.
func (r *RegistryRepository) Load(ctx context.Context) (*models.Registry, error) {
	raw, found, err := r.blobs.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("%w: read registry %q: %w", utils.ErrStorage, r.key, err)
	}

	if !found || isEmptyBlob(raw) {
		return r.seed(ctx)
	}

	return r.decode(raw)
}

// Save fully overwrites the stored registry.
func (r *RegistryRepository) Save(ctx context.Context, reg *models.Registry) error {
	raw, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("%w: encode registry: %w", utils.ErrStorage, err)
	}

	if err := r.blobs.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("%w: write registry %q: %w", utils.ErrStorage, r.key, err)
	}
	return nil
}

// seed persists the sample registry and returns it exactly as a later Load
// would decode it.
func (r *RegistryRepository) seed(ctx context.Context) (*models.Registry, error) {
	raw, err := json.Marshal(SeedRegistry())
	if err != nil {
		return nil, fmt.Errorf("%w: encode seed registry: %w", utils.ErrStorage, err)
	}

	if err := r.blobs.Put(ctx, r.key, raw); err != nil {
		return nil, fmt.Errorf("%w: write seed registry %q: %w", utils.ErrStorage, r.key, err)
	}

	log.Info().Str("key", r.key).Msg("Registry seeded with sample data")
	return r.decode(raw)
}

func (r *RegistryRepository) decode(raw []byte) (*models.Registry, error) {
	var reg models.Registry
	if err := json.Unmarshal(raw, &reg); err != nil {
		log.Error().Err(err).Str("key", r.key).Msg("Stored registry is not valid JSON")
		return nil, fmt.Errorf("%w: %w: %w", utils.ErrStorage, utils.ErrCorruptRegistry, err)
	}
	reg.Normalize()
	return &reg, nil
}

func isEmptyBlob(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
