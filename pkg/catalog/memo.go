package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Memo is a read-through cache over a Provider. The provider is queried at
// most once; every later call returns the same snapshot.
type Memo struct {
	provider Provider

	mu       sync.Mutex
	snapshot *Snapshot
	err      error
}

func NewMemo(provider Provider) *Memo {
	return &Memo{provider: provider}
}

// Snapshot returns the memoized catalog, fetching it on first use. A failed
// fetch yields an empty snapshot; the failure is available from Err.
func (m *Memo) Snapshot(ctx context.Context) *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot != nil {
		return m.snapshot
	}

	snap := &Snapshot{ID: uuid.NewString()}
	logger := zerolog.Ctx(ctx).With().Str("catalog_snapshot", snap.ID).Logger()

	tags, err := m.provider.ListTags(ctx)
	if err != nil {
		m.err = errors.Errorf("listing tags: %w", err)
		logger.Error().Err(m.err).Msg("catalog fetch failed, continuing without tags")
	} else {
		snap.Tags = tags
	}

	mods, err := m.provider.ListModifiers(ctx)
	if err != nil {
		if m.err == nil {
			m.err = errors.Errorf("listing modifiers: %w", err)
		}
		logger.Error().Err(err).Msg("catalog fetch failed, continuing without modifiers")
	} else {
		snap.Modifiers = mods
	}

	logger.Debug().Int("tags", len(snap.Tags)).Int("modifiers", len(snap.Modifiers)).Msg("catalog snapshot ready")

	m.snapshot = snap
	return snap
}

// Err returns the error of the initial fetch, if any.
func (m *Memo) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
