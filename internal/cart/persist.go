package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bazaargo/storefront/internal/domain"
	"github.com/bazaargo/storefront/internal/storage"
)

// schemaVersion guards the persisted cart shape. A stored envelope carrying
// any other version is discarded on load instead of being trusted.
const schemaVersion = 1

type cartEnvelope struct {
	SchemaVersion int               `json:"schema_version"`
	Lines         []domain.CartLine `json:"lines"`
}

// Persister mirrors the cart line list to durable storage. It subscribes to
// the store; mutations never call it directly.
type Persister struct {
	store  storage.Store
	logger *zap.Logger
}

func NewPersister(store storage.Store, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{store: store, logger: logger}
}

// Attach registers the persister on the cart store.
func (p *Persister) Attach(s *Store) {
	s.Subscribe(p.Save)
}

// Save writes the full line list. Write failures are logged, not surfaced:
// the in-memory cart stays authoritative for the session either way.
func (p *Persister) Save(lines []domain.CartLine) {
	env := cartEnvelope{SchemaVersion: schemaVersion, Lines: lines}
	data, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("marshal cart failed", zap.Error(err))
		return
	}
	if err := p.store.Put(storage.KeyCart, data); err != nil {
		p.logger.Error("persist cart failed", zap.Error(err))
	}
}

// Load reads the persisted cart. A missing key, undecodable bytes, or a
// schema-version mismatch all yield an empty cart.
func (p *Persister) Load() ([]domain.CartLine, error) {
	data, err := p.store.Get(storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var env cartEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		p.logger.Warn("discarding undecodable persisted cart", zap.Error(err))
		return nil, nil
	}
	if env.SchemaVersion != schemaVersion {
		p.logger.Warn("discarding persisted cart with unknown schema version",
			zap.Int("stored", env.SchemaVersion),
			zap.Int("expected", schemaVersion))
		return nil, nil
	}
	return env.Lines, nil
}
