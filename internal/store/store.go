// Package store keeps the active coefficient set, persisting it through a
// storage.KeyValue after every change.
package store

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/iwvelando/seasonality-forecast/internal/forecast"
	"github.com/iwvelando/seasonality-forecast/internal/seasonality"
	"github.com/iwvelando/seasonality-forecast/internal/storage"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Store holds the current coefficient set. Persistence failures are logged
// and do not affect the in-memory set.
type Store struct {
	logger  *zap.Logger
	kv      storage.KeyValue
	key     string
	mu      *sync.RWMutex
	current seasonality.Coefficients
}

// New returns a store reading and writing key in kv, and loads the persisted
// set. An empty key selects constants.StorageKey.
func New(logger *zap.Logger, kv storage.KeyValue, key string) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = constants.StorageKey
	}

	s := &Store{
		logger: logger,
		kv:     kv,
		key:    key,
		mu:     &sync.RWMutex{},
	}
	s.Reload()
	return s
}

// Key returns the storage key the set is persisted under.
func (s *Store) Key() string {
	return s.key
}

// Coefficients returns a copy of the current set.
func (s *Store) Coefficients() seasonality.Coefficients {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Clone()
}

// Reload replaces the current set with the persisted one merged against the
// defaults. Absent, unreadable or malformed data yields the defaults.
func (s *Store) Reload() seasonality.Coefficients {
	loaded := s.load()

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	return loaded.Clone()
}

func (s *Store) load() seasonality.Coefficients {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn("could not read coefficients, using defaults",
			zap.String("op", "store.load"),
			zap.String("key", s.key),
			zap.Error(err),
		)
		return seasonality.Defaults()
	}
	if !ok || raw == "" {
		s.logger.Debug("no stored coefficients, using defaults",
			zap.String("op", "store.load"),
			zap.String("key", s.key),
		)
		return seasonality.Defaults()
	}

	coefficients, err := seasonality.Decode([]byte(raw), "stored coefficients")
	if err != nil {
		s.logger.Warn("stored coefficients are malformed, using defaults",
			zap.String("op", "store.load"),
			zap.String("key", s.key),
			zap.Error(err),
		)
		return seasonality.Defaults()
	}
	return coefficients
}

// Set edits the coefficient of one month. raw is resolved like any candidate
// value, so unusable input stores the month's default.
func (s *Store) Set(month seasonality.Month, raw interface{}) (seasonality.Coefficients, error) {
	if !month.Valid() {
		return nil, fmt.Errorf("%w: %d", seasonality.ErrInvalidMonth, int(month))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	next[month] = seasonality.ResolveValue(month, raw)
	s.replaceLocked(next, "store.Set")
	return next.Clone(), nil
}

// Replace resolves candidate and makes it the current set.
func (s *Store) Replace(candidate map[string]interface{}) seasonality.Coefficients {
	resolved := seasonality.Resolve(candidate)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(resolved, "store.Replace")
	return resolved.Clone()
}

// Import reads a JSON coefficient file from r and merges it against the
// defaults. On a *seasonality.ParseError the current set is left untouched.
func (s *Store) Import(r io.Reader) (seasonality.Coefficients, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}

	imported, err := seasonality.Decode(data, "imported coefficients")
	if err != nil {
		s.logger.Info("discarding import",
			zap.String("op", "store.Import"),
			zap.Error(err),
		)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(imported, "store.Import")
	return imported.Clone(), nil
}

// Export writes the current set to w as indented JSON.
func (s *Store) Export(w io.Writer) error {
	data, err := seasonality.EncodeIndent(s.Coefficients())
	if err != nil {
		return fmt.Errorf("failed to encode coefficients: %w", err)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Reset replaces the current set with the defaults.
func (s *Store) Reset() seasonality.Coefficients {
	defaults := seasonality.Defaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(defaults, "store.Reset")
	return defaults.Clone()
}

// Forecast computes the forecast of month against the current set.
func (s *Store) Forecast(annualDemand float64, month seasonality.Month) (forecast.Result, error) {
	return forecast.Calculate(annualDemand, month, s.Coefficients())
}

// ForecastYear computes all twelve monthly forecasts against the current set.
func (s *Store) ForecastYear(annualDemand float64) ([]forecast.Result, error) {
	return forecast.CalculateYear(annualDemand, s.Coefficients())
}

// replaceLocked swaps in next and persists it. s.mu must be held.
func (s *Store) replaceLocked(next seasonality.Coefficients, op string) {
	s.current = next
	s.persist(next, op)
}

func (s *Store) persist(c seasonality.Coefficients, op string) {
	data, err := seasonality.Encode(c)
	if err != nil {
		s.logger.Warn("could not encode coefficients",
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}

	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.logger.Warn("could not save coefficients",
			zap.String("op", op),
			zap.String("key", s.key),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("coefficients saved",
		zap.String("op", op),
		zap.String("key", s.key),
	)
}
