// Package orderstore persists the customer's placed orders as a single JSON
// document, the process-local equivalent of the storefront's localStorage key.
// Reads are permissive: a missing or corrupt file is an empty order list,
// never an error. Writes are read-modify-write with no locking across
// processes; concurrent writers are last-writer-wins by design.
package orderstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"purechain-store/internal/models"
	"purechain-store/internal/util"

	"go.uber.org/zap"
)

type Store struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: util.GetLogger(),
	}
}

// Load reads the persisted order list. Absence or parse failure yields an
// empty list.
func (s *Store) Load() []models.PlacedOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() []models.PlacedOrder {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var orders []models.PlacedOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		s.logger.Warn("Discarding unreadable order list",
			zap.String("path", s.path),
			zap.Error(err))
		return nil
	}
	return orders
}

// Append adds orders to the end of the persisted list.
func (s *Store) Append(orders ...models.PlacedOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.loadLocked()
	return s.saveLocked(append(existing, orders...))
}

// Save replaces the persisted list.
func (s *Store) Save(orders []models.PlacedOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(orders)
}

func (s *Store) saveLocked(orders []models.PlacedOrder) error {
	if orders == nil {
		orders = []models.PlacedOrder{}
	}

	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
