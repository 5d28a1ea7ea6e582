package datastore

import (
	"sync/atomic"

	"github.com/bristermitten/hot-takes/internal/models"
)

// Provider hands out the current data snapshot.
type Provider interface {
	Data() *models.HotTakeData
}

// Store holds validated hot take data. Production code never replaces it after
// startup; Replace exists so tests can isolate themselves.
type Store struct {
	current atomic.Pointer[models.HotTakeData]
}

// NewStore wraps already-validated data. nil is treated as empty data.
func NewStore(data *models.HotTakeData) *Store {
	s := &Store{}
	s.Replace(data)
	return s
}

// Open loads the data file at path into a new Store.
func Open(path string) (*Store, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(data), nil
}

func (s *Store) Data() *models.HotTakeData {
	return s.current.Load()
}

// Replace swaps the whole data set atomically. Callers must not run it while
// generation is in flight if they expect a consistent result.
func (s *Store) Replace(data *models.HotTakeData) {
	if data == nil {
		data = models.Empty()
	}
	s.current.Store(data)
}
