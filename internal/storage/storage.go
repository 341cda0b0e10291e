package storage

import (
	"errors"
	"slices"
	"sync"

	"github.com/eugenenazirov/plate-calculator/internal/plates"
)

var (
	// ErrInvalidDenominations indicates the provided plate set violates validation rules.
	ErrInvalidDenominations = errors.New("plate set must contain between 1 and 10 plate weights of at least 0.01")
)

// Storage provides access to the plate denominations used by the resolver.
type Storage interface {
	GetDenominations() ([]float64, error)
	SetDenominations(denominations []float64) error
}

// MemoryStorage keeps the plate set in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu            sync.RWMutex
	denominations []float64
}

// NewMemoryStorage initialises storage with the standard plate set.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		denominations: plates.DefaultDenominations(),
	}
}

// GetDenominations returns a copy of the current plate set, heaviest first.
func (s *MemoryStorage) GetDenominations() ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.denominations), nil
}

// SetDenominations validates, normalises, and stores the provided plate set.
func (s *MemoryStorage) SetDenominations(denominations []float64) error {
	normalized, err := plates.NormalizeDenominations(denominations)
	if err != nil {
		return ErrInvalidDenominations
	}

	s.mu.Lock()
	s.denominations = normalized
	s.mu.Unlock()

	return nil
}
