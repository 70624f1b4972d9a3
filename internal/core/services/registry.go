package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// Ensure MapperRegistry implements the interface.
var _ driven.MapperRegistry = (*MapperRegistry)(nil)

// MapperRegistry selects document mappers by data type.
type MapperRegistry struct {
	mu      sync.RWMutex
	mappers map[domain.DataType]driven.DocumentMapper
}

// NewMapperRegistry creates a registry holding the given mappers.
func NewMapperRegistry(mappers ...driven.DocumentMapper) *MapperRegistry {
	r := &MapperRegistry{
		mappers: make(map[domain.DataType]driven.DocumentMapper),
	}
	for _, m := range mappers {
		r.Register(m)
	}
	return r
}

// Register adds a mapper, replacing any previous one for its data type.
func (r *MapperRegistry) Register(m driven.DocumentMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[m.DataType()] = m
}

// Get returns the mapper for a data type.
func (r *MapperRegistry) Get(dt domain.DataType) (driven.DocumentMapper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappers[dt]
	if !ok {
		return nil, fmt.Errorf("%w: no mapper for %s", domain.ErrUnsupportedType, dt)
	}
	return m, nil
}
