package driven

import "github.com/custodia-labs/rootly-sync/internal/core/domain"

// DocumentMapper transforms a source record into a destination document.
// Implementations are pure: the same record always yields the same document.
type DocumentMapper interface {
	// DataType returns the data type this mapper handles.
	DataType() domain.DataType

	// Map converts a record. A record missing required fields yields a
	// *domain.MappingError.
	Map(rec domain.Record) (*domain.Document, error)
}

// MapperRegistry selects the mapper for a data type.
type MapperRegistry interface {
	// Register adds a mapper, replacing any previous one for its data type.
	Register(m DocumentMapper)

	// Get returns the mapper for a data type.
	Get(dt domain.DataType) (DocumentMapper, error)
}
