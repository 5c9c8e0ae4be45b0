package db

import "errors"

// StorageType selects the FT index storage backend.
type StorageType string

// Storage types.
const (
	StorageHash StorageType = "HASH"
	StorageJSON StorageType = "JSON"
)

// IndexFieldType is the FT field type.
type IndexFieldType string

// Index field types.
const (
	IndexFieldTag     IndexFieldType = "TAG"
	IndexFieldText    IndexFieldType = "TEXT"
	IndexFieldNumeric IndexFieldType = "NUMERIC"
	IndexFieldGeo     IndexFieldType = "GEO"
)

// IndexField describes one indexed field. For JSON storage Name is a
// JSONPath and Alias is the attribute name used in queries.
type IndexField struct {
	Name             string
	Alias            string
	Type             IndexFieldType
	TagSeparator     string
	TagCaseSensitive bool
	Sortable         bool
}

// IndexDefinition describes an FT index.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// Validate checks the definition for structural correctness.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required")
		}
		switch f.Type {
		case IndexFieldTag, IndexFieldText, IndexFieldNumeric, IndexFieldGeo:
		default:
			return errors.New("unknown field type " + string(f.Type))
		}
	}
	return nil
}
