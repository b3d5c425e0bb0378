package config

import (
	"errors"
	"fmt"
	"os"

	"go-logsink/internal/models"

	"gopkg.in/yaml.v3"
)

// ErrColumnMapShape is returned when the column map document is not a mapping.
var ErrColumnMapShape = errors.New("column map must be a mapping of field names")

// LoadColumnMapFile reads a YAML (or JSON) column map.
func LoadColumnMapFile(path string) (models.ColumnMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column map file %s: %w", path, err)
	}
	columnMap, err := ParseColumnMap(data)
	if err != nil {
		return nil, fmt.Errorf("column map file %s: %w", path, err)
	}
	return columnMap, nil
}

// ParseColumnMap parses a document such as
//
//	message: msg
//	context:
//	  userId: uid
//
// Entries that are neither a string nor a mapping of strings are kept as
// empty targets, so the matching field is dropped rather than rejected.
func ParseColumnMap(data []byte) (models.ColumnMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrColumnMapShape
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrColumnMapShape
	}

	columnMap := make(models.ColumnMap, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		field, target := root.Content[i].Value, root.Content[i+1]
		columnMap[field] = columnTarget(target)
	}
	return columnMap, nil
}

func columnTarget(n *yaml.Node) models.ColumnTarget {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			return models.ColumnTarget{Column: n.Value}
		}
	case yaml.MappingNode:
		nested := make(map[string]string, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			sub, col := n.Content[i], n.Content[i+1]
			if col.Kind == yaml.ScalarNode && col.ShortTag() == "!!str" {
				nested[sub.Value] = col.Value
			}
		}
		return models.ColumnTarget{Nested: nested}
	}
	return models.ColumnTarget{}
}
