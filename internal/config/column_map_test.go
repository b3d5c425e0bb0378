package config

import (
	"os"
	"path/filepath"
	"testing"

	"go-logsink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnMap(t *testing.T) {
	doc := `
message: msg
level: level
datetime: created_at
context:
  userId: uid
  ip: client_ip
  bad: 12
extra:
  uid: request_uid
weird: [a, b]
number: 42
`
	got, err := ParseColumnMap([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, models.ColumnMap{
		"message":  {Column: "msg"},
		"level":    {Column: "level"},
		"datetime": {Column: "created_at"},
		"context":  {Nested: map[string]string{"userId": "uid", "ip": "client_ip"}},
		"extra":    {Nested: map[string]string{"uid": "request_uid"}},
		"weird":    {},
		"number":   {},
	}, got)
}

func TestParseColumnMapJSON(t *testing.T) {
	got, err := ParseColumnMap([]byte(`{"message":"msg","context":{"userId":"uid"}}`))
	require.NoError(t, err)
	assert.Equal(t, models.ColumnMap{
		"message": {Column: "msg"},
		"context": {Nested: map[string]string{"userId": "uid"}},
	}, got)
}

func TestParseColumnMapQuotedNumberIsAColumn(t *testing.T) {
	got, err := ParseColumnMap([]byte(`level: "2"`))
	require.NoError(t, err)
	assert.Equal(t, models.ColumnTarget{Column: "2"}, got["level"])
}

func TestParseColumnMapRejectsNonMappings(t *testing.T) {
	for _, doc := range []string{"", "- a\n- b\n", "just text"} {
		_, err := ParseColumnMap([]byte(doc))
		assert.ErrorIs(t, err, ErrColumnMapShape, "doc %q", doc)
	}

	_, err := ParseColumnMap([]byte("message: [unclosed"))
	assert.Error(t, err)
}

func TestLoadColumnMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("message: msg\n"), 0o644))

	got, err := LoadColumnMapFile(path)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnMap{"message": {Column: "msg"}}, got)

	_, err = LoadColumnMapFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
