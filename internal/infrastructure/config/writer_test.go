package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), configPath))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var sections []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}
	assert.Equal(t, []string{"[logging]", "[root_flag]", "[signal]", "[store]"}, sections)

	// The written file decodes back to the defaults.
	var decoded Config
	require.NoError(t, toml.Unmarshal(content, &decoded))
	assert.Equal(t, DefaultConfig().Signal.Detectors, decoded.Signal.Detectors)
	assert.Equal(t, StoreBackendSQLite, decoded.Store.Backend)
}

func TestWriteConfigOrdered_Nil(t *testing.T) {
	assert.Error(t, WriteConfigOrdered(nil, filepath.Join(t.TempDir(), "config.toml")))
}

func TestSortTOMLSections(t *testing.T) {
	input := `[store]
backend = 'sqlite'

[logging]
level = 'info'
`
	expected := `[logging]
level = 'info'

[store]
backend = 'sqlite'
`
	assert.Equal(t, expected, sortTOMLSections(input))
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	schema := string(data)
	assert.Contains(t, schema, `"poll_interval_ms"`)
	assert.Contains(t, schema, `"root_flag"`)
	assert.Contains(t, schema, `"prefer-dark"`)
	assert.Contains(t, schema, "Dimmer Configuration")
}

func TestGenerateSchemaFile(t *testing.T) {
	root := isolateXDG(t)

	path, err := GenerateSchemaFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "config", "dimmer", "config.schema.json"), path)
	assert.FileExists(t, path)
}
