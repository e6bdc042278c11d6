package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

func TestLoadKeywords_ParsesLayerMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"travel:\n  - ferry\n  - layover\nhealth:\n  - physio\n"), 0644))

	keywords, err := loadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ferry", "layover"}, keywords[domain.LayerTravel])
	assert.Equal(t, []string{"physio"}, keywords[domain.LayerHealth])
}

func TestLoadKeywords_UnknownLayerErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sports:\n  - tennis\n"), 0644))

	_, err := loadKeywords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown layer "sports"`)
	assert.Contains(t, err.Error(), "travel")
}

func TestLoadKeywords_MalformedYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("travel: [unclosed\n"), 0644))

	_, err := loadKeywords(path)
	assert.Error(t, err)
}

func TestLoadKeywords_MissingFileErrors(t *testing.T) {
	_, err := loadKeywords(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
