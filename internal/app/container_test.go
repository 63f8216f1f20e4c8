package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/infrastructure/storage/storagetest"
)

func writeConfig(t *testing.T, storagePath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := fmt.Sprintf(`storage:
  path: %s
ai:
  api_key_env: FIREWATCH_TEST_KEY
incident:
  name: Test Incident
  acres_burned: 900
  containment_percent: 40
menu:
  base:
    - label: Disease Tracking
  fire:
    label: Fire Stations
`, storagePath)
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	return path
}

func TestBuildContainer_OfflineFallback(t *testing.T) {
	fx := storagetest.New(t)
	t.Setenv("FIREWATCH_TEST_KEY", "")

	c, err := BuildContainer(context.Background(), Options{ConfigPath: writeConfig(t, fx.Path)})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	assert.True(t, c.Credential.Empty())
	assert.Len(t, c.Selector.Candidates, 3)

	sel := c.SelectBackend(context.Background())
	assert.Equal(t, domain.ModeFallback, sel.Mode)
	assert.Empty(t, sel.Attempts)

	router := c.NewRouter(sel)
	out := router.Query(context.Background(), "current fire situation")
	assert.Contains(t, out, "Test Incident")
	assert.Contains(t, out, "900 acres burned")

	items := c.Menu()
	require.Len(t, items, 2)
	assert.Equal(t, "Fire Stations", items[0].Label)
}

func TestBuildContainer_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("incident:\n  containment_percent: 140\n"), 0o600))

	_, err := BuildContainer(context.Background(), Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "containment_percent")
}
