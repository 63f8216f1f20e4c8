package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/firewatch/internal/infrastructure/storage/storagetest"
)

func setup(t *testing.T) (string, *storagetest.Fixture) {
	t.Helper()
	fx := storagetest.New(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	raw := fmt.Sprintf(`storage:
  path: %s
ai:
  api_key: sk-test-secret
  api_key_env: FIREWATCH_CLI_TEST_KEY
  backends: [direct_api]
  base_url: http://127.0.0.1:1
  probe_timeout: 1
incident:
  name: Pine Ridge National Forest Wildfire
  acres_burned: 15750
  containment_percent: 25
logging:
  level: error
`, fx.Path)
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0o600))
	t.Setenv("FIREWATCH_CLI_TEST_KEY", "")
	return cfgPath, fx
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd(Options{})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestAsk_FallsBackWhenBackendUnreachable(t *testing.T) {
	cfg, _ := setup(t)

	out, errOut, err := run(t, "--config", cfg, "ask", "--trace", "what", "is", "the", "fire", "situation?")
	require.NoError(t, err)

	assert.Contains(t, out, "15,750 acres burned")
	assert.Contains(t, errOut, "backend: Local fallback")
	assert.NotContains(t, out+errOut, "sk-test-secret")
}

func TestRootArgsAreAQuestion(t *testing.T) {
	cfg, _ := setup(t)

	out, _, err := run(t, "--config", cfg, "containment", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "25% contained")
}

func TestView_JSONAndMarkdown(t *testing.T) {
	cfg, fx := setup(t)
	fx.AddLocation(t, "Pine Ridge Township", 2400, 39.25, -120.12)

	out, _, err := run(t, "--config", cfg, "view", "search", "Pine", "--json")
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Contains(t, result, "summary")

	out, _, err = run(t, "--config", cfg, "view", "zones")
	require.NoError(t, err)
	assert.Contains(t, out, "Fire Zones")

	_, _, err = run(t, "--config", cfg, "view", "weather")
	require.Error(t, err)

	_, _, err = run(t, "--config", cfg, "view", "search")
	require.Error(t, err)
}

func TestSQL_RejectsWrites(t *testing.T) {
	cfg, fx := setup(t)
	fx.AddOrganisation(t, "CAL FIRE", "CF")

	out, _, err := run(t, "--config", cfg, "sql", "SELECT name FROM org_organisation")
	require.NoError(t, err)
	assert.Contains(t, out, "CAL FIRE")

	out, _, err = run(t, "--config", cfg, "sql", "DELETE FROM org_organisation")
	require.NoError(t, err)
	assert.Contains(t, out, "Only SELECT queries are allowed")
}

func TestConfig_ShowRedactsAndPath(t *testing.T) {
	cfg, _ := setup(t)

	out, _, err := run(t, "--config", cfg, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "sk-test-secret")
	assert.Contains(t, out, "[redacted]")

	out, _, err = run(t, "--config", cfg, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfg+"\n", out)

	out, _, err = run(t, "--config", cfg, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
}

func TestDoctor_ReportsChecks(t *testing.T) {
	cfg, _ := setup(t)

	out, _, _ := run(t, "--config", cfg, "doctor")

	assert.Contains(t, out, "[OK] Config file")
	assert.Contains(t, out, "[OK] Storage")
	assert.Contains(t, out, "Probe Direct HTTP API")
	assert.NotContains(t, out, "sk-test-secret")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "firewatch version")
}
