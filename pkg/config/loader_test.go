package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_ParsesYAML(t *testing.T) {
	t.Setenv("WG_IFACE", "wg7")
	path := writeFile(t, `
wgCommand: sudo wg show
source: device
interface: ${WG_IFACE}
refreshInterval: 30s
fetchTimeout: 2s
templatesDir: /etc/wg-endpoints/templates
port: "9090"
maxConns: 64
`)

	f, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "sudo wg show", f.WGCommand)
	require.Equal(t, "device", f.Source)
	require.Equal(t, "wg7", f.Interface)
	require.Equal(t, "30s", f.RefreshInterval)
	require.Equal(t, "9090", f.Port)
	require.Equal(t, 64, f.MaxConns)
}

func TestLoad_Rejects(t *testing.T) {
	for _, body := range []string{
		"source: carrier-pigeon\n",
		"refreshInterval: soon\n",
		"fetchTimeout: -1s\n",
		"maxConns: -3\n",
		"port: [\n",
	} {
		_, err := Load(writeFile(t, body), zap.NewNop())
		require.Error(t, err, body)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop())
	require.ErrorIs(t, err, os.ErrNotExist)
}
