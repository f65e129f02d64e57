package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestReadConfigMissing(t *testing.T) {
	cfg, err := readConfig(filepath.Join(t.TempDir(), "smm.json5"))
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestMergeFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smm.json5")
	err := os.WriteFile(path, []byte(`{
		// shared settings
		domain: "smm.example.org",
		unit: "organizations",
		attempts: 5,
	}`), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "smm.local.json5"), []byte(`{api_key: "secret"}`), 0644)
	require.NoError(t, err)

	fileConfig, err := readConfig(path)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		args     []string
		expected Config
	}{
		{
			name: "file values win over defaults",
			expected: Config{
				Protocol: "http",
				Domain:   "smm.example.org",
				Unit:     "organizations",
				ApiKey:   "secret",
				Attempts: 5,
			},
		},
		{
			name: "explicit flags win over file values",
			args: []string{"--unit", "politicians", "--attempts", "1", "--username", "u"},
			expected: Config{
				Protocol: "http",
				Domain:   "smm.example.org",
				Unit:     "politicians",
				Username: "u",
				ApiKey:   "secret",
				Attempts: 1,
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			values := Config{}
			bindConfigFlags(flags, &values)
			require.NoError(t, flags.Parse(test.args))

			require.Equal(t, test.expected, mergeFlags(fileConfig, flags, values))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, Config{Unit: "politicians"}.validate())
	require.NoError(t, Config{Unit: "organizations"}.validate())
	require.Error(t, Config{Unit: "parties"}.validate())
}

func TestConfigOptions(t *testing.T) {
	opts := Config{Unit: "organizations", Domain: "d", Attempts: 3, IdColumn: "org"}.options()
	require.Equal(t, "organizations", opts.Unit)
	require.Equal(t, "d", opts.Domain)
	require.Equal(t, 3, opts.Attempts)
	require.Equal(t, "org", opts.IdColumn)
}
