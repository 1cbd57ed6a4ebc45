package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/blob-poster/internal/output"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func defaultFlags(home string) Flags {
	return Flags{
		Home:           home,
		LogLevel:       DefaultLogLevel,
		Network:        "mocha",
		KeyringBackend: DefaultKeyringBackend,
		WaitTimeout:    DefaultWaitTimeout,
		SignTimeout:    DefaultSignTimeout,
		Gas:            DefaultGas,
	}
}

// newTestCommand mirrors the persistent flags of the root command.
func newTestCommand(f *Flags) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	fs := cmd.Flags()
	fs.StringVar(&f.Home, "home", f.Home, "")
	fs.BoolVar(&f.NoColor, "no-color", f.NoColor, "")
	fs.BoolVar(&f.Verbose, "verbose", f.Verbose, "")
	fs.BoolVar(&f.JSON, "json", f.JSON, "")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "")
	fs.StringVar(&f.Network, "network", f.Network, "")
	fs.StringVar(&f.ChainFile, "chain-file", f.ChainFile, "")
	fs.StringVar(&f.REST, "rest", f.REST, "")
	fs.StringVar(&f.RPC, "rpc", f.RPC, "")
	fs.StringVar(&f.KeyringBackend, "keyring-backend", f.KeyringBackend, "")
	fs.StringVar(&f.KeyringDir, "keyring-dir", f.KeyringDir, "")
	fs.StringVar(&f.KeyName, "key", f.KeyName, "")
	fs.BoolVar(&f.Yes, "yes", f.Yes, "")
	fs.DurationVar(&f.WaitTimeout, "wait-timeout", f.WaitTimeout, "")
	fs.DurationVar(&f.SignTimeout, "sign-timeout", f.SignTimeout, "")
	fs.Uint64Var(&f.Gas, "gas", f.Gas, "")
	fs.StringVar(&f.GasPrice, "gas-price", f.GasPrice, "")
	return cmd
}

func TestLoadFileConfig_NoFiles(t *testing.T) {
	cfg, path, err := NewConfigLoader(t.TempDir(), "", nil).LoadFileConfig()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, cfg.IsEmpty())
}

func TestLoadFileConfig_ExplicitOverridesHome(t *testing.T) {
	home := t.TempDir()
	writeFile(t, home, ConfigFileName, `
network = "celestia"
gas = 150000
yes = true
`)
	explicit := writeFile(t, t.TempDir(), "custom.toml", `
network = "mocha"
gas_price = "0.04"
`)

	cfg, path, err := NewConfigLoader(home, explicit, nil).LoadFileConfig()
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	require.NotNil(t, cfg.Network)
	assert.Equal(t, "mocha", *cfg.Network)
	require.NotNil(t, cfg.Gas)
	assert.Equal(t, uint64(150000), *cfg.Gas)
	require.NotNil(t, cfg.Yes)
	assert.True(t, *cfg.Yes)
	require.NotNil(t, cfg.GasPrice)
	assert.Equal(t, "0.04", *cfg.GasPrice)
}

func TestLoadFileConfig_MissingExplicit(t *testing.T) {
	_, _, err := NewConfigLoader(t.TempDir(), "/does/not/exist.toml", nil).LoadFileConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadFileConfig_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{"malformed", `network = `, "failed to parse config file"},
		{"bad backend", `keyring_backend = "vault"`, "unsupported keyring backend"},
		{"bad log level", `log_level = "loud"`, "invalid log level"},
		{"bad duration", `sign_timeout = "soon"`, "invalid sign_timeout"},
		{"negative duration", `wait_timeout = "-1s"`, "must not be negative"},
		{"zero gas", `gas = 0`, "invalid gas"},
		{"bad gas price", `gas_price = "abc"`, "invalid gas_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "c.toml", tt.content)
			_, _, err := NewConfigLoader(t.TempDir(), path, nil).LoadFileConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadFileConfig_WarnsUnknownKeys(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := output.NewLoggerWithWriters(&out, &errOut)
	logger.SetNoColor(true)

	path := writeFile(t, t.TempDir(), "c.toml", "validators = 4\nnetwork = \"mocha\"\n")
	_, _, err := NewConfigLoader(t.TempDir(), path, logger).LoadFileConfig()
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Unknown config key in "+path+": validators")
}

func TestUnknownKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, unknownKeys([]byte("b = 1\nnetwork = \"x\"\na = 2\n")))
	assert.Nil(t, unknownKeys([]byte("=")))
}

func TestResolve_Priority(t *testing.T) {
	flags := defaultFlags("/default/home")
	cmd := newTestCommand(&flags)
	require.NoError(t, cmd.ParseFlags([]string{"--gas", "90000", "--key", "alice"}))

	network := "celestia"
	backend := "file"
	gasPrice := "0.04"
	gas := uint64(120000)
	yes := true
	wait := "10s"
	fileCfg := &FileConfig{
		Network:        &network,
		KeyringBackend: &backend,
		GasPrice:       &gasPrice,
		Gas:            &gas,
		Yes:            &yes,
		WaitTimeout:    &wait,
	}
	env := map[string]string{
		EnvHome:           "/env/home",
		EnvKeyringBackend: "os",
		EnvNoColor:        "1",
	}

	cfg, err := Resolve(cmd, flags, fileCfg, func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, StringValue{Value: "/env/home", Source: SourceEnvironment}, cfg.Home)
	assert.Equal(t, StringValue{Value: "celestia", Source: SourceConfigFile}, cfg.Network)
	assert.Equal(t, StringValue{Value: "os", Source: SourceEnvironment}, cfg.KeyringBackend)
	assert.Equal(t, StringValue{Value: "0.04", Source: SourceConfigFile}, cfg.GasPrice)
	assert.Equal(t, Uint64Value{Value: 90000, Source: SourceFlag}, cfg.Gas)
	assert.Equal(t, StringValue{Value: "alice", Source: SourceFlag}, cfg.KeyName)
	assert.Equal(t, BoolValue{Value: true, Source: SourceConfigFile}, cfg.Yes)
	assert.Equal(t, BoolValue{Value: true, Source: SourceEnvironment}, cfg.NoColor)
	assert.Equal(t, DurationValue{Value: 10 * time.Second, Source: SourceConfigFile}, cfg.WaitTimeout)
	assert.Equal(t, DurationValue{Value: DefaultSignTimeout, Source: SourceDefault}, cfg.SignTimeout)
	assert.Equal(t, StringValue{Value: DefaultLogLevel, Source: SourceDefault}, cfg.LogLevel)

	assert.Equal(t, filepath.Join("/env/home", "keyring"), cfg.KeyringDir())
	assert.Equal(t, filepath.Join("/env/home", "data"), cfg.DataDir())
	require.NoError(t, cfg.Validate())
}

func TestResolve_FlagBeatsEnv(t *testing.T) {
	flags := defaultFlags("/default/home")
	cmd := newTestCommand(&flags)
	require.NoError(t, cmd.ParseFlags([]string{"--home", "/flag/home", "--network", "mocha"}))

	cfg, err := Resolve(cmd, flags, nil, func(k string) string {
		return map[string]string{EnvHome: "/env/home", EnvNetwork: "celestia"}[k]
	})
	require.NoError(t, err)
	assert.Equal(t, StringValue{Value: "/flag/home", Source: SourceFlag}, cfg.Home)
	assert.Equal(t, StringValue{Value: "mocha", Source: SourceFlag}, cfg.Network)
}

func TestResolve_InvalidDuration(t *testing.T) {
	flags := defaultFlags("/h")
	cmd := newTestCommand(&flags)
	bad := "later"

	_, err := Resolve(cmd, flags, &FileConfig{SignTimeout: &bad}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sign-timeout")
}

func TestEffectiveConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *EffectiveConfig)
		errContains string
	}{
		{"defaults", func(*EffectiveConfig) {}, ""},
		{"no home", func(c *EffectiveConfig) { c.Home.Value = "" }, "home directory is required"},
		{"bad log level", func(c *EffectiveConfig) { c.LogLevel.Value = "trace" }, "invalid log level"},
		{"no network", func(c *EffectiveConfig) { c.Network.Value = "" }, "network is required"},
		{"chain file only", func(c *EffectiveConfig) { c.Network.Value = ""; c.ChainFile.Value = "chain.yaml" }, ""},
		{"bad backend", func(c *EffectiveConfig) { c.KeyringBackend.Value = "kwallet" }, "unsupported keyring backend"},
		{"zero gas", func(c *EffectiveConfig) { c.Gas.Value = 0 }, "invalid gas"},
		{"bad gas price", func(c *EffectiveConfig) { c.GasPrice.Value = "1e5" }, "invalid gas price format"},
		{"negative timeout", func(c *EffectiveConfig) { c.SignTimeout.Value = -time.Second }, "invalid sign_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewEffectiveConfig("/home/user/.blob-poster")
			tt.mutate(c)
			err := c.Validate()
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestEffectiveConfig_ToTable(t *testing.T) {
	c := NewEffectiveConfig("/h")
	c.KeyName = StringValue{Value: "alice", Source: SourceFlag}

	var buf bytes.Buffer
	c.ToTable(&buf)
	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "network")
	assert.Contains(t, out, "mocha")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, filepath.Join("/h", "keyring"))

	m := c.ToMap()
	assert.Equal(t, "alice", m["key_name"])
	assert.Equal(t, "5m0s", m["sign_timeout"])
	assert.Equal(t, DefaultGas, m["gas"])
}

func TestConfigWriter_RoundTrip(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested")
	w := NewConfigWriter(home)
	assert.False(t, w.Exists())

	network := "celestia"
	gas := uint64(250000)
	yes := true
	require.NoError(t, w.Write(&FileConfig{Network: &network, Gas: &gas, Yes: &yes}))
	assert.True(t, w.Exists())

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "# blob-poster configuration file")
	assert.Contains(t, string(data), "# keyring_backend = \"test\"")

	var parsed FileConfig
	require.NoError(t, toml.Unmarshal(data, &parsed))
	require.NotNil(t, parsed.Network)
	assert.Equal(t, "celestia", *parsed.Network)
	require.NotNil(t, parsed.Gas)
	assert.Equal(t, uint64(250000), *parsed.Gas)
	require.NotNil(t, parsed.Yes)
	assert.True(t, *parsed.Yes)
	assert.Nil(t, parsed.KeyringBackend)
	assert.Empty(t, unknownKeys(data))

	cfg, _, err := NewConfigLoader(home, "", nil).LoadFileConfig()
	require.NoError(t, err)
	assert.Equal(t, "celestia", *cfg.Network)
}
