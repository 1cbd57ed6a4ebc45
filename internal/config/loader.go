package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/paths"
)

// ConfigFileName is the config file looked up in the home and working directories.
const ConfigFileName = paths.ConfigFile

// ConfigLoader is responsible for loading and merging configuration.
type ConfigLoader struct {
	homeDir    string
	configPath string // Explicit --config path
	logger     output.Notifier
}

// NewConfigLoader creates a new ConfigLoader.
func NewConfigLoader(homeDir, configPath string, logger output.Notifier) *ConfigLoader {
	return &ConfigLoader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// candidates returns existing config files in order of increasing priority:
// <home>/config.toml, ./config.toml, then the explicit --config path.
func (l *ConfigLoader) candidates() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		files = append(files, path)
	}

	if l.homeDir != "" {
		homePath := paths.ConfigPath(l.homeDir)
		if _, err := os.Stat(homePath); err == nil {
			add(homePath)
		}
	}

	localPath := "./" + ConfigFileName
	if _, err := os.Stat(localPath); err == nil {
		add(localPath)
	}

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", l.configPath)
		}
		add(l.configPath)
	}

	return files, nil
}

// LoadFileConfig loads and parses config files, merging them in priority order.
// Priority: explicit path > ./config.toml > <home>/config.toml
// Returns the merged FileConfig and the highest priority config file path.
func (l *ConfigLoader) LoadFileConfig() (*FileConfig, string, error) {
	configFiles, err := l.candidates()
	if err != nil {
		return nil, "", err
	}
	if len(configFiles) == 0 {
		return &FileConfig{}, "", nil
	}

	var merged FileConfig
	var primaryFile string
	for _, configFile := range configFiles {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}

		mergeFileConfig(&merged, &cfg)
		primaryFile = configFile
		l.warnUnknownKeys(configFile, data)

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", configFile)
		}
	}

	if err := ValidateFileConfig(&merged); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}

	return &merged, primaryFile, nil
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
func mergeFileConfig(dst, src *FileConfig) {
	mergeString(&dst.Home, src.Home)
	mergeBool(&dst.NoColor, src.NoColor)
	mergeBool(&dst.Verbose, src.Verbose)
	mergeBool(&dst.JSON, src.JSON)
	mergeString(&dst.LogLevel, src.LogLevel)
	mergeString(&dst.Network, src.Network)
	mergeString(&dst.ChainFile, src.ChainFile)
	mergeString(&dst.REST, src.REST)
	mergeString(&dst.RPC, src.RPC)
	mergeString(&dst.KeyringBackend, src.KeyringBackend)
	mergeString(&dst.KeyringDir, src.KeyringDir)
	mergeString(&dst.KeyName, src.KeyName)
	mergeBool(&dst.Yes, src.Yes)
	mergeString(&dst.WaitTimeout, src.WaitTimeout)
	mergeString(&dst.SignTimeout, src.SignTimeout)
	mergeString(&dst.GasPrice, src.GasPrice)
	if src.Gas != nil {
		dst.Gas = src.Gas
	}
}

func mergeString(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}

func mergeBool(dst **bool, src *bool) {
	if src != nil {
		*dst = src
	}
}

// warnUnknownKeys checks for unknown keys in the config file and logs warnings.
func (l *ConfigLoader) warnUnknownKeys(path string, data []byte) {
	if l.logger == nil {
		return
	}
	for _, key := range unknownKeys(data) {
		l.logger.Warn("Unknown config key in %s: %s", path, key)
	}
}

// unknownKeys returns the sorted top-level keys of data that FileConfig does not know.
func unknownKeys(data []byte) []string {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil // main parsing reports the error
	}

	var unknown []string
	for key := range raw {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}
