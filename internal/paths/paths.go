// Package paths provides centralized path management for blob-poster.
package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Directory constants relative to home directory.
const (
	KeyringDir = "keyring"
	DataDir    = "data"
	ChainsDir  = "chains"
)

// ConfigFile is the config file name inside the home directory.
const ConfigFile = "config.toml"

const DefaultHomeDirName = ".blob-poster"

// chainFileExts are the extensions picked up from the chains directory.
var chainFileExts = []string{".yaml", ".yml"}

// DefaultHomeDir returns $HOME/.blob-poster or falls back to current directory.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHomeDirName
	}
	return filepath.Join(home, DefaultHomeDirName)
}

func ConfigPath(homeDir string) string {
	return filepath.Join(homeDir, ConfigFile)
}

func KeyringPath(homeDir string) string {
	return filepath.Join(homeDir, KeyringDir)
}

// DataPath holds the wallet's registered-chain store.
func DataPath(homeDir string) string {
	return filepath.Join(homeDir, DataDir)
}

// ChainsPath holds user chain descriptors that are registered at startup.
func ChainsPath(homeDir string) string {
	return filepath.Join(homeDir, ChainsDir)
}

// ChainFiles lists the descriptor files in the chains directory, sorted by
// name. A missing directory yields no files.
func ChainFiles(homeDir string) ([]string, error) {
	entries, err := os.ReadDir(ChainsPath(homeDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isChainFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(ChainsPath(homeDir), e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isChainFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range chainFileExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Path existence helpers

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
