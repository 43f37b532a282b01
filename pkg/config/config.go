package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

type Config struct {
	QuickFix QuickFix `yaml:"quickfix"`
	Parse    Parse    `yaml:"parse"`
}

type QuickFix struct {
	// Providers overrides the default enablement of quick fix providers by name.
	Providers map[string]bool `yaml:"providers"`
}

// ProviderEnabled returns the configured state of provider name, or def when
// the configuration does not mention it.
func (q QuickFix) ProviderEnabled(name string, def bool) bool {
	enabled, ok := q.Providers[name]
	if !ok {
		return def
	}
	return enabled
}

type Parse struct {
	LanguageIDs []string `yaml:"language_ids"`
	Extensions  []string `yaml:"extensions"`
}

func (p Parse) IsCppLanguage(languageID string) bool {
	return slices.Contains(p.LanguageIDs, languageID)
}

func (p Parse) IsCppFile(path string) bool {
	return slices.Contains(p.Extensions, strings.ToLower(filepath.Ext(path)))
}

const ConfigFileName = "cppquickfix.config.yaml"

var (
	DefaultLanguageIDs = []string{"c", "cpp", "cuda-cpp", "objective-cpp"}
	DefaultExtensions  = []string{".c", ".cc", ".cpp", ".cxx", ".c++", ".h", ".hh", ".hpp", ".hxx", ".inl"}
)

func Default() *Config {
	return &Config{
		QuickFix: QuickFix{Providers: map[string]bool{}},
		Parse: Parse{
			LanguageIDs: slices.Clone(DefaultLanguageIDs),
			Extensions:  slices.Clone(DefaultExtensions),
		},
	}
}

func NewWithDefaults(_ context.Context, workspacePath string) (*Config, error) {
	f, err := os.ReadFile(filepath.Join(workspacePath, ConfigFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(f, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	if config.QuickFix.Providers == nil {
		config.QuickFix.Providers = map[string]bool{}
	}
	return config, nil
}

var (
	rootIdentifiers       = []string{ConfigFileName, "compile_commands.json", ".git"}
	ErrIdentifierNotFound = errors.New("workspace identifier not found")
	ErrRootNotFound       = errors.New("workspace root not found")
)

func FindWorkspaceRoot(currentPath string) (string, error) {
	for _, id := range rootIdentifiers {
		path, err := findRootIDDir(currentPath, id)
		if errors.Is(err, ErrIdentifierNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrRootNotFound, err)
		}
		return path, nil
	}
	return "", ErrRootNotFound
}

func findRootIDDir(currentPath string, identifier string) (string, error) {
	dirEntries, err := os.ReadDir(currentPath)
	if err != nil {
		return "", err
	}
	found := slices.ContainsFunc(dirEntries, func(entry os.DirEntry) bool {
		return entry.Name() == identifier
	})
	if !found {
		parentDir := filepath.Dir(currentPath)
		if parentDir == currentPath {
			return "", ErrIdentifierNotFound
		}
		return findRootIDDir(parentDir, identifier)
	}
	return currentPath, nil
}
