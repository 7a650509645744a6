package steam

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andygrunwald/vdf"
)

// AppManifest is the subset of an appmanifest_<id>.acf file we use.
type AppManifest struct {
	AppID      string
	Name       string
	StateFlags string
	InstallDir string
}

// stateFullyInstalled is the StateFlags value of a fully installed, up-to-date app.
const stateFullyInstalled = "4"

// Installed reports whether the manifest describes a complete installation.
func (m AppManifest) Installed() bool {
	return m.AppID != "" && m.Name != "" && m.StateFlags == stateFullyInstalled
}

func parseKeyValues(r io.Reader) (map[string]interface{}, error) {
	m, err := vdf.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse key-values: %w", err)
	}
	return m, nil
}

// section returns the child map named key, matching case-insensitively.
func section(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			sub, ok := v.(map[string]interface{})
			return sub, ok
		}
	}
	return nil, false
}

// value returns the string value named key, matching case-insensitively.
func value(m map[string]interface{}, key string) string {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// ParseAppManifest reads an AppState block.
func ParseAppManifest(r io.Reader) (AppManifest, error) {
	kv, err := parseKeyValues(r)
	if err != nil {
		return AppManifest{}, err
	}
	state, ok := section(kv, "AppState")
	if !ok {
		return AppManifest{}, fmt.Errorf("missing AppState section")
	}
	return AppManifest{
		AppID:      value(state, "appid"),
		Name:       value(state, "name"),
		StateFlags: value(state, "StateFlags"),
		InstallDir: value(state, "installdir"),
	}, nil
}

// ParseLibraryFolders returns the library paths listed in libraryfolders.vdf.
// Both the current layout ("0" { "path" "..." }) and the legacy one
// ("1" "/path") are understood.
func ParseLibraryFolders(r io.Reader) ([]string, error) {
	kv, err := parseKeyValues(r)
	if err != nil {
		return nil, err
	}
	folders, ok := section(kv, "libraryfolders")
	if !ok {
		return nil, fmt.Errorf("missing libraryfolders section")
	}

	var paths []string
	for _, key := range sortedKeys(folders) {
		switch v := folders[key].(type) {
		case map[string]interface{}:
			if p := value(v, "path"); p != "" {
				paths = append(paths, p)
			}
		case string:
			if isIndex(key) && v != "" {
				paths = append(paths, v)
			}
		}
	}
	return paths, nil
}

func parseManifestFile(path string) (AppManifest, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from a steamapps listing
	if err != nil {
		return AppManifest{}, err
	}
	defer func() { _ = f.Close() }()
	return ParseAppManifest(f)
}

func parseLibraryFoldersFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path under the Steam root
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseLibraryFolders(f)
}
