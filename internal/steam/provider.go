// Package steam discovers installed Steam games by reading library metadata on disk.
package steam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"

	"github.com/ryanm101/gameswiki/internal/games"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/tracing"
)

const (
	steamAppsDir       = "steamapps"
	libraryFoldersFile = "libraryfolders.vdf"
	manifestPattern    = "appmanifest_*.acf"
)

// Option configures a Provider.
type Option func(*Provider)

// WithExtraLibraries adds library roots that are not listed in libraryfolders.vdf.
func WithExtraLibraries(paths ...string) Option {
	return func(p *Provider) { p.extra = append(p.extra, paths...) }
}

// WithProgress registers a callback invoked once per manifest read.
func WithProgress(fn func(manifest string)) Option {
	return func(p *Provider) { p.progress = fn }
}

// Provider lists installed games from a Steam installation.
type Provider struct {
	root     string
	extra    []string
	progress func(string)
}

// New creates a provider rooted at the primary Steam directory.
func New(root string, opts ...Option) *Provider {
	p := &Provider{root: root}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ games.Provider = (*Provider)(nil)

// Root returns the primary Steam directory.
func (p *Provider) Root() string {
	return p.root
}

// LibraryPaths returns every existing library root: the primary root first,
// then the entries from libraryfolders.vdf, then configured extras.
// Duplicates and missing directories are dropped.
func (p *Provider) LibraryPaths() []string {
	if !isDir(p.root) {
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(path string) {
		if path == "" {
			return
		}
		clean := filepath.Clean(path)
		if seen[clean] || !isDir(clean) {
			return
		}
		seen[clean] = true
		paths = append(paths, clean)
	}

	add(p.root)

	vdfPath := filepath.Join(p.root, steamAppsDir, libraryFoldersFile)
	listed, err := parseLibraryFoldersFile(vdfPath)
	switch {
	case err == nil:
		for _, path := range listed {
			add(path)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		logging.Warn("failed to read library folders", "path", vdfPath, "error", err)
	}

	for _, path := range p.extra {
		add(path)
	}
	return paths
}

// SteamAppsDirs returns the steamapps directory of every library root.
func (p *Provider) SteamAppsDirs() []string {
	roots := p.LibraryPaths()
	dirs := make([]string, 0, len(roots))
	for _, root := range roots {
		dirs = append(dirs, filepath.Join(root, steamAppsDir))
	}
	return dirs
}

// InstalledGames scans every library for fully installed apps. A missing
// Steam root yields an empty list; an unreadable steamapps directory is an error.
func (p *Provider) InstalledGames(ctx context.Context) ([]games.Game, error) {
	ctx, span := tracing.StartSpan(ctx, "steam.InstalledGames",
		tracing.WithAttributes(attribute.String("steam.root", p.root)),
	)
	defer span.End()

	roots := p.LibraryPaths()
	if len(roots) == 0 {
		logging.Debug("steam root not found", "root", p.root)
		return []games.Game{}, nil
	}

	seen := make(map[string]bool)
	list := []games.Game{}
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
		found, err := p.scanLibrary(filepath.Join(root, steamAppsDir))
		if err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
		for _, g := range found {
			if seen[g.AppID] {
				continue
			}
			seen[g.AppID] = true
			list = append(list, g)
		}
	}

	SortByName(list)
	span.SetAttributes(
		attribute.Int("steam.libraries", len(roots)),
		attribute.Int("steam.games", len(list)),
	)
	logging.Debug("steam scan complete", "libraries", len(roots), "games", len(list))
	return list, nil
}

func (p *Provider) scanLibrary(dir string) ([]games.Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var found []games.Game
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(manifestPattern, entry.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if p.progress != nil {
			p.progress(path)
		}

		m, err := parseManifestFile(path)
		if err != nil {
			logging.Warn("skipping unreadable app manifest", "path", path, "error", err)
			continue
		}
		if !m.Installed() {
			continue
		}
		found = append(found, games.Game{Name: m.Name, AppID: m.AppID})
	}
	return found, nil
}

// SortByName orders games by case-folded name, then by app id.
func SortByName(list []games.Game) {
	fold := cases.Fold()
	keys := make(map[string]string, len(list))
	for _, g := range list {
		if _, ok := keys[g.Name]; !ok {
			keys[g.Name] = fold.String(g.Name)
		}
	}
	slices.SortStableFunc(list, func(a, b games.Game) int {
		if c := strings.Compare(keys[a.Name], keys[b.Name]); c != 0 {
			return c
		}
		return strings.Compare(a.AppID, b.AppID)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isIndex(key string) bool {
	_, err := strconv.Atoi(key)
	return err == nil
}

// sortedKeys orders numeric keys numerically, others after them lexically.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}
