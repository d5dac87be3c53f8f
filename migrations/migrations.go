// Package migrations holds the versioned Postgres schema. Files are named
// NNNN_name.up.sql and applied in version order by cmd/migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed *.up.sql
var files embed.FS

var ErrBadName = errors.New("migration file name must look like NNNN_name.up.sql")

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Load returns every embedded migration sorted by version.
func Load() ([]Migration, error) {
	return load(files)
}

func load(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]string, len(names))
	out := make([]Migration, 0, len(names))
	for _, name := range names {
		version, label, err := parseName(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, name)
		}
		seen[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Version: version, Name: label, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func parseName(name string) (int, string, error) {
	base := strings.TrimSuffix(name, ".up.sql")
	num, label, ok := strings.Cut(base, "_")
	if !ok || label == "" {
		return 0, "", ErrBadName
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return 0, "", ErrBadName
	}
	return version, label, nil
}

// Pending filters out the versions already recorded as applied.
func Pending(all []Migration, applied map[int]bool) []Migration {
	var out []Migration
	for _, m := range all {
		if !applied[m.Version] {
			out = append(out, m)
		}
	}
	return out
}
