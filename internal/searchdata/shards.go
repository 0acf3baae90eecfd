package searchdata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultCategory is the index category that holds every symbol.
const DefaultCategory = "all"

// ShardName returns the file name of shard n of category ("all_0.js").
// The generator numbers shards in hex.
func ShardName(category string, n int) string {
	return fmt.Sprintf("%s_%x.js", category, n)
}

// shardNumber extracts n from "<category>_<n>.js", or -1.
func shardNumber(name, category string) int {
	rest, ok := strings.CutPrefix(name, category+"_")
	if !ok {
		return -1
	}
	rest, ok = strings.CutSuffix(rest, ".js")
	if !ok || rest == "" {
		return -1
	}
	n, err := strconv.ParseUint(rest, 16, 31)
	if err != nil {
		return -1
	}
	return int(n)
}

// sortShards orders shard file names by shard number.
func sortShards(names []string, category string) []string {
	type shard struct {
		name string
		n    int
	}
	shards := make([]shard, 0, len(names))
	for _, name := range names {
		if n := shardNumber(path.Base(filepath.ToSlash(name)), category); n >= 0 {
			shards = append(shards, shard{name: name, n: n})
		}
	}
	sort.Slice(shards, func(i, j int) bool { return shards[i].n < shards[j].n })
	out := make([]string, len(shards))
	for i, s := range shards {
		out[i] = s.name
	}
	return out
}

// ShardPaths lists the shard files of category inside dir, in shard order.
func ShardPaths(dir, category string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, category+"_*.js"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s shards: %w", category, err)
	}
	return sortShards(matches, category), nil
}

// LoadShards parses every shard concurrently and concatenates their entries
// in argument order. A key present in two shards is malformed.
func LoadShards(ctx context.Context, paths ...string) (*Table, error) {
	return loadAll(ctx, paths, os.ReadFile)
}

// LoadDir loads every shard of category from fsys. When fsys holds a
// searchdata.js that declares the category, its initials decide which shard
// files exist; otherwise the shards are discovered by name.
func LoadDir(ctx context.Context, fsys fs.FS, category string) (*Table, error) {
	names, err := shardNamesFS(fsys, category)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no %s shards found: %w", category, fs.ErrNotExist)
	}
	return loadAll(ctx, names, func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	})
}

func shardNamesFS(fsys fs.FS, category string) ([]string, error) {
	sections, err := LoadSectionsFS(fsys)
	switch {
	case err == nil:
		if s, ok := FindSection(sections, category); ok {
			return s.ShardNames(), nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	matches, err := fs.Glob(fsys, category+"_*.js")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s shards: %w", category, err)
	}
	return sortShards(matches, category), nil
}

func loadAll(ctx context.Context, names []string, read func(string) ([]byte, error)) (*Table, error) {
	tables := make([]*Table, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := read(name)
			if err != nil {
				return fmt.Errorf("failed to read shard %s: %w", name, err)
			}
			t, err := Parse(data)
			if err != nil {
				return withSource(err, name)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merge(names, tables)
}

// merge concatenates tables in order.
func merge(names []string, tables []*Table) (*Table, error) {
	total := 0
	for _, t := range tables {
		total += t.Len()
	}
	out := &Table{
		entries: make([]IndexEntry, 0, total),
		byKey:   make(map[string]int, total),
	}
	for i, t := range tables {
		for _, e := range t.entries {
			if err := out.add(e); err != nil {
				return nil, withSource(err, names[i])
			}
		}
	}
	return out, nil
}
