package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

var errNotKVStore = errors.New("destination exists and is not a kv store")

// kvSink stores one key per description in a pebble directory. The store is
// destroyed and recreated on every Replace.
type kvSink struct {
	dir string
}

func (s *kvSink) Name() string        { return sinkKV }
func (s *kvSink) Destination() string { return s.dir }

func (s *kvSink) Replace(ctx context.Context, tags tagURLs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := destroyKVStore(s.dir); err != nil {
		return err
	}
	db, err := pebble.Open(s.dir, &pebble.Options{
		ErrorIfExists: true,
		Logger:        pebbleLogger{l: logger},
	})
	if err != nil {
		return fmt.Errorf("failed to create kv store %s: %w", s.dir, err)
	}
	defer db.Close()

	b := db.NewBatch()
	defer b.Close()
	for _, desc := range sortedKeys(tags) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.Set([]byte(desc), []byte(joinURLs(tags[desc])), nil); err != nil {
			return fmt.Errorf("put %q failed for %s: %w", desc, s.dir, err)
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit failed for %s: %w", s.dir, err)
	}
	return nil
}

func (s *kvSink) Load(_ context.Context) (tagURLs, error) {
	db, err := pebble.Open(s.dir, &pebble.Options{
		ErrorIfNotExists: true,
		ReadOnly:         true,
		Logger:           pebbleLogger{l: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open kv store %s: %w", s.dir, err)
	}
	defer db.Close()

	iter, err := db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate kv store %s: %w", s.dir, err)
	}
	out := make(tagURLs)
	for iter.First(); iter.Valid(); iter.Next() {
		out[string(iter.Key())] = splitURLs(string(iter.Value()))
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv store %s: %w", s.dir, err)
	}
	return out, nil
}

// destroyKVStore removes a previous store at dir. A missing or empty
// directory is fine; anything else without a pebble manifest is left alone
// and reported.
func destroyKVStore(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat kv store %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", errNotKVStore, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read kv store %s: %w", dir, err)
	}
	if len(entries) > 0 {
		manifests, err := filepath.Glob(filepath.Join(dir, pebbleManifestGlob))
		if err != nil || len(manifests) == 0 {
			return fmt.Errorf("%w: %s has no %s file", errNotKVStore, dir, pebbleManifestGlob)
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to destroy kv store %s: %w", dir, err)
	}
	return nil
}
