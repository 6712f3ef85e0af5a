package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sinkDestination(dir, kind string) string {
	switch kind {
	case sinkText:
		return filepath.Join(dir, "tags.txt")
	case sinkSQLite:
		return filepath.Join(dir, "db", "tags.sqlite")
	default:
		return filepath.Join(dir, "tags.kv")
	}
}

func TestSinksRoundTrip(t *testing.T) {
	tags := tagURLs{
		"Cat":  set("http://u1", "http://u2"),
		"Dog":  set("http://u3"),
		"Bird": set("http://u4"),
	}

	for _, kind := range []string{sinkText, sinkSQLite, sinkKV} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			sink, err := newSink(kind, sinkDestination(t.TempDir(), kind))
			require.NoError(t, err)
			assert.Equal(t, kind, sink.Name())

			require.NoError(t, sink.Replace(ctx, tags))
			got, err := sink.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tags, got)
		})
	}
}

func TestSinksReplaceLeavesNoResidue(t *testing.T) {
	first := tagURLs{
		"Cat": set("http://u1"),
		"Dog": set("http://u2"),
		"Fox": set("http://u5", "http://u6"),
	}
	second := tagURLs{
		"Cat": set("http://u9"),
	}

	for _, kind := range []string{sinkText, sinkSQLite, sinkKV} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			sink, err := newSink(kind, sinkDestination(t.TempDir(), kind))
			require.NoError(t, err)

			require.NoError(t, sink.Replace(ctx, first))
			require.NoError(t, sink.Replace(ctx, second))

			got, err := sink.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, second, got)
		})
	}
}

func TestNewSinkUnknown(t *testing.T) {
	_, err := newSink("csv", "out")
	assert.ErrorIs(t, err, errUsage)
}

func TestTextSinkFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.txt")
	sink := &textSink{path: path}
	tags := tagURLs{
		"Dog": set("http://u3"),
		"Cat": set("http://u2", "http://u1"),
	}

	require.NoError(t, sink.Replace(context.Background(), tags))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Cat:http://u1,http://u2\nDog:http://u3\n", string(first))

	require.NoError(t, sink.Replace(context.Background(), tags))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTextSinkLoadMalformed(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "tags.txt", "Cat:http://u1\n", "no separator here\n")
	_, err := (&textSink{path: path}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestSQLiteSinkSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.sqlite")
	sink := &sqliteSink{path: path}
	require.NoError(t, sink.Replace(context.Background(), tagURLs{"Cat": set("http://u2", "http://u1")}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var ddl string
	require.NoError(t, db.QueryRow(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, tagsTable).Scan(&ddl))
	assert.Contains(t, ddl, "tag TEXT PRIMARY KEY")
	assert.Contains(t, ddl, "urls TEXT")

	var urls string
	require.NoError(t, db.QueryRow(`SELECT urls FROM tags WHERE tag = ?`, "Cat").Scan(&urls))
	assert.Equal(t, "http://u1,http://u2", urls)
}

func TestSQLiteSinkLoadMissing(t *testing.T) {
	_, err := (&sqliteSink{path: filepath.Join(t.TempDir(), "missing.sqlite")}).Load(context.Background())
	assert.Error(t, err)
}

func TestKVSinkRefusesForeignDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	keep := writeFixture(t, dir, "holiday.jpg", "not a database")

	err := (&kvSink{dir: dir}).Replace(context.Background(), tagURLs{"Cat": set("http://u1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotKVStore)
	_, statErr := os.Stat(keep)
	assert.NoError(t, statErr)
}

func TestKVSinkRefusesFile(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "tags.kv", "plain file")
	err := (&kvSink{dir: path}).Replace(context.Background(), tagURLs{"Cat": set("http://u1")})
	assert.ErrorIs(t, err, errNotKVStore)
}

func TestKVSinkAcceptsEmptyDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tags.kv")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	sink := &kvSink{dir: dir}

	require.NoError(t, sink.Replace(context.Background(), tagURLs{"Cat": set("http://u1")}))
	got, err := sink.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tagURLs{"Cat": set("http://u1")}, got)
}

func TestSinkReplaceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &textSink{path: filepath.Join(t.TempDir(), "tags.txt")}
	err := sink.Replace(ctx, tagURLs{"Cat": set("http://u1")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKVSinkCancelledKeepsPreviousStore(t *testing.T) {
	sink := &kvSink{dir: filepath.Join(t.TempDir(), "tags.kv")}
	prior := tagURLs{"Cat": set("http://u1")}
	require.NoError(t, sink.Replace(context.Background(), prior))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sink.Replace(ctx, tagURLs{"Dog": set("http://u3")})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := sink.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, prior, got)
}
