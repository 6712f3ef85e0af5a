package main

import (
	"context"
	"fmt"
)

// TagSink persists a description -> urls mapping. Replace always rebuilds the
// destination from scratch; Load reads back whatever Replace wrote.
type TagSink interface {
	Name() string
	Destination() string
	Replace(ctx context.Context, tags tagURLs) error
	Load(ctx context.Context) (tagURLs, error)
}

func newSink(kind, dest string) (TagSink, error) {
	switch kind {
	case sinkText:
		return &textSink{path: dest}, nil
	case sinkSQLite:
		return &sqliteSink{path: dest}, nil
	case sinkKV:
		return &kvSink{dir: dest}, nil
	default:
		return nil, fmt.Errorf("%w: unknown sink %q", errUsage, kind)
	}
}

var _ TagSink = (*textSink)(nil)
var _ TagSink = (*sqliteSink)(nil)
var _ TagSink = (*kvSink)(nil)
