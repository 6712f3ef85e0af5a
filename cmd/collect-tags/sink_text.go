package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// textSink writes one "description:url1,url2" line per tag. Colons and commas
// inside descriptions or URLs are not escaped.
type textSink struct {
	path string
}

func (s *textSink) Name() string        { return sinkText }
func (s *textSink) Destination() string { return s.path }

func (s *textSink) Replace(ctx context.Context, tags tagURLs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.path, err)
	}
	w := bufio.NewWriter(f)
	for _, desc := range sortedKeys(tags) {
		if err := ctx.Err(); err != nil {
			_ = f.Close()
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", desc, textSeparator, joinURLs(tags[desc])); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", s.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.path, err)
	}
	return nil
}

// Load splits each line at its first colon.
func (s *textSink) Load(_ context.Context) (tagURLs, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	out := make(tagURLs)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		desc, urls, ok := strings.Cut(sc.Text(), textSeparator)
		if !ok {
			return nil, fmt.Errorf("%s line %d: missing %q separator", s.path, line, textSeparator)
		}
		out[desc] = splitURLs(urls)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return out, nil
}
