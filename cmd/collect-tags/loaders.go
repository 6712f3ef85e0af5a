package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// withTagDictionary loads tag_id -> description and hands it to fn. The map
// is cleared when fn returns and must not be retained.
func withTagDictionary(path string, fn func(tags map[string]string) error) error {
	tags, err := loadTagDictionary(path)
	if err != nil {
		return err
	}
	defer clear(tags)
	return fn(tags)
}

// withImageURLs loads image_id -> url and hands it to fn. Same lifetime rules
// as withTagDictionary.
func withImageURLs(path string, fn func(urls map[string]string) error) error {
	urls, err := loadImageURLs(path)
	if err != nil {
		return err
	}
	defer clear(urls)
	return fn(urls)
}

func loadTagDictionary(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer f.Close()

	tags := make(map[string]string)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		tag, desc, err := parseDictionaryLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("failed to parse dictionary %s line %d: %w", path, line, err)
		}
		tags[tag] = desc
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}
	return tags, nil
}

// parseDictionaryLine splits `"tag","description"`. There is no support for
// escaped quotes or extra fields.
func parseDictionaryLine(raw string) (string, string, error) {
	parts := strings.Split(strings.TrimRight(raw, " \t\r\n"), dictFieldSeparator)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected 2 quoted fields, got %d", len(parts))
	}
	return strings.TrimPrefix(parts[0], `"`), strings.TrimSuffix(parts[1], `"`), nil
}

func loadImageURLs(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("metadata %s: missing header line", path)
		}
		return nil, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}

	urls := make(map[string]string)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata %s: %w", path, err)
		}
		if len(rec) < metaMinFields {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("failed to parse metadata %s line %d: expected at least %d fields, got %d", path, line, metaMinFields, len(rec))
		}
		urls[rec[0]] = rec[2]
	}
	return urls, nil
}
