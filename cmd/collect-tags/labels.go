package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var errLabelFields = errors.New("wrong number of label fields")

// collectLabels reads image_id,<source>,tag_id,confidence rows and keeps,
// per tag, the images whose confidence is at least confidenceThreshold.
// The first line is discarded unread.
func collectLabels(path string) (tagIndex, labelStats, error) {
	var stats labelStats
	f, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open labels %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, stats, fmt.Errorf("failed to read labels %s: %w", path, err)
		}
		return nil, stats, fmt.Errorf("labels %s: missing header line", path)
	}

	labels := make(tagIndex)
	line := 1
	for sc.Scan() {
		line++
		stats.rows++
		imageID, tagID, confidence, err := parseLabelLine(sc.Text())
		if err != nil {
			return nil, stats, fmt.Errorf("failed to parse labels %s line %d: %w", path, line, err)
		}
		if !passesThreshold(confidence) {
			stats.dropped++
			continue
		}
		images, ok := labels[tagID]
		if !ok {
			images = make(stringSet)
			labels[tagID] = images
		}
		images.add(imageID)
		stats.retained++
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read labels %s: %w", path, err)
	}
	return labels, stats, nil
}

// parseLabelLine splits on every comma; quoting is not understood.
func parseLabelLine(raw string) (string, string, float64, error) {
	fields := strings.Split(strings.TrimRight(raw, " \t\r\n"), ",")
	if len(fields) != labelFields {
		return "", "", 0, fmt.Errorf("%w: expected %d, got %d", errLabelFields, labelFields, len(fields))
	}
	conf := strings.TrimSpace(fields[3])
	confidence, err := strconv.ParseFloat(conf, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("confidence %q: %w", conf, err)
	}
	return fields[0], fields[2], confidence, nil
}

func passesThreshold(confidence float64) bool {
	return confidence >= confidenceThreshold
}
