package main

import (
	"errors"
	"fmt"
)

var (
	errUnknownTag   = errors.New("tag id not found in dictionary")
	errUnknownImage = errors.New("image id not found in metadata")
)

// translateIDs rewrites tag_id -> image_ids into description -> urls. Both
// lookup tables only live for the duration of this call.
func translateIDs(labels tagIndex, dictPath, metaPath string) (tagURLs, translateStats, error) {
	var (
		out   tagURLs
		stats translateStats
	)
	err := withTagDictionary(dictPath, func(tags map[string]string) error {
		return withImageURLs(metaPath, func(urls map[string]string) error {
			var err error
			out, stats, err = resolveTags(labels, tags, urls)
			return err
		})
	})
	if err != nil {
		return nil, translateStats{}, err
	}
	return out, stats, nil
}

// resolveTags joins labels against the two lookup tables. Tag ids sharing a
// description have their URL sets merged.
func resolveTags(labels tagIndex, tags, urls map[string]string) (tagURLs, translateStats, error) {
	var stats translateStats
	out := make(tagURLs, len(labels))
	for tagID, images := range labels {
		desc, ok := tags[tagID]
		if !ok {
			return nil, stats, fmt.Errorf("%w: %q", errUnknownTag, tagID)
		}
		set, exists := out[desc]
		if exists {
			stats.collisions++
			logger.Warn("tag ids share a description, merging urls", "description", desc, "tag_id", tagID)
		} else {
			set = make(stringSet, len(images))
			out[desc] = set
		}
		for imageID := range images {
			u, ok := urls[imageID]
			if !ok {
				return nil, stats, fmt.Errorf("%w: %q (tag %q)", errUnknownImage, imageID, tagID)
			}
			set.add(u)
		}
	}
	stats.tags = len(out)
	for _, set := range out {
		stats.urls += len(set)
	}
	return out, stats, nil
}
