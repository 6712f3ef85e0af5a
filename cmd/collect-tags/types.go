package main

type config struct {
	labelsPath  string
	dictPath    string
	metaPath    string
	outfile     string
	sink        string
	verify      bool
	metricsFile string
	logLevel    string
}

// stringSet is an unordered set of identifiers or URLs.
type stringSet map[string]struct{}

func (s stringSet) add(v string) {
	s[v] = struct{}{}
}

// tagIndex maps tag_id to the image_ids that carry it.
type tagIndex map[string]stringSet

// tagURLs maps a human-readable description to image URLs.
type tagURLs map[string]stringSet

type labelStats struct {
	rows     int
	retained int
	dropped  int
}

type translateStats struct {
	tags       int
	urls       int
	collisions int
}
