package main

import (
	"sort"
	"strings"
)

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// joinURLs is the value encoding shared by every sink.
func joinURLs(set stringSet) string {
	return strings.Join(sortedKeys(set), urlSeparator)
}

func splitURLs(raw string) stringSet {
	set := make(stringSet)
	if raw == "" {
		return set
	}
	for _, u := range strings.Split(raw, urlSeparator) {
		set.add(u)
	}
	return set
}

func equalTagURLs(a, b tagURLs) bool {
	if len(a) != len(b) {
		return false
	}
	for desc, as := range a {
		bs, ok := b[desc]
		if !ok || len(as) != len(bs) {
			return false
		}
		for u := range as {
			if _, ok := bs[u]; !ok {
				return false
			}
		}
	}
	return true
}
