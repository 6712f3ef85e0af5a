package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	exampleLabels = "ImageID,Source,LabelName,Confidence\n" +
		"img1,x,tagA,0.9\n" +
		"img2,x,tagA,0.3\n" +
		"img3,x,tagB,0.7\n"
	exampleDict = "\"tagA\",\"Cat\"\n" +
		"\"tagB\",\"Dog\"\n"
	exampleMeta = "ImageID,Subset,OriginalURL\n" +
		"img1,x,http://u1\n" +
		"img3,x,http://u3\n"
)

func writeFixture(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "")), 0o644))
	return path
}

type exampleInputs struct {
	labels string
	dict   string
	meta   string
}

func writeExample(t *testing.T, dir string) exampleInputs {
	t.Helper()
	return exampleInputs{
		labels: writeFixture(t, dir, "labels.csv", exampleLabels),
		dict:   writeFixture(t, dir, "dict.csv", exampleDict),
		meta:   writeFixture(t, dir, "images.csv", exampleMeta),
	}
}

func set(values ...string) stringSet {
	s := make(stringSet, len(values))
	for _, v := range values {
		s.add(v)
	}
	return s
}
