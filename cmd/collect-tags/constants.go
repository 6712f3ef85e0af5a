package main

const (
	confidenceThreshold = 0.5

	sinkText   = "text"
	sinkSQLite = "sqlite"
	sinkKV     = "kv"

	defaultSink = sinkKV

	tagsTable     = "tags"
	urlSeparator  = ","
	textSeparator = ":"

	dictFieldSeparator = `","`
	metaMinFields      = 3
	labelFields        = 4

	pebbleManifestGlob = "MANIFEST-*"
)
