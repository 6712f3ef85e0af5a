package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

var errUsage = errors.New("missing or invalid arguments")

// parseConfig reads the command line. Both -name and --name are accepted,
// and every required flag has a one-letter alias.
func parseConfig(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("collect-tags", flag.ContinueOnError)
	fs.SetOutput(stderr)

	stringFlag := func(dst *string, long, short, value, usage string) {
		fs.StringVar(dst, long, value, usage)
		if short != "" {
			fs.StringVar(dst, short, value, "shorthand for -"+long)
		}
	}
	stringFlag(&cfg.labelsPath, "labels", "l", "", "image labels `FILENAME` (expect labels.csv)")
	stringFlag(&cfg.dictPath, "dictionary", "d", "", "label dictionary `FILENAME` (expect dict.csv)")
	stringFlag(&cfg.metaPath, "metadata", "m", "", "image metadata `FILENAME` (expect images.csv)")
	stringFlag(&cfg.outfile, "outfile", "o", "", "output `PATH`: text file, sqlite file or kv store directory")
	stringFlag(&cfg.sink, "sink", "s", defaultSink, "output sink: text|sqlite|kv")
	fs.BoolVar(&cfg.verify, "verify", false, "read the output back and compare it after writing")
	fs.StringVar(&cfg.metricsFile, "metrics-file", "", "write run metrics in prometheus textfile format to `FILENAME`")
	fs.StringVar(&cfg.logLevel, "log-level", "", "debug|info|warn|error (overrides LOG_LEVEL)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: collect-tags -l labels.csv -d dict.csv -m images.csv -o OUT [-s text|sqlite|kv]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"labels", cfg.labelsPath},
		{"dictionary", cfg.dictPath},
		{"metadata", cfg.metaPath},
		{"outfile", cfg.outfile},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, "--"+f.name)
		}
	}
	if len(missing) > 0 {
		fs.Usage()
		return cfg, fmt.Errorf("%w: required %s", errUsage, strings.Join(missing, ", "))
	}

	cfg.sink = strings.ToLower(strings.TrimSpace(cfg.sink))
	switch cfg.sink {
	case sinkText, sinkSQLite, sinkKV:
	default:
		fs.Usage()
		return cfg, fmt.Errorf("%w: unknown sink %q", errUsage, cfg.sink)
	}
	if _, err := parseLogLevel(cfg.logLevel); err != nil {
		fs.Usage()
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	return cfg, nil
}
