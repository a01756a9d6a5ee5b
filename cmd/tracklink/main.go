// Package main provides the tracklink CLI: it wires ingestion, the tracking
// engine, and the graphstore output together for one end-to-end run over a
// directory of per-frame CSV snapshots.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/framelattice/tracklink/diagnostics"
	"github.com/framelattice/tracklink/element"
	"github.com/framelattice/tracklink/engine"
	"github.com/framelattice/tracklink/graph"
	"github.com/framelattice/tracklink/graphstore"
	"github.com/framelattice/tracklink/ingest"
	"github.com/framelattice/tracklink/tracklog"
	"github.com/framelattice/tracklink/trackcfg"
	"github.com/framelattice/tracklink/word"
)

const (
	exitSuccess     = 0
	exitInvalidArgs = 40
	exitConfigError = 41
	exitIngestError = 42
	exitRunError    = 43
	exitOutputError = 44
)

const usageText = `tracklink - multi-frame record-linkage tracking engine

Usage:
  tracklink --schema=<spec> --frames-dir=<dir> --out=<path> [options]

Required Flags:
  --schema string
        Field spec "name:type,..." where type is string or multistrings
  --frames-dir string
        Directory containing per-frame CSV snapshot files
  --out string
        Output graphstore container path

Optional Flags:
  --config string
        Path to a tracking config YAML/JSON file (defaults built in)
  --frames-glob string
        Glob pattern for frame files within --frames-dir (default "frame-*.csv")
  --separator string
        Multi-strings cell separator for ingestion (default ",")
  --no-diagnostics
        Omit per-tracker diagnostics from the output container
  --help
        Show this help message

Exit Codes:
  0  - Success
  40 - Invalid arguments
  41 - Configuration error
  42 - Ingestion error
  43 - Tracking run error
  44 - Output write error
`

type cliOptions struct {
	configPath    string
	schemaSpec    string
	framesDir     string
	framesGlob    string
	separator     string
	outPath       string
	noDiagnostics bool
	help          bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.help {
		fmt.Fprint(os.Stderr, usageText)
		return exitSuccess
	}
	if opts.schemaSpec == "" || opts.framesDir == "" || opts.outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --schema, --frames-dir, and --out are all required")
		fmt.Fprint(os.Stderr, usageText)
		return exitInvalidArgs
	}

	logger, err := tracklog.NewCLI("tracklink")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build logger: %v\n", err)
		return exitConfigError
	}
	word.SetWarner(logger.WarnGraphemeTruncation)

	schema, err := element.ParseSchema(opts.schemaSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitInvalidArgs
	}

	cfg := trackcfg.DefaultTrackingConfig()
	if opts.configPath != "" {
		cfg, err = trackcfg.Load(opts.configPath, schema.NumFields())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitConfigError
		}
	} else if err := trackcfg.Validate(cfg, schema.NumFields()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfigError
	}

	frames, err := loadFrames(schema, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitIngestError
	}

	eng, err := engine.New(cfg, schema, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRunError
	}
	if err := eng.Initialize(frames); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRunError
	}
	for _, f := range frames[1:] {
		if err := eng.ProcessNextFrame(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitRunError
		}
	}

	chains := eng.Stop()
	trackingGraph := graph.FromTrackingChains(eng.FrameRecordCounts(), chains)
	container := graphstore.Container{Graph: &trackingGraph}
	if !opts.noDiagnostics {
		d := diagnostics.New()
		traces := eng.Traces()
		alive := eng.AliveTrackerIDs()
		chainsByID := eng.ChainsByTrackerID()
		for id, trace := range traces {
			d.Add(id, trace, len(chainsByID[id].Nodes), alive[id])
		}
		container.Diagnostics = &d
	}

	if err := graphstore.Save(opts.outPath, container); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return exitOutputError
	}

	fmt.Fprintf(os.Stdout, "tracklink: wrote %d tracking chains to %s\n", len(chains), opts.outPath)
	return exitSuccess
}

func loadFrames(schema element.Schema, opts cliOptions) ([]element.Frame, error) {
	globPattern := opts.framesGlob
	if globPattern == "" {
		globPattern = "frame-*.csv"
	}
	paths, err := ingest.DiscoverFrameFiles(opts.framesDir, globPattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frame files matched %q under %q", globPattern, opts.framesDir)
	}
	src := ingest.NewSource(schema, opts.separator)
	return src.LoadFrames(paths)
}

func parseFlags() cliOptions {
	opts := cliOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to tracking config file")
	flag.StringVar(&opts.schemaSpec, "schema", "", "Field spec name:type,...")
	flag.StringVar(&opts.framesDir, "frames-dir", "", "Directory containing frame CSV files")
	flag.StringVar(&opts.framesGlob, "frames-glob", "frame-*.csv", "Glob pattern for frame files")
	flag.StringVar(&opts.separator, "separator", ",", "Multi-strings cell separator")
	flag.StringVar(&opts.outPath, "out", "", "Output graphstore container path")
	flag.BoolVar(&opts.noDiagnostics, "no-diagnostics", false, "Omit diagnostics from output")
	flag.BoolVar(&opts.help, "help", false, "Show help message")
	flag.Parse()
	return opts
}
