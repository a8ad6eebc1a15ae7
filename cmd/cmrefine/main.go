// cmrefine refines an existing graph clustering until every cluster is
// well-connected under a size-dependent threshold, then writes the final
// membership mapping and a per-cluster connectivity report.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/clusolabs/cmgraph/pkg/config"
	"github.com/clusolabs/cmgraph/pkg/export"
	"github.com/clusolabs/cmgraph/pkg/graph"
	"github.com/clusolabs/cmgraph/pkg/logging"
	"github.com/clusolabs/cmgraph/pkg/partition"
	"github.com/clusolabs/cmgraph/pkg/refine"
	"github.com/clusolabs/cmgraph/pkg/runctx"
)

func main() {
	defaults := config.Default()

	configPath := flag.String("config", "", "YAML config file (flags override)")
	input := flag.String("input", "", "Edge list file (source target [weight])")
	clusters := flag.String("clusters", "", "Existing clustering file (node cluster)")
	output := flag.String("output", "", "Output membership file")
	threshold := flag.String("threshold", defaults.Threshold, "Threshold selector: constant, <k>log10 or <k>lin")
	score := flag.String("score", defaults.Score, "Connectivity score: mincut or density")
	resolution := flag.Float64("resolution", defaults.Resolution, "Resolution for re-clustering splitters")
	maxRounds := flag.Int("max-rounds", defaults.MaxRounds, "Maximum refinement rounds")
	splitter := flag.String("splitter", defaults.Splitter, "Split strategy: mincut, components or labelprop")
	prune := flag.Bool("prune", defaults.Prune, "Peel low-degree nodes before splitting")
	workers := flag.Int("workers", defaults.Workers, "Parallel evaluation workers")
	reportCSV := flag.String("report", "", "Per-cluster CSV report file")
	reportDB := flag.String("report-db", "", "SQLite report database")
	lineage := flag.String("lineage", "", "Cluster lineage JSON file")
	compress := flag.Bool("compress", defaults.Compress, "Snappy-compress membership and lineage outputs")
	metricsListen := flag.String("metrics-listen", "", "Serve prometheus metrics on this address during the run")
	logLevel := flag.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	quiet := flag.Bool("quiet", defaults.Quiet, "Silence all logging")
	flag.Parse()

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	// Explicitly set flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "clusters":
			cfg.ExistingClustering = *clusters
		case "output":
			cfg.Output = *output
		case "threshold":
			cfg.Threshold = *threshold
		case "score":
			cfg.Score = *score
		case "resolution":
			cfg.Resolution = *resolution
		case "max-rounds":
			cfg.MaxRounds = *maxRounds
		case "splitter":
			cfg.Splitter = *splitter
		case "prune":
			cfg.Prune = *prune
		case "workers":
			cfg.Workers = *workers
		case "report":
			cfg.ReportCSV = *reportCSV
		case "report-db":
			cfg.ReportDB = *reportDB
		case "lineage":
			cfg.Lineage = *lineage
		case "compress":
			cfg.Compress = *compress
		case "metrics-listen":
			cfg.MetricsListen = *metricsListen
		case "log-level":
			cfg.LogLevel = *logLevel
		case "quiet":
			cfg.Quiet = *quiet
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var logger logging.Logger = logging.NopLogger{}
	if !cfg.Quiet {
		logger = logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	}
	rc := runctx.New(cfg, logger)

	if cfg.MetricsListen != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", rc.Metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsListen, mux); err != nil {
				rc.Log.Error("metrics listener failed", logging.Error(err))
			}
		}()
	}

	if err := run(rc); err != nil {
		rc.Log.Error("run failed", logging.Error(err))
		log.Fatalf("cmrefine: %v", err)
	}
}

func run(rc *runctx.Context) error {
	cfg := rc.Cfg

	start := time.Now()
	edges, err := graph.ReadEdgeListFile(cfg.Input)
	if err != nil {
		return err
	}
	g, err := graph.Build(edges)
	if err != nil {
		return err
	}
	rc.Log.Info("graph loaded",
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Duration("elapsed", time.Since(start)),
	)

	f, err := os.Open(cfg.ExistingClustering)
	if err != nil {
		return err
	}
	mapping, err := partition.ReadMembership(f)
	f.Close()
	if err != nil {
		return err
	}
	part, err := partition.Load(mapping, g)
	if err != nil {
		return err
	}
	rc.Log.Info("initial clustering loaded", logging.Int("clusters", part.ClusterCount()))

	engine, err := refine.NewEngine(rc, part)
	if err != nil {
		return err
	}
	result, err := engine.Run()
	if err != nil {
		return err
	}
	rc.Log.Info("refinement finished",
		logging.String("state", result.State.String()),
		logging.Round(result.Rounds),
		logging.Int("clusters", part.ClusterCount()),
		logging.Int("failing", len(result.Failing)),
	)

	records := export.Export(part, result.Reports)

	if err := writeFile(cfg.Output, cfg.Compress, func(w io.Writer) error {
		return export.WriteMembership(w, part)
	}); err != nil {
		return err
	}
	if cfg.ReportCSV != "" {
		if err := writeFile(cfg.ReportCSV, false, func(w io.Writer) error {
			return export.WriteCSV(w, records)
		}); err != nil {
			return err
		}
	}
	if cfg.Lineage != "" {
		if err := writeFile(cfg.Lineage, cfg.Compress, func(w io.Writer) error {
			return export.WriteLineage(w, part)
		}); err != nil {
			return err
		}
	}
	if cfg.ReportDB != "" {
		sink, err := export.OpenSQLiteSink(cfg.ReportDB)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.WriteRun(rc.RunID, records); err != nil {
			return err
		}
	}

	for _, d := range rc.Diagnostics() {
		rc.Log.Warn("diagnostic", logging.String("detail", d))
	}
	return nil
}

// writeFile writes through fn to path, optionally snappy-compressed (the
// path gets a .sz suffix so downstream tooling can tell).
func writeFile(path string, compress bool, fn func(io.Writer) error) error {
	if compress {
		path += ".sz"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var werr error
	if compress {
		cw := export.CompressedWriter(f)
		werr = fn(cw)
		if cerr := cw.Close(); werr == nil {
			werr = cerr
		}
	} else {
		werr = fn(f)
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("write %s: %w", path, werr)
	}
	return nil
}
