package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/umbralabs/gstring/aggregate"
	"github.com/umbralabs/gstring/internal/mmap"
)

func main() {
	var (
		limit   = flag.Int("limit", 0, "Print at most this many groups (0 = all)")
		verbose = flag.Bool("v", false, "Log timing information")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: rowagg [-limit n] [-v] <measurements-file>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Aggregates station;value rows into per-station min/mean/max.")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		logger = l
	}

	if err := run(flag.Arg(0), *limit, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, limit int, logger *zap.Logger) error {
	f, err := mmap.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Info("mapped input",
		zap.String("path", path),
		zap.Int("bytes", f.Len()))

	start := time.Now()
	table, err := aggregate.Process(f.Data())
	if err != nil {
		return err
	}

	logger.Info("aggregation complete",
		zap.Int("groups", table.Len()),
		zap.Duration("elapsed", time.Since(start)))

	// The table holds Transient views into the mapping, so the report
	// must be written before f.Close runs.
	return aggregate.WriteReport(os.Stdout, table, limit)
}
