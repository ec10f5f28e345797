package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quasar/pkg/arrowio"
	"github.com/ajitpratap0/quasar/pkg/bridge"
	"github.com/ajitpratap0/quasar/pkg/compression"
	"github.com/ajitpratap0/quasar/pkg/config"
	"github.com/ajitpratap0/quasar/pkg/engine"
	"github.com/ajitpratap0/quasar/pkg/frame"
	"github.com/ajitpratap0/quasar/pkg/logger"
	"github.com/ajitpratap0/quasar/pkg/observability"
	"github.com/ajitpratap0/quasar/pkg/record"
	"github.com/ajitpratap0/quasar/pkg/schema"
	"github.com/ajitpratap0/quasar/pkg/source"
)

var version = "0.1.0"

// schemaFile is the YAML shape of an explicit schema descriptor.
type schemaFile struct {
	Fields []schema.Field `yaml:"fields"`
}

func main() {
	root := &cobra.Command{
		Use:   "quasar",
		Short: "Quasar - row/column materialization bridge",
		Long: `Quasar materializes partitioned record collections into columnar
frames for model training, and reads frames back into records. This CLI is a
thin operational wrapper over the library for working with flat files.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Quasar v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newMaterializeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newMaterializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Materialize a flat file into a columnar frame",
		Long: `Read records from a CSV or NDJSON file, materialize them into a
columnar frame partition by partition, and print the resulting frame's shape.
Optionally export the frame as an Arrow IPC file.`,
		RunE: runMaterialize,
	}

	flags := cmd.Flags()
	flags.String("input", "", "input file path (required)")
	flags.String("format", "csv", "input format: csv or ndjson")
	flags.String("schema", "", "optional YAML schema descriptor; inferred from the first record when omitted")
	flags.String("config", "", "optional YAML bridge config file")
	flags.Int("partitions", 0, "partition count (default: number of CPUs)")
	flags.Int("workers", 0, "max concurrent partition tasks (default: GOMAXPROCS)")
	flags.String("compression", "", "segment codec: none, lz4, zstd, s2, snappy")
	flags.String("arrow-out", "", "write the frame as an Arrow IPC file to this path")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("trace", false, "emit OpenTelemetry spans to stdout")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetEnvPrefix("QUASAR")
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := config.NewBridgeConfig("quasar-cli")
	if path := v.GetString("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return err
		}
	}
	if n := v.GetInt("partitions"); n > 0 {
		cfg.Performance.Partitions = n
	}
	if n := v.GetInt("workers"); n > 0 {
		cfg.Performance.Workers = n
	}
	if alg := v.GetString("compression"); alg != "" {
		cfg.Compression.Algorithm = compression.Algorithm(alg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:    v.GetString("log-level"),
		Encoding: "console",
	}); err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	shutdown, err := observability.Init(observability.Config{
		Enabled:     v.GetBool("trace"),
		ServiceName: "quasar-cli",
		PrettyPrint: true,
	})
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer shutdown(ctx) //nolint:errcheck

	recs, sc, err := readInput(v.GetString("input"), v.GetString("format"), v.GetString("schema"))
	if err != nil {
		return err
	}

	store, err := frame.NewStore(&cfg.Compression)
	if err != nil {
		return err
	}

	start := time.Now()
	coll := engine.NewCollection(recs, cfg.Performance.Partitions)
	f, err := bridge.RowToColumn(ctx, coll, sc,
		bridge.WithStore(store),
		bridge.WithWorkers(cfg.Performance.Workers))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	rows, _ := f.Rows()
	parts, _ := f.Partitions()
	logger.Info("materialization complete",
		zap.String("frame", f.Key()),
		zap.Int("rows", rows),
		zap.Int("columns", f.Cols()),
		zap.Int("partitions", parts),
		zap.Duration("elapsed", elapsed))

	fmt.Printf("Frame %s\n", f.Key())
	fmt.Printf("  rows:       %d\n", rows)
	fmt.Printf("  columns:    %d %v\n", f.Cols(), f.ColumnNames())
	fmt.Printf("  partitions: %d\n", parts)
	fmt.Printf("  elapsed:    %s\n", elapsed)

	if out := v.GetString("arrow-out"); out != "" {
		w, err := os.Create(out) //nolint:gosec // G304: path is an operator-supplied flag
		if err != nil {
			return err
		}
		defer w.Close() //nolint:errcheck
		if err := arrowio.WriteFrameIPC(w, f); err != nil {
			return err
		}
		fmt.Printf("  arrow file: %s\n", out)
	}
	return nil
}

// readInput loads records and resolves the schema: explicit
// descriptor file when given, inferred from the first record
// otherwise.
func readInput(path, format, schemaPath string) ([]*record.Record, *schema.Schema, error) {
	in, err := os.Open(path) //nolint:gosec // G304: path is an operator-supplied flag
	if err != nil {
		return nil, nil, err
	}
	defer in.Close() //nolint:errcheck

	var recs []*record.Record
	switch format {
	case "csv":
		recs, _, err = source.ReadCSV(in)
	case "ndjson":
		recs, err = source.ReadNDJSON(in)
	default:
		return nil, nil, fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(recs) == 0 {
		return nil, nil, fmt.Errorf("input %q has no records", path)
	}

	var sc *schema.Schema
	if schemaPath != "" {
		var sf schemaFile
		if err := config.Load(schemaPath, &sf); err != nil {
			return nil, nil, err
		}
		sc = schema.New(sf.Fields...)
	} else {
		sc = schema.Infer(recs[0].Data)
	}
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}
	return recs, sc, nil
}
