package cli

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	csvsink "github.com/couchcryptid/police-blotter-etl/internal/adapter/csv"
	httpadapter "github.com/couchcryptid/police-blotter-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/police-blotter-etl/internal/adapter/kafka"
	"github.com/couchcryptid/police-blotter-etl/internal/adapter/textfile"
	"github.com/couchcryptid/police-blotter-etl/internal/config"
	"github.com/couchcryptid/police-blotter-etl/internal/domain"
	"github.com/couchcryptid/police-blotter-etl/internal/observability"
	"github.com/couchcryptid/police-blotter-etl/internal/pipeline"
)

type flags struct {
	policy       string
	logLevel     string
	logFormat    string
	httpAddr     string
	kafkaBrokers []string
	kafkaTopic   string
}

// NewRootCommand creates the blotter command. Reports named in args are read
// in order; with none, stdin is read. CSV goes to the command's stdout and logs
// to its stderr.
func NewRootCommand(ctx context.Context, metrics *observability.Metrics) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "blotter [FILE...]",
		Short: "Extract accident records from police blotter reports as CSV.",
		Long: "Reads police blotter text reports, finds every ACCIDENT section, and writes one\n" +
			"CSV row per accident: date,time,vehicles,injuries,tows,location,text.\n" +
			"Use - to read standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(ctx, cmd, cfg, metrics, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&f.policy, "policy", "", `bad line handling: "fail-fast" or "skip-and-report" (env FAILURE_POLICY)`)
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "log format: json or text (env LOG_FORMAT)")
	cmd.Flags().StringVar(&f.httpAddr, "http-addr", "", "serve /healthz, /readyz and /metrics on this address during the run (env HTTP_ADDR)")
	cmd.Flags().StringSliceVar(&f.kafkaBrokers, "kafka-brokers", nil, "also publish records to these Kafka brokers (env KAFKA_BROKERS)")
	cmd.Flags().StringVar(&f.kafkaTopic, "kafka-topic", "", "Kafka topic for published records (env KAFKA_TOPIC)")

	return cmd
}

// loadConfig reads the environment and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("policy") {
		cfg.FailurePolicy = domain.FailurePolicy(f.policy)
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("http-addr") {
		cfg.HTTPAddr = f.httpAddr
	}
	if changed("kafka-brokers") {
		cfg.KafkaBrokers = f.kafkaBrokers
	}
	if changed("kafka-topic") {
		cfg.KafkaTopic = f.kafkaTopic
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, metrics *observability.Metrics, args []string) error {
	logger := observability.NewLogger(cfg, cmd.ErrOrStderr())

	reader := textfile.NewReader(args, cmd.InOrStdin(), logger)
	sinks := []pipeline.Sink{csvsink.NewWriter(cmd.OutOrStdout())}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(reader, sinks, cfg.FailurePolicy, logger, metrics).WithFlushTimeout(cfg.ShutdownTimeout)

	if cfg.HTTPAddr != "" {
		l, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
		}
		stop := httpadapter.NewServer(cfg.HTTPAddr, p, logger).Run(l, cfg.ShutdownTimeout)
		defer stop()
	}

	sum, err := p.Run(ctx)
	logger.Info("run complete",
		"lines_read", sum.LinesRead,
		"accident_lines", sum.AccidentLines,
		"records", sum.Records,
		"skipped", sum.Skipped,
		"duration", sum.Duration,
	)
	if err != nil {
		return err
	}
	if sum.Skipped > 0 {
		logger.Warn("some accident lines could not be parsed and were skipped", "skipped", sum.Skipped)
	}
	return nil
}

// Main is a helper used by cmd/blotter/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	cmd := NewRootCommand(ctx, observability.NewMetrics())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
