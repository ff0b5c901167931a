// Command hazardtrack replays a recorded encounter through the chasing hazard
// tracker and logs what a rendering layer would draw on every tick.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OCAP2/hazardtrack/internal/cache"
	"github.com/OCAP2/hazardtrack/internal/config"
	"github.com/OCAP2/hazardtrack/internal/database"
	"github.com/OCAP2/hazardtrack/internal/dispatcher"
	"github.com/OCAP2/hazardtrack/internal/handlers"
	"github.com/OCAP2/hazardtrack/internal/influx"
	"github.com/OCAP2/hazardtrack/internal/logging"
	"github.com/OCAP2/hazardtrack/internal/mission"
	intOtel "github.com/OCAP2/hazardtrack/internal/otel"
	"github.com/OCAP2/hazardtrack/internal/parser"
	"github.com/OCAP2/hazardtrack/internal/replay"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	Version   = "0.0.1"
	BuildDate = "unknown"

	AppName = "hazardtrack"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	flags.String("config-dir", ".", "directory containing "+config.FileName)
	flags.String("source", "", "JSONL command file to replay")
	flags.String("db-kind", "", "recorded-session database kind (sqlite or postgres)")
	flags.String("db-dsn", "", "recorded-session database DSN or sqlite path")
	flags.String("session", "", "recorded session name")
	flags.String("epoch", "", "session epoch in RFC3339 for JSONL sources (default now)")
	flags.Bool("import", false, "store the JSONL source into the database instead of replaying it")
	flags.String("log-level", "", "log level override")
	return flags
}

func bindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"source":   "source",
		"db.kind":  "db-kind",
		"db.dsn":   "db-dsn",
		"session":  "session",
		"epoch":    "epoch",
		"import":   "import",
		"logLevel": "log-level",
	}
	for key, name := range bindings {
		f := flags.Lookup(name)
		// only explicit flags override the config file
		if f == nil || !f.Changed {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func run(args []string) error {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return err
	}
	configDir, _ := flags.GetString("config-dir")

	if err := config.Load(configDir); err != nil {
		return err
	}
	if err := bindFlags(flags); err != nil {
		return err
	}

	start := time.Now().UTC()
	clock := mission.NewContext(viper.GetString("session"), start)

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, AppName, start))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	logCfg := logging.Config{
		Level:   viper.GetString("logLevel"),
		File:    logFile,
		Session: clock.Session,
	}
	if viper.GetBool("graylog.enabled") {
		logCfg.GraylogAddr = viper.GetString("graylog.address")
	}
	log, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	defer log.Close()
	logger := log.Logger

	logger.Info().Str("version", Version).Str("buildDate", BuildDate).Msg("Starting hazardtrack")

	otelCfg := config.GetOTelConfig()
	otelProvider, err := intOtel.New(intOtel.Config{
		Enabled:        otelCfg.Enabled,
		ServiceName:    otelCfg.ServiceName,
		ExportInterval: otelCfg.ExportInterval,
		MetricWriter:   logFile,
		Endpoint:       otelCfg.Endpoint,
		Insecure:       otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("setting up otel: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("OTel shutdown failed")
		}
	}()

	families, err := config.Families()
	if err != nil {
		return err
	}
	if len(families) == 0 {
		logger.Warn().Msg("No hazard families configured, nothing will be tracked")
	}

	epoch, events, err := loadEvents(context.Background(), logger)
	if err != nil {
		return err
	}
	if viper.GetBool("import") {
		return importEvents(context.Background(), logger, epoch, events)
	}

	var sink handlers.Sink
	if cfg := config.GetInfluxConfig(); cfg.Enabled {
		m := influx.NewManager(logger, cfg, viper.GetString("influx.backupPath"))
		if err := m.Connect(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("InfluxDB unavailable, activations will not be recorded")
		} else {
			defer m.Close()
			sink = m
		}
	}

	clock.Reset(clock.Session(), epoch)
	registry := cache.NewEntityCache()
	svc, err := handlers.NewService(handlers.Dependencies{
		Registry:    registry,
		Clock:       clock,
		Parser:      parser.NewParser(logger, epoch),
		Logger:      logger,
		Sink:        sink,
		WarningText: viper.GetString("warningText"),
	}, families)
	if err != nil {
		return err
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(logger))
	if err != nil {
		return err
	}
	svc.RegisterHandlers(d)

	r := newReporter(logger, svc, registry)
	player := replay.NewPlayer(d, logger)
	player.OnResult = func(e dispatcher.Event, result any) {
		if now, ok := result.(time.Time); ok && e.Command == handlers.CommandTick {
			r.tick(now)
		}
	}

	stats := player.Play(events)
	logger.Info().
		Int("dispatched", stats.Dispatched).
		Int("failed", stats.Failed).
		Int("unhandled", stats.Unhandled).
		Msg("Replay complete")
	return nil
}

// loadEvents reads the command stream from the JSONL source or the database.
func loadEvents(ctx context.Context, logger zerolog.Logger) (time.Time, []dispatcher.Event, error) {
	if path := viper.GetString("source"); path != "" {
		epoch := time.Now().UTC()
		if s := viper.GetString("epoch"); s != "" {
			var err error
			if epoch, err = time.Parse(time.RFC3339, s); err != nil {
				return time.Time{}, nil, fmt.Errorf("parsing epoch: %w", err)
			}
		}

		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("opening source: %w", err)
		}
		defer f.Close()

		events, err := replay.ReadJSONL(f)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		logger.Info().Str("source", path).Int("commands", len(events)).Msg("Loaded JSONL source")
		return epoch, events, nil
	}

	name := viper.GetString("session")
	if name == "" {
		return time.Time{}, nil, errors.New("either --source or --session is required")
	}

	db, err := openDatabase(logger)
	if err != nil {
		return time.Time{}, nil, err
	}
	defer db.Close()

	session, events, err := db.Load(ctx, name)
	if err != nil {
		return time.Time{}, nil, err
	}
	logger.Info().Str("session", name).Int("commands", len(events)).Msg("Loaded recorded session")
	return session.Epoch, events, nil
}

func importEvents(ctx context.Context, logger zerolog.Logger, epoch time.Time, events []dispatcher.Event) error {
	name := viper.GetString("session")
	if name == "" || viper.GetString("source") == "" {
		return errors.New("--import needs both --source and --session")
	}

	db, err := openDatabase(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}
	session, err := db.EnsureSession(ctx, name, epoch)
	if err != nil {
		return err
	}
	if err := db.Append(ctx, session, events...); err != nil {
		return err
	}
	logger.Info().Str("session", name).Int("commands", len(events)).Msg("Imported commands")
	return nil
}

func openDatabase(logger zerolog.Logger) (*database.Manager, error) {
	cfg := config.GetDBConfig()
	db := database.NewManager(logger)
	if err := db.Open(cfg.Kind, cfg.DSN); err != nil {
		return nil, err
	}
	return db, nil
}
