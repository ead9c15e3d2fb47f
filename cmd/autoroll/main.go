package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"massa-autoroll/internal/autoroll"
	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/massa"
	"massa-autoroll/internal/observability"
	"massa-autoroll/internal/storage"
	chstore "massa-autoroll/internal/storage/clickhouse"
	"massa-autoroll/internal/storage/memory"
	"massa-autoroll/internal/storage/migrations"
	pgstore "massa-autoroll/internal/storage/postgres"
	"massa-autoroll/internal/wallet"
)

const prefix = "MASSA_AUTOROLL"

func main() {
	if err := run(); err != nil {
		log.Fatalf("main: exited with error: %s", err.Error())
	}
}

func run() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("creating logger: %v", err)
	}
	defer logger.Sync()
	sLogger := logger.Sugar()

	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "loading .env")
	}

	var cfg struct {
		Args      conf.Args
		Wallet    string `conf:"default:wallet.dat"`
		Transport string `conf:"default:http,help:node transport: http or ws"`
		Policy    struct {
			MinBalance string `conf:"default:100,help:final balance in coins required before buying"`
			RollCount  uint64 `conf:"default:1"`
			Fee        string `conf:"default:0"`
		}
		Interval          time.Duration `conf:"default:0s,help:delay between runs; 0 runs once"`
		CallTimeout       time.Duration `conf:"default:30s"`
		ClockCompensation int64         `conf:"default:0,help:milliseconds added to the local clock"`
		Concurrency       int           `conf:"default:4"`
		MetricsAddr       string        `conf:"optional,help:serve /metrics and /health on this address"`
		MetricsNamespace  string        `conf:"default:massa_autoroll"`
		PostgresDSN       string        `conf:"optional,noprint"`
		ClickhouseDSN     string        `conf:"optional,noprint"`
	}

	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			fmt.Println("ARGUMENTS:\n  <host> [port]")
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return errors.Wrap(err, "generating config for output")
	}
	sLogger.Infof("main: Config :\n%v\n", out)

	host, port, err := hostPort(cfg.Args)
	if err != nil {
		return err
	}

	policy := autoroll.Policy{RollCount: cfg.Policy.RollCount}
	if policy.MinBalance, err = domain.ParseAmount(cfg.Policy.MinBalance); err != nil {
		return errors.Wrap(err, "parsing policy min balance")
	}
	if policy.Fee, err = domain.ParseAmount(cfg.Policy.Fee); err != nil {
		return errors.Wrap(err, "parsing policy fee")
	}

	w, err := wallet.Load(cfg.Wallet)
	if err != nil {
		return errors.Wrap(err, "loading wallet")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(cfg.MetricsNamespace, reg)

	var dialOpts []massa.DialOption
	switch cfg.Transport {
	case "http":
		dialOpts = append(dialOpts, massa.WithHTTPOptions(massa.WithTimeout(cfg.CallTimeout)))
	case "ws":
		wsCfg := massa.DefaultWSConfig()
		dialOpts = append(dialOpts, massa.WithWebSocket(&wsCfg))
	default:
		return fmt.Errorf("unknown transport %q, want http or ws", cfg.Transport)
	}
	dialOpts = append(dialOpts, massa.WithObserver(metrics))

	client, err := massa.Dial(ctx, host, port, dialOpts...)
	if err != nil {
		return errors.Wrap(err, "connecting to node")
	}
	defer client.Close()

	var operationStore storage.OperationStore = memory.NewOperationStore()
	var snapshotStore storage.AddressSnapshotStore = memory.NewAddressSnapshotStore()

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return errors.Wrap(err, "connecting to postgres")
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "running postgres migrations")
		}
		operationStore = pgstore.NewOperationStore(pool)
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return errors.Wrap(err, "running clickhouse migrations")
		}
		defer conn.Close()
		snapshotStore = chstore.NewAddressSnapshotStore(conn)
	}

	if cfg.MetricsAddr != "" {
		server := metricsServer(cfg.MetricsAddr, reg)
		go func() {
			sLogger.Infow("starting metrics server", "addr", cfg.MetricsAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				sLogger.Errorw("metrics server failed", "error", err)
			}
		}()
		defer server.Close()
	}

	runner := autoroll.New(autoroll.Options{
		Node:              client,
		Wallet:            w,
		Policy:            policy,
		OperationStore:    operationStore,
		SnapshotStore:     snapshotStore,
		Metrics:           metrics,
		Logger:            sLogger,
		Concurrency:       cfg.Concurrency,
		ClockCompensation: cfg.ClockCompensation,
		RunTimeout:        cfg.CallTimeout,
	})

	sLogger.Infow("starting autoroll", "host", host, "port", port, "transport", cfg.Transport, "addresses", len(w.Addresses()), "interval", cfg.Interval)
	err = runner.Run(ctx, cfg.Interval, printReport)
	if err != nil {
		return errors.Wrap(err, "running autoroll")
	}

	sLogger.Info("main: Shutdown complete")
	return nil
}

// hostPort reads <host> [port] from the positional arguments.
func hostPort(args conf.Args) (string, uint16, error) {
	host := args.Num(0)
	if host == "" {
		return "", 0, errors.New("missing node host argument")
	}
	port := massa.DefaultPort
	if p := args.Num(1); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return "", 0, errors.Wrapf(err, "parsing port %q", p)
		}
		port = uint16(n)
	}
	return host, port, nil
}

func metricsServer(addr string, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler(g))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// printReport writes the fetched addresses, accepted operation ids and
// submission errors of one run to stdout.
func printReport(report *autoroll.Report) {
	data, err := json.MarshalIndent(report.Addresses, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stdout, "encoding addresses: %v\n", err)
	} else {
		fmt.Fprintf(os.Stdout, "%s\n", data)
	}

	for _, id := range report.Submitted() {
		fmt.Fprintf(os.Stdout, "submitted operation %s\n", id)
	}
	for _, err := range report.Errors() {
		fmt.Fprintf(os.Stdout, "error: %v\n", err)
	}
}
