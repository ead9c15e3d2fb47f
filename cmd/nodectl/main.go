package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"massa-autoroll/internal/massa"
	"massa-autoroll/internal/wallet"
)

const prefix = "MASSA_NODECTL"

func main() {
	if err := run(); err != nil {
		log.Fatalf("nodectl: %s", err.Error())
	}
}

func run() error {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "loading .env")
	}

	var cfg struct {
		Args              conf.Args
		Wallet            string        `conf:"default:wallet.dat"`
		WebSocket         bool          `conf:"default:false,help:connect over websocket instead of http"`
		CallTimeout       time.Duration `conf:"default:30s"`
		ClockCompensation int64         `conf:"default:0"`
	}

	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		if err == conf.ErrHelpWanted {
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			fmt.Println("ARGUMENTS:\n  <host> [port] <command> [args...]")
			fmt.Print(commandUsage())
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	host, port, name, args, err := parseArgs(cfg.Args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CallTimeout)
	defer cancel()

	var opts []massa.DialOption
	if cfg.WebSocket {
		wsCfg := massa.DefaultWSConfig()
		opts = append(opts, massa.WithWebSocket(&wsCfg))
	}
	client, err := massa.Dial(ctx, host, port, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	e := env{
		api:               client,
		wallet:            func() (*wallet.Wallet, error) { return wallet.Load(cfg.Wallet) },
		clockCompensation: cfg.ClockCompensation,
	}
	result, err := dispatch(ctx, e, name, args)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	fmt.Println(string(out))
	return nil
}

// parseArgs splits <host> [port] <command> [args...]. The port is present
// when the second argument is numeric.
func parseArgs(args conf.Args) (host string, port uint16, name string, rest []string, err error) {
	if len(args) < 2 {
		return "", 0, "", nil, errors.New("usage: nodectl <host> [port] <command> [args...]")
	}
	host, port = args[0], massa.DefaultPort
	rest = args[1:]
	if n, perr := strconv.ParseUint(rest[0], 10, 16); perr == nil {
		port = uint16(n)
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", 0, "", nil, errors.New("missing command")
	}
	return host, port, rest[0], rest[1:], nil
}
