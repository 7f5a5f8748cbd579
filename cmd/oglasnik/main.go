package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/erazemk/oglasnik/internal/config"
)

const usage = `Usage: oglasnik [serve] [flags]
       oglasnik token -sub <seller> [flags]
       oglasnik revoke <token> [flags]

Serve flags:
  -c, -config <path>      YAML config file (default: environment only)
  -d, -db <path>          SQLite database path (overrides DB_PATH)
  -a, -addr <host:port>   listen address (overrides HTTP_ADDR)
  -l, -log <path>         rotating log file (overrides LOG_PATH)
  -h, -help               show this help and exit

Token flags:
  -s, -sub <seller>       token subject (required)
  -n, -name <name>        display name
  -t, -ttl <duration>     validity (default: 168h)
  -c, -config, -d, -db    as above

Revoke flags:
  -c, -config, -d, -db    as above
`

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = cmdServe(args)
	case "token":
		err = cmdToken(args)
	case "revoke":
		err = cmdRevoke(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}

	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath string
	dbPath     string
}

func newFlagSet(name string, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&common.configPath, "config", "", "")
	fs.StringVar(&common.configPath, "c", "", "")
	fs.StringVar(&common.dbPath, "db", "", "")
	fs.StringVar(&common.dbPath, "d", "", "")
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

// loadConfig reads the config and applies flag overrides.
func loadConfig(common commonFlags) (*config.Config, error) {
	cfg, err := config.Load(common.configPath)
	if err != nil {
		return nil, err
	}
	if common.dbPath != "" {
		cfg.DB.Path = common.dbPath
	}
	return cfg, nil
}

func cmdServe(args []string) error {
	var common commonFlags
	fs := newFlagSet("serve", &common)

	var addr, logPath string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(common)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if logPath != "" {
		cfg.Log.Path = logPath
	}

	closeLog := setupLogger(cfg.Log)
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		return err
	}
	return nil
}
