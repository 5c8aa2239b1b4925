package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mytheresa/sales-api/config"
	"github.com/mytheresa/sales-api/db"
	"github.com/mytheresa/sales-api/logger"
	"gorm.io/gorm"
)

const usage = `usage: salesapi [-config file] <command> [flags]

commands:
  serve        run the HTTP API
  migrate      apply pending database migrations
  createuser   create a user account
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	flags := flag.NewFlagSet("salesapi", flag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML configuration file")
	flags.Usage = func() { fmt.Fprint(flags.Output(), usage) }
	_ = flags.Parse(argv)

	if flags.NArg() < 1 {
		flags.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", logger.FieldError, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "serve":
		err = serve(ctx, cfg, log)
	case "migrate":
		err = migrate(ctx, cfg, log)
	case "createuser":
		err = createUser(ctx, cfg, log, args)
	default:
		flags.Usage()
		return 2
	}
	if err != nil {
		log.Error(cmd+" failed", logger.FieldError, err)
		return 1
	}
	return 0
}

func connect(ctx context.Context, cfg config.Config) (*gorm.DB, func(), error) {
	gdb, err := db.Connect(ctx, cfg.Postgres.DSN, db.PoolConfig{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}, cfg.IsDev())
	if err != nil {
		return nil, nil, err
	}

	closeDB := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return gdb, closeDB, nil
}

func migrate(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	gdb, closeDB, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	return db.Migrate(ctx, gdb, log)
}
