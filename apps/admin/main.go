package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trezcool/divyang/core"
	logsvc "github.com/trezcool/divyang/services/logger"
	"github.com/trezcool/divyang/storage/database"
	"github.com/trezcool/divyang/storage/database/sqlxrepos"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}
	logger := logsvc.NewZapLogger(zl.Named("admin"))
	defer func() { _ = zl.Sync() }()

	// set up DB
	if err = database.CreateIfNotExist(context.Background(), conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// start CLI
	cli := commandLine{
		db:      db.DB,
		usrRepo: sqlxrepos.NewUserRepository(db),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
