package main

import (
	"github.com/trezcool/goose"

	"github.com/kwanza/kocha/core"
	appfs "github.com/kwanza/kocha/fs"
	"github.com/kwanza/kocha/storage/database"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) createDB() error {
	return database.CreateIfNotExist(core.Conf)
}

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db.DB, appfs.FS, "migrations", arguments...)
}
