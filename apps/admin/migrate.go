package main

// migrate runs the goose command args[0] against the embedded migrations.
func (cli *commandLine) migrate(args []string) error {
	return migrateFunc(cli.db, args[0], args[1:]...)
}
