// migrate aplica las migraciones embebidas sobre la base configurada (DB_* o DATABASE_URL).
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate steps -n -1
//	go run ./cmd/migrate version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/Gestion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

func main() {
	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	steps := flags.IntP("n", "n", 1, "cantidad de migraciones para steps (negativo revierte)")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: migrate [up|down|steps|version] [-n N]")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	cmd := "up"
	if flags.NArg() > 0 {
		cmd = flags.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer func() { _ = m.Close() }()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*steps)
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			fmt.Printf("version=%d dirty=%t\n", v, dirty)
		}
		err = verr
	default:
		flags.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("migraciones")
		os.Exit(1)
	}
}
