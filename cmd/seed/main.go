// seed importa un CSV a cualquier recurso registrado, dentro de una sola
// transacción. Cada fila pasa por la misma normalización y validación que la API.
//
// Uso:
//
//	go run ./cmd/seed --resource customers --file clientes.csv
//	go run ./cmd/seed -r services -f servicios.csv --charset iso-8859-1 --sep ';'
package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/pflag"

	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	resource := flags.StringP("resource", "r", "", "recurso destino (customers, services, ...)")
	file := flags.StringP("file", "f", "", "ruta del CSV")
	charset := flags.String("charset", CharsetUTF8, "codificación del CSV: utf-8 o iso-8859-1")
	sep := flags.String("sep", ",", "separador de columnas")
	skipInvalid := flags.Bool("skip-invalid", false, "omitir filas inválidas en lugar de abortar")
	_ = flags.Parse(os.Args[1:])

	if *resource == "" || *file == "" || utf8.RuneCountInString(*sep) != 1 {
		flags.Usage()
		os.Exit(2)
	}
	comma, _ := utf8.DecodeRuneInString(*sep)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	registry := entity.NewRegistry()
	res, err := registry.Get(*resource)
	if err != nil {
		log.Fatal().Err(err).Str("resource", *resource).Msg("recurso")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	s, err := readSheet(f, res, *charset, comma)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	actor := crud.Actor{Kind: jwt.KindUser, Role: entity.RoleAdmin}
	var (
		created  int
		rejected []RowError
	)
	err = postgres.NewTxRunner(pool).Run(ctx, func(records repository.RecordRepository, _ repository.UserRepository) error {
		uc := crud.NewUseCase(registry, records, schema.NewValidator(), nil)
		var ierr error
		created, rejected, ierr = importSheet(ctx, uc, actor, res, s, *skipInvalid)
		return ierr
	})
	for _, r := range rejected {
		log.Warn().Int("line", r.Line).Err(r.Err).Msg("fila rechazada")
	}
	if err != nil {
		log.Error().Err(err).Msg("importación revertida")
		os.Exit(1)
	}
	log.Info().
		Str("resource", res.Name).
		Int("created", created).
		Int("rejected", len(rejected)).
		Msg("importación completada")
}
