package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"datumtrans-api/internal/config"
	"datumtrans-api/internal/par"
	"datumtrans-api/internal/repository"
	"datumtrans-api/internal/trans"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "", "Path to the parameter file to import")
	format := flag.String("format", "", "Parameter file format, e.g. TKY2JGD or SemiDynaEXE")
	name := flag.String("name", "", "Name to store the parameter set under (defaults to the file name)")
	description := flag.String("description", "", "Description override (defaults to the file header)")
	flag.Parse()

	if *file == "" || *format == "" {
		log.Fatal().Msg("--file and --format flags are required")
	}
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
	}

	log.Info().Str("file", *file).Str("format", *format).Msg("starting import")

	text, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read parameter file")
	}

	transformer, err := par.Parse(string(text), trans.Format(*format), *description)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse parameter file")
	}

	log.Info().Int("parameters", len(transformer.Parameter)).Msg("parsed parameter file")

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer conn.Close(context.Background())

	repo := repository.NewRepository(conn)

	if err := repo.CreateSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	if err := repo.SaveParameterSet(context.Background(), *name, transformer); err != nil {
		log.Fatal().Err(err).Msg("cannot save parameter set")
	}

	log.Info().
		Str("name", *name).
		Int("parameters", len(transformer.Parameter)).
		Msg("successfully imported parameter set")
}
