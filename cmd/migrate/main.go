package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mdjvazquez/finmks-v/internal/infrastructure/postgres"
	"github.com/mdjvazquez/finmks-v/pkg/config"
	"github.com/mdjvazquez/finmks-v/pkg/logger"
)

var sourceURL string

func main() {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Migraciones de la base de FinMakes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&sourceURL, "path", "", "fuente de migraciones (por defecto MIGRATIONS_PATH)")

	root.AddCommand(upCmd())
	root.AddCommand(downCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Aplica todas las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withMigrator(func(m *postgres.Migrator, _ zerolog.Logger) error {
				return m.Up()
			})
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [steps]",
		Short: "Revierte migraciones (todas si no se indica steps)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps debe ser un entero positivo: %q", args[0])
				}
				steps = n
			}
			return withMigrator(func(m *postgres.Migrator, _ zerolog.Logger) error {
				return m.Down(steps)
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada del esquema",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withMigrator(func(m *postgres.Migrator, log zerolog.Logger) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
				return nil
			})
		},
	}
}

func withMigrator(fn func(*postgres.Migrator, zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: cfg.App.Name}).Component("migrate")

	src := sourceURL
	if src == "" {
		src = cfg.DB.MigrationsPath
	}
	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), src, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("cerrar migrador")
		}
	}()
	return fn(m, log)
}
