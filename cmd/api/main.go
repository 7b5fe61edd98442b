package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"suru/internal/app"
	"suru/internal/config"
	"suru/internal/logger"
	"suru/internal/repository/postgres"
	"syscall"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "suru",
	Short:         "Suru - сервис задач, команд и проектов",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "путь к config.yml (по умолчанию ./config.yml)")
	rootCmd.AddCommand(serveCmd(), migrateCmd(), configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.New(cfg)
			if err := a.Init(ctx); err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции схемы postgres",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadWithLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return postgres.Migrate(cfg.Database.URL)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Откатить миграции (--steps 0 откатывает все)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadWithLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return postgres.MigrateDown(cfg.Database.URL, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "сколько миграций откатить")
	cmd.AddCommand(down)

	return cmd
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Показать итоговую конфигурацию",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			out, err := cfg.Dump()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func loadWithLogger() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url не задан")
	}
	if err := logger.Init(cfg.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	return cfg, nil
}
