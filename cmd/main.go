package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "appointment-service",
		Short:        "Сервис записи пациентов к врачам",
		SilenceUsage: true,
		// Без подкоманды запускается HTTP-сервер
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "путь к файлу конфигурации")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newJobCmd(&configPath),
	)
	return root
}
