package main

import (
	"encoding/json"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/service/jobs"
)

func newJobCmd(configPath *string) *cobra.Command {
	names := []string{jobs.JobReminders, jobs.JobSlots, jobs.JobArchive}

	return &cobra.Command{
		Use:       "job <" + strings.Join(names, "|") + ">",
		Short:     "Однократно выполнить периодическую задачу",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.runner.Run(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(result)
		},
	}
}
