package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/firewatch/internal/infrastructure/cli/helpers"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose config, storage and AI backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}

			report, err := container.Doctor.Run(cmd.Context())
			// Display report even if there were errors
			helpers.PrintHealthReport(cmd.OutOrStdout(), report)
			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			if report.Failed() {
				return errors.New(ErrDoctorFailure)
			}
			return nil
		},
	}
}
