package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// NewSQLCommand runs one read-only statement. Failures are reported as an
// error row, the same shape the agent tools see.
func NewSQLCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   `sql "<SELECT ...>"`,
		Short: "Run a read-only query against the emergency database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt := strings.TrimSpace(strings.Join(args, " "))
			if stmt == "" {
				return errors.New(ErrSQLStatement)
			}
			container, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			rows := container.Gateway.CustomQuery(cmd.Context(), stmt)
			if len(rows) == 0 {
				_, err := cmd.OutOrStdout().Write([]byte(msgNoResultRows + "\n"))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}
}
