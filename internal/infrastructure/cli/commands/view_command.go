package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/firewatch/internal/application/formatter"
	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/infrastructure/cli/helpers"
	"github.com/doeshing/firewatch/internal/ports"
)

// NewViewCommand prints one domain view without involving any AI backend.
func NewViewCommand(rt *Runtime) *cobra.Command {
	var (
		asJSON bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:       "view <overview|evacuees|zones|resources|search> [term]",
		Short:     "Show an incident view built from the database",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"overview", "evacuees", "zones", "resources", "search"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseViewKind(strings.ToLower(args[0]))
			if !ok {
				return fmt.Errorf(ErrUnknownView, args[0])
			}
			term := strings.TrimSpace(strings.Join(args[1:], " "))
			if kind == domain.ViewSearch && term == "" {
				return errors.New(ErrSearchTerm)
			}

			container, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeViewJSON(cmd, container.Views, kind, term)
			}
			md := formatter.New().FormatBranch(cmd.Context(), branchFor(kind), term, container.Views)
			helpers.NewRenderer(cmd.OutOrStdout(), raw).Markdown(md)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	return cmd
}

func writeViewJSON(cmd *cobra.Command, views ports.ViewFetcher, kind domain.ViewKind, term string) error {
	ctx := cmd.Context()
	var v interface{}
	switch kind {
	case domain.ViewOverview:
		v = views.Overview(ctx)
	case domain.ViewEvacuees:
		v = views.Evacuees(ctx)
	case domain.ViewZones:
		v = views.Zones(ctx)
	case domain.ViewResources:
		v = views.Resources(ctx)
	case domain.ViewSearch:
		v = views.Search(ctx, term)
	}
	return writeJSON(cmd.OutOrStdout(), v)
}

func branchFor(kind domain.ViewKind) formatter.Branch {
	switch kind {
	case domain.ViewOverview:
		return formatter.BranchOverview
	case domain.ViewEvacuees:
		return formatter.BranchEvacuation
	case domain.ViewZones:
		return formatter.BranchZones
	case domain.ViewResources:
		return formatter.BranchResources
	default:
		return formatter.BranchSearch
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
