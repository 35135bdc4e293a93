package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/api"
	"github.com/pdiddy/regdesk/internal/render"
	"github.com/pdiddy/regdesk/internal/workflow"
	"github.com/pdiddy/regdesk/pkg/types"
)

var csrCmd = &cobra.Command{
	Use:   "csr",
	Short: "Browse the Clinical Study Report library",
}

var csrListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List CSRs, optionally filtered",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		f := cmd.Flags()
		indication, _ := f.GetString("indication")
		phase, _ := f.GetString("phase")
		sponsor, _ := f.GetString("sponsor")
		limit, _ := f.GetInt("limit")
		offset, _ := f.GetInt("offset")

		lib := workflow.NewCSRLibrary(a.client, a.notifier)
		csrs, err := lib.List(cmd.Context(), api.CSRFilter{
			Query:   types.SearchQuery{Text: strings.Join(args, " "), Indication: indication, Phase: phase},
			Sponsor: sponsor,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, csrs); ok {
			return err
		}
		render.CSRs(cmd.OutOrStdout(), csrs)
		return nil
	}),
}

var csrCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of CSRs in the library",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := workflow.NewCSRLibrary(a.client, a.notifier).Count(cmd.Context())
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, map[string]int{"count": n}); ok {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	}),
}

var csrReportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List generated reports",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		reports, err := workflow.NewCSRLibrary(a.client, a.notifier).Reports(cmd.Context())
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, reports); ok {
			return err
		}
		render.Reports(cmd.OutOrStdout(), reports)
		return nil
	}),
}

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Track site startup checklists",
}

var startupShowCmd = &cobra.Command{
	Use:   "show <site-id>",
	Short: "Show a site's startup checklist",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		site, err := workflow.NewStartup(a.client, a.notifier).Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, site); ok {
			return err
		}
		render.Site(cmd.OutOrStdout(), site)
		return nil
	}),
}

var startupCompleteCmd = &cobra.Command{
	Use:   "complete <site-id> <item-id>...",
	Short: "Mark checklist items complete",
	Long: `Complete marks each item done in order and stops at the first failure.
Items completed before the failure stay completed.`,
	Args: cobra.MinimumNArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		s := workflow.NewStartup(a.client, a.notifier)
		if _, err := s.Load(cmd.Context(), args[0]); err != nil {
			return err
		}
		for _, id := range args[1:] {
			if _, err := s.Complete(cmd.Context(), id); err != nil {
				render.Site(cmd.ErrOrStderr(), s.Site())
				return err
			}
		}
		site := s.Site()
		if ok, err := a.structured(cmd, site); ok {
			return err
		}
		render.Site(cmd.OutOrStdout(), site)
		return nil
	}),
}

func init() {
	f := csrListCmd.Flags()
	f.String("indication", "", "filter by indication")
	f.String("phase", "", "filter by phase")
	f.String("sponsor", "", "filter by sponsor")
	f.Int("limit", 0, "maximum rows (0 for the backend default)")
	f.Int("offset", 0, "rows to skip")

	csrCmd.AddCommand(csrListCmd, csrCountCmd, csrReportsCmd)
	startupCmd.AddCommand(startupShowCmd, startupCompleteCmd)
	rootCmd.AddCommand(csrCmd, startupCmd)
}
