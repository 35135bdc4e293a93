package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/render"
	"github.com/pdiddy/regdesk/internal/selection"
	"github.com/pdiddy/regdesk/pkg/types"
)

var literatureCmd = &cobra.Command{
	Use:   "literature",
	Short: "Search PubMed and fetch abstracts",
}

var literatureSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search PubMed through the backend proxy",
	Args:  cobra.ArbitraryArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		keywords, _ := cmd.Flags().GetStringSlice("keywords")
		q := types.SearchQuery{Text: strings.Join(args, " "), Keywords: keywords}

		pubs, err := a.client.SearchPubMed(cmd.Context(), q)
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, pubs); ok {
			return err
		}
		render.Publications(cmd.OutOrStdout(), pubs, nil)
		return nil
	}),
}

var literatureAbstractsCmd = &cobra.Command{
	Use:   "abstracts <pmid>...",
	Short: "Fetch abstracts for PubMed ids",
	Long: `Abstracts fetches the abstract of every PMID given. Ids are sent in
batches of --batch-size; duplicate ids are fetched once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		batch, _ := cmd.Flags().GetInt("batch-size")
		if batch <= 0 {
			batch = 50
		}
		ids := selection.NewSet(args...).Items()

		progress := newReporter(cmd.ErrOrStderr())
		progress.Start(len(ids), "Fetching abstracts")
		var out []types.Abstract
		for start := 0; start < len(ids); start += batch {
			end := min(start+batch, len(ids))
			got, err := a.client.FetchAbstracts(cmd.Context(), ids[start:end])
			if err != nil {
				progress.Finish()
				return err
			}
			out = append(out, got...)
			progress.Add(end - start)
		}
		progress.Finish()

		if ok, err := a.structured(cmd, out); ok {
			return err
		}
		render.Abstracts(cmd.OutOrStdout(), out)
		if missing := len(ids) - len(out); missing > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d id(s) had no abstract.\n", missing)
		}
		return nil
	}),
}

var fdaCmd = &cobra.Command{
	Use:   "fda",
	Short: "Query openFDA through the backend proxy",
}

var fdaEventsCmd = &cobra.Command{
	Use:   "events <drug or device>",
	Short: "List adverse-event counts for a product",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		events, err := a.client.SearchAdverseEvents(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, events); ok {
			return err
		}
		render.AdverseEvents(cmd.OutOrStdout(), events, nil)
		return nil
	}),
}

func init() {
	literatureSearchCmd.Flags().StringSlice("keywords", nil, "extra search terms (comma-separated)")
	literatureAbstractsCmd.Flags().Int("batch-size", 50, "PMIDs per request")

	literatureCmd.AddCommand(literatureSearchCmd, literatureAbstractsCmd)
	fdaCmd.AddCommand(fdaEventsCmd)
	rootCmd.AddCommand(literatureCmd, fdaCmd)
}
