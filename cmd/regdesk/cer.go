package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/render"
	"github.com/pdiddy/regdesk/internal/workflow"
	"github.com/pdiddy/regdesk/pkg/types"
)

var cerCmd = &cobra.Command{
	Use:   "cer",
	Short: "Generate and export Clinical Evaluation Reports",
}

var cerGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a CER from selected literature and adverse events",
	Long: `Generate searches literature (--query) and adverse events (--drug), selects
the publications and event terms given with --pmid and --event, and submits
them with the device description. With --interactive the selections and the
device form are picked from menus instead.

Generation needs a device name and at least one publication.`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		flags := cmd.Flags()
		query, _ := flags.GetString("query")
		pmids, _ := flags.GetStringSlice("pmid")
		drug, _ := flags.GetString("drug")
		terms, _ := flags.GetStringSlice("event")
		interactive, _ := flags.GetBool("interactive")
		out, _ := flags.GetString("out")

		w := workflow.NewCER(a.client, a.notifier)
		for field, flag := range map[string]string{
			workflow.FieldDeviceName:     "device",
			workflow.FieldManufacturer:   "manufacturer",
			workflow.FieldIntendedUse:    "intended-use",
			workflow.FieldClassification: "classification",
		} {
			v, _ := flags.GetString(flag)
			w.SetDevice(field, v)
		}

		if query != "" {
			if _, err := w.SearchLiterature(ctx, types.SearchQuery{Text: query}); err != nil {
				return err
			}
		}
		if drug == "" {
			drug, _ = flags.GetString("device")
		}
		if drug != "" && (interactive || len(terms) > 0) {
			if _, err := w.SearchEvents(ctx, drug); err != nil {
				return err
			}
		}

		if interactive {
			if err := pickInteractively(ctx, cmd.ErrOrStderr(), w); err != nil {
				return err
			}
		} else {
			if err := selectWithProgress(ctx, cmd.ErrOrStderr(), w, pmids); err != nil {
				return err
			}
			for _, t := range terms {
				if t = strings.TrimSpace(t); t != "" {
					w.ToggleEvent(t)
				}
			}
		}

		report, err := w.GenerateReport(ctx)
		if err != nil {
			return err
		}
		return writeCER(cmd, a, report, out)
	}),
}

var cerPDFCmd = &cobra.Command{
	Use:   "pdf <report-id>",
	Short: "Download the PDF export of a generated report",
	Long: `PDF downloads the export to --out. Without --out it prints the URL to open
in a browser.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			fmt.Fprintln(cmd.OutOrStdout(), a.client.CERPDFURL(args[0]))
			return nil
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		n, err := a.client.DownloadCERPDF(cmd.Context(), args[0], f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(out)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, n)
		return nil
	}),
}

// selectWithProgress selects pmids and prefetches their abstracts.
func selectWithProgress(ctx context.Context, w io.Writer, cer *workflow.CER, pmids []string) error {
	missing := cer.Abstracts.Missing(pmids)
	if len(missing) == 0 {
		return cer.SelectPublications(ctx, pmids...)
	}
	progress := newReporter(w)
	progress.Start(len(missing), "Fetching abstracts")
	defer progress.Finish()
	if err := cer.SelectPublications(ctx, pmids...); err != nil {
		return err
	}
	progress.Add(len(missing))
	return nil
}

const doneItem = "Done"

// pickInteractively lets the user toggle publications and event terms and
// fill the device form.
func pickInteractively(ctx context.Context, w io.Writer, cer *workflow.CER) error {
	pubs := cer.Literature.Results()
	if len(pubs) == 0 {
		fmt.Fprintln(w, "No literature results to pick from; use --query.")
	}
	for len(pubs) > 0 {
		selected := map[string]bool{}
		for _, id := range cer.SelectedPMIDs() {
			selected[id] = true
		}
		items := make([]string, 0, len(pubs)+1)
		for _, p := range pubs {
			items = append(items, toggleLabel(selected[p.PMID], p.PMID+"  "+p.Title))
		}
		items = append(items, doneItem)

		idx, _, err := (&promptui.Select{Label: "Toggle publications", Items: items, Size: 12}).Run()
		if err != nil {
			return fmt.Errorf("publication selection: %w", err)
		}
		if idx == len(pubs) {
			break
		}
		if _, err := cer.TogglePublication(ctx, pubs[idx].PMID); err != nil {
			return err
		}
	}

	events := cer.Events.Results()
	for len(events) > 0 {
		selected := map[string]bool{}
		for _, t := range cer.SelectedTerms() {
			selected[t] = true
		}
		items := make([]string, 0, len(events)+1)
		for _, e := range events {
			items = append(items, toggleLabel(selected[e.Term], fmt.Sprintf("%s (%d)", e.Term, e.Count)))
		}
		items = append(items, doneItem)

		idx, _, err := (&promptui.Select{Label: "Toggle adverse events", Items: items, Size: 12}).Run()
		if err != nil {
			return fmt.Errorf("event selection: %w", err)
		}
		if idx == len(events) {
			break
		}
		cer.ToggleEvent(events[idx].Term)
	}

	form := cer.Generate.Form()
	for _, field := range []string{workflow.FieldDeviceName, workflow.FieldManufacturer, workflow.FieldIntendedUse} {
		p := promptui.Prompt{Label: field, Default: form.Get(field)}
		if field == workflow.FieldDeviceName {
			p.Validate = func(s string) error {
				if strings.TrimSpace(s) == "" {
					return apperr.Missing(workflow.FieldDeviceName)
				}
				return nil
			}
		}
		v, err := p.Run()
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		cer.SetDevice(field, v)
	}
	return nil
}

func toggleLabel(on bool, text string) string {
	if on {
		return "[x] " + text
	}
	return "[ ] " + text
}

// writeCER prints the report and writes the HTML export when out is set.
func writeCER(cmd *cobra.Command, a *app, report types.CERReport, out string) error {
	doc := render.CERDocument(report)
	if out != "" {
		if err := writeHTML(out, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	}
	if ok, err := a.structured(cmd, render.SanitizeCER(report)); ok {
		return err
	}
	doc.Text(cmd.OutOrStdout())
	if report.ID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nReport %s. PDF: %s\n", report.ID, a.client.CERPDFURL(report.ID))
	}
	return nil
}

func writeHTML(path string, doc render.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := doc.HTML(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	f := cerGenerateCmd.Flags()
	f.String("query", "", "literature search query")
	f.StringSlice("pmid", nil, "PMIDs to include (comma-separated or repeated)")
	f.String("drug", "", "product name for the adverse-event search (default: --device)")
	f.StringSlice("event", nil, "adverse-event terms to include")
	f.String("device", "", "device name (required)")
	f.String("manufacturer", "", "device manufacturer")
	f.String("intended-use", "", "intended use statement")
	f.String("classification", "", "device classification, e.g. Class III")
	f.BoolP("interactive", "i", false, "pick selections and device details from menus")
	f.String("out", "", "also write the report as a standalone HTML file")

	cerPDFCmd.Flags().String("out", "", "file to write the PDF to")

	cerCmd.AddCommand(cerGenerateCmd, cerPDFCmd)
	rootCmd.AddCommand(cerCmd)
}
