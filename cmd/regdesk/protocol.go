package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/render"
	"github.com/pdiddy/regdesk/internal/workflow"
	"github.com/pdiddy/regdesk/pkg/types"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Optimize study protocols",
}

var protocolOptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a protocol from a summary",
	Long: `Optimize sends a protocol summary (--summary, or --summary-file) with its
indication and phase, and prints the recommendations.`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		summary, _ := cmd.Flags().GetString("summary")
		if path, _ := cmd.Flags().GetString("summary-file"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			summary = string(data)
		}

		w := workflow.NewProtocol(a.client, a.notifier)
		w.Set(workflow.FieldProtocolSummary, summary)
		setProtocolFields(cmd, w.Set)

		res, err := w.OptimizeSummary(cmd.Context())
		if err != nil {
			return err
		}
		return writeProtocol(cmd, a, res)
	}),
}

var protocolUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a protocol document and optimize it",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		w := workflow.NewProtocol(a.client, a.notifier)
		setProtocolFields(cmd, w.Set)
		res, err := w.UploadDocument(cmd.Context(), filepath.Base(args[0]), f)
		if err != nil {
			return err
		}
		return writeProtocol(cmd, a, res)
	}),
}

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Recommend trial endpoints",
}

var endpointRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend endpoints for an indication",
	Long: `Recommend asks for endpoint suggestions. Suggestions named with --pick are
marked and, with --format json or yaml, are the only ones printed.`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		w := workflow.NewEndpoint(a.client, a.notifier)
		setProtocolFields(cmd, w.Set)
		if n, _ := cmd.Flags().GetInt("count"); n > 0 {
			w.Set(workflow.FieldCount, fmt.Sprint(n))
		}

		eps, err := w.Suggest(cmd.Context())
		if err != nil {
			return err
		}
		picks, _ := cmd.Flags().GetStringSlice("pick")
		for _, p := range picks {
			w.Toggle(p)
		}
		chosen := map[string]bool{}
		for _, e := range w.Chosen() {
			chosen[e.Name] = true
		}

		if len(picks) > 0 {
			if ok, err := a.structured(cmd, w.Chosen()); ok {
				return err
			}
		} else if ok, err := a.structured(cmd, eps); ok {
			return err
		}
		render.Endpoints(cmd.OutOrStdout(), eps, func(name string) bool { return chosen[name] })
		return nil
	}),
}

func setProtocolFields(cmd *cobra.Command, set func(field, value string)) {
	indication, _ := cmd.Flags().GetString("indication")
	phase, _ := cmd.Flags().GetString("phase")
	set(workflow.FieldIndication, indication)
	set(workflow.FieldPhase, phase)
}

func writeProtocol(cmd *cobra.Command, a *app, res types.OptimizedProtocol) error {
	if ok, err := a.structured(cmd, render.SanitizeProtocol(res)); ok {
		return err
	}
	doc, err := render.ProtocolDocument(res)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := writeHTML(out, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	}
	doc.Text(cmd.OutOrStdout())
	return nil
}

func init() {
	for _, c := range []*cobra.Command{protocolOptimizeCmd, protocolUploadCmd, endpointRecommendCmd} {
		c.Flags().String("indication", "", "therapeutic indication")
		c.Flags().String("phase", "", "trial phase, e.g. Phase 2")
	}
	protocolOptimizeCmd.Flags().String("summary", "", "protocol summary text")
	protocolOptimizeCmd.Flags().String("summary-file", "", "read the protocol summary from a file")
	for _, c := range []*cobra.Command{protocolOptimizeCmd, protocolUploadCmd} {
		c.Flags().String("out", "", "also write the result as a standalone HTML file")
	}
	endpointRecommendCmd.Flags().Int("count", 0, "number of suggestions to ask for")
	endpointRecommendCmd.Flags().StringSlice("pick", nil, "suggestion names to keep")

	protocolCmd.AddCommand(protocolOptimizeCmd, protocolUploadCmd)
	endpointCmd.AddCommand(endpointRecommendCmd)
	rootCmd.AddCommand(protocolCmd, endpointCmd)
}
