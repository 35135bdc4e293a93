package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/api"
	"github.com/pdiddy/regdesk/internal/render"
	"github.com/pdiddy/regdesk/pkg/types"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate text, CSRs and regulatory documents",
}

// translateRun builds the request for kind from args and flags.
func translateRun(kind api.TranslationKind) func(*cobra.Command, []string) error {
	return withApp(func(cmd *cobra.Command, args []string, a *app) error {
		to, _ := cmd.Flags().GetString("to")
		from, _ := cmd.Flags().GetString("from")
		req := types.TranslationRequest{SourceLang: from, TargetLang: to}
		switch kind {
		case api.TranslateCSR:
			req.CSRID = strings.Join(args, "")
		default:
			req.Text = strings.Join(args, " ")
		}
		if kind == api.TranslateRegulatory {
			req.Region, _ = cmd.Flags().GetString("region")
		}

		res, err := a.client.Translate(cmd.Context(), kind, req)
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, res); ok {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.TranslatedText)
		for _, n := range res.Notes {
			fmt.Fprintf(cmd.OutOrStdout(), "note: %s\n", n)
		}
		return nil
	})
}

var translateTextCmd = &cobra.Command{
	Use:   "text <text>",
	Short: "Translate free text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  translateRun(api.TranslateText),
}

var translateCSRCmd = &cobra.Command{
	Use:   "csr <csr-id>",
	Short: "Translate a Clinical Study Report from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  translateRun(api.TranslateCSR),
}

var translateRegulatoryCmd = &cobra.Command{
	Use:   "regulatory <text>",
	Short: "Translate regulatory text with region-specific terminology",
	Args:  cobra.MinimumNArgs(1),
	RunE:  translateRun(api.TranslateRegulatory),
}

var translateLanguagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		langs, err := a.client.TranslationLanguages(cmd.Context())
		if err != nil {
			return err
		}
		if ok, err := a.structured(cmd, langs); ok {
			return err
		}
		render.Languages(cmd.OutOrStdout(), langs)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{translateTextCmd, translateCSRCmd, translateRegulatoryCmd} {
		c.Flags().String("to", "", "target language code, e.g. de (required)")
		c.Flags().String("from", "", "source language code (default: detect)")
	}
	translateRegulatoryCmd.Flags().String("region", "", "regulatory region, e.g. EU, FDA, PMDA")

	translateCmd.AddCommand(translateTextCmd, translateCSRCmd, translateRegulatoryCmd, translateLanguagesCmd)
	rootCmd.AddCommand(translateCmd)
}
