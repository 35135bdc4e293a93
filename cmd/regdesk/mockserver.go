package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regdesk/internal/fakeapi"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a fake backend with canned data for local use",
	Long: `Mock-server serves every endpoint the CLI calls with canned data, so the
workflows can be tried without a backend. Point the CLI at it with
--base-url http://localhost:8080.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		token, _ := cmd.Flags().GetString("token")

		fake := fakeapi.New(entry(cmd))
		fake.RequireToken(token)
		srv := &http.Server{
			Addr:              addr,
			Handler:           fake.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()
		fmt.Fprintf(cmd.OutOrStdout(), "Fake backend listening on %s\n", addr)

		select {
		case err := <-errc:
			return err
		case <-cmd.Context().Done():
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	mockServerCmd.Flags().String("addr", ":8080", "listen address")
	mockServerCmd.Flags().String("token", "", "require this bearer token on every request")
	rootCmd.AddCommand(mockServerCmd)
}
