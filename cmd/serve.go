package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dashwise-cli/internal/logger"
	"github.com/KaramelBytes/dashwise-cli/internal/server"
)

var (
	serveAddr string
	serveSeed int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive dashboard in the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		loc, err := c.Location()
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(server.Options{
			Location:   loc,
			Load:       c.LoadOptions(),
			Suggest:    c.SuggestOptions(),
			DemoDays:   c.DemoDays,
			SessionTTL: c.SessionTTL(),
			Seed:       serveSeed,
		}, logger.Get())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "DashWise running at http://%s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 0, "random seed for suggestion rotation and demo data (0 seeds from the clock)")
}
