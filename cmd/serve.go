package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/aiready/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagnosis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.cfg.Server.Addr
		}
		if a.cfg.Logging.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		router := server.NewRouter(a.svc, a.exp, a.log)
		return server.Serve(ctx, addr, router, a.log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config server.addr)")
}
