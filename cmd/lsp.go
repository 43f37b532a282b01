package cmd

import (
	"log/slog"

	"github.com/lavigneer/cppquickfix-lsp/pkg/lsp"
	"github.com/spf13/cobra"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server on stdio",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug)

		slog.Info("Setting up cppquickfix lsp")
		handler := lsp.NewHandler(cmd.Context())
		<-lsp.New(handler, logger).Start(cmd.Context())
		slog.Info("Connection closed")
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
}
