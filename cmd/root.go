package cmd

import (
	"fmt"
	"os"

	"blob-gateway/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd is the blob-gateway command tree.
var RootCmd = &cobra.Command{
	Use:   "blob-gateway",
	Short: "Public and protected file storage gateway",
	Long: `blob-gateway keeps files in two containers of one object store
(Azure Blob, S3, MinIO or in-memory). Public files are served by their
object URL, protected files by short-lived signed URLs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	l.Error("command failed", zap.Error(err))
	_ = l.Sync()
}
