package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"blob-gateway/feature/files"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var uploadProtected bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a local file",
	Long: `Uploads a local file to the public container under its own name, or
with --protected to the protected container under a timestamped key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := openGateway(cmd.Context())
		if err != nil {
			return err
		}
		defer logg.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		name := filepath.Base(args[0])
		var res files.UploadResult
		if uploadProtected {
			res, err = svc.UploadProtected(cmd.Context(), f, name)
		} else {
			res, err = svc.Upload(cmd.Context(), f, name)
		}
		if err != nil {
			return err
		}

		logg.Info("Upload complete", zap.String("key", res.Key), zap.String("url", res.URL))
		fmt.Fprintln(cmd.OutOrStdout(), res.Key)
		return nil
	},
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadProtected, "protected", false, "Store in the protected container")
	RootCmd.AddCommand(uploadCmd)
}
