package cmd

import (
	"fmt"
	"io"
	"os"

	"blob-gateway/feature/files"

	"github.com/spf13/cobra"
)

var (
	downloadVisibility string
	downloadOut        string
)

var downloadCmd = &cobra.Command{
	Use:   "download <key>",
	Short: "Download a stored file",
	Long:  `Writes the stored object to --out, or to stdout when --out is empty.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		visibility, err := files.ParseVisibility(downloadVisibility)
		if err != nil {
			return err
		}

		svc, logg, err := openGateway(cmd.Context())
		if err != nil {
			return err
		}
		defer logg.Sync()

		rc, err := svc.OpenDownloadStream(cmd.Context(), args[0], visibility)
		if err != nil {
			return err
		}
		defer rc.Close()

		var w io.Writer = cmd.OutOrStdout()
		if downloadOut != "" {
			f, err := os.Create(downloadOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", downloadOut, err)
			}
			defer f.Close()
			w = f
		}

		if _, err := io.Copy(w, rc); err != nil {
			return fmt.Errorf("failed to write download: %w", err)
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVar(&downloadVisibility, "visibility", "protected", "public or protected")
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "Output file (default stdout)")
	RootCmd.AddCommand(downloadCmd)
}
