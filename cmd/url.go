package cmd

import (
	"fmt"

	"blob-gateway/feature/files"

	"github.com/spf13/cobra"
)

var urlVisibility string

var urlCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Print a retrieval URL",
	Long:  `Prints the object URL of a public file, or a signed URL for a protected one.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		visibility, err := files.ParseVisibility(urlVisibility)
		if err != nil {
			return err
		}

		svc, logg, err := openGateway(cmd.Context())
		if err != nil {
			return err
		}
		defer logg.Sync()

		u, err := svc.GetRetrievalURL(cmd.Context(), args[0], visibility)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	urlCmd.Flags().StringVar(&urlVisibility, "visibility", "protected", "public or protected")
	RootCmd.AddCommand(urlCmd)
}
