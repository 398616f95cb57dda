package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a file from both containers",
	Long: `Deletes the key from the public and the protected container. A key
that exists in neither is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := openGateway(cmd.Context())
		if err != nil {
			return err
		}
		defer logg.Sync()

		res := svc.Delete(cmd.Context(), args[0])
		if res.Failed() {
			logg.Warn("Delete finished with errors",
				zap.NamedError("public", res.Public.Err),
				zap.NamedError("protected", res.Protected.Err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "public: %t, protected: %t\n",
			res.Public.Deleted, res.Protected.Deleted)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deleteCmd)
}
