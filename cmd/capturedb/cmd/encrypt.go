package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nxshot/capturedb/pkg/captureid"
)

// encryptCmd computes capture IDs for title IDs given on the command line.
var encryptCmd = &cobra.Command{
	Use:   "encrypt TITLE_ID...",
	Short: "Compute capture IDs for title IDs",
	Long: `Encrypt derives the capture ID for each given title ID using the
configured key. Useful for spot-checking individual titles against
screenshot filenames.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := captureid.ParseKey(viper.GetString("capture_id_key"), captureid.ExpectedKeyDigest)
		if err != nil {
			return err
		}

		for _, titleID := range args {
			id, err := captureid.Transform(titleID, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", titleID, id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
}
