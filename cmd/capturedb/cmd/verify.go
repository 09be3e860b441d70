package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nxshot/capturedb/pkg/captureid"
)

// verifyCmd validates the configured key without touching the network.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the configured capture ID key",
	Long: `Verify checks that CAPTURE_ID_KEY is set, is 32 hex characters, and
matches the pinned digest. Exits with code 2 on any key failure, the same
way update would before fetching anything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := captureid.ParseKey(viper.GetString("capture_id_key"), captureid.ExpectedKeyDigest)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "key OK (digest %s)\n", key.Digest())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
