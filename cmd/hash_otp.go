package cmd

import (
	"fmt"

	"github.com/Daskott/rxlink/server/auth"
	"github.com/spf13/cobra"
)

// hashOTPCmd prints a bcrypt hash for use as 'rxlink.otp.value' with 'rxlink.otp.hashed: true'
var hashOTPCmd = &cobra.Command{
	Use:   "hash-otp [code]",
	Short: "Print the bcrypt hash of an OTP code for the server config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashOTP(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashOTPCmd)
}
