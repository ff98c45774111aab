package main

import (
	"fmt"

	"github.com/alecgard/namegen/internal/auth"
	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an admin API key and its bcrypt hash",
	Long:  "Generate an admin API key. Give the key to administrators and put the hash in auth.admin_key_hash or NAMEGEN_ADMIN_KEY_HASH. The key is shown only once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := auth.GenerateAdminKey()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, field("key", nameStyle.Render(key.Plaintext)))
		fmt.Fprintln(w, field("hash", key.Hash))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
