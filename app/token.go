package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Miraubolant/MiroTrak-sub001/internal/apitoken"
)

func init() { //nolint: gochecknoinits
	tokenCmd.Flags().IntVarP(&tokenLength, "length", "l", apitoken.DefaultLength, "Token length in characters")

	rootCmd.AddCommand(tokenCmd)
}

var (
	tokenLength int

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Generate an api token and the hash to put in Webserver.APITokenHash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := apitoken.Generate(tokenLength)
			if err != nil {
				return err
			}

			hash, err := apitoken.Hash(token)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "token: %s\n", token)
			_, _ = fmt.Fprintf(out, "hash:  %s\n", hash)

			return nil
		},
	}
)
