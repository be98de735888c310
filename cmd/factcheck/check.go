package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wordlift/factcheck/internal/config"
	"github.com/wordlift/factcheck/internal/render"
)

func newCheckCmd() *cobra.Command {
	var asJSON bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check <claim>",
		Short: "Fact-check a single claim and print the verdict",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(io.Discard, "", 0)
			if verbose {
				logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			}

			svc, err := buildService(config.Load(), logger)
			if err != nil {
				return err
			}

			claim := strings.Join(args, " ")
			review, err := svc.FactCheck(cmd.Context(), claim)
			if err != nil {
				return err
			}

			if asJSON {
				b, err := render.JSON(review)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Text(review))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw ClaimReview JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	return cmd
}
