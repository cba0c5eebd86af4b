package main

import (
	"fmt"

	"github.com/Veraticus/scadenziario/internal/cache"
	"github.com/Veraticus/scadenziario/internal/cli"
	"github.com/spf13/cobra"
)

func cacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clean the analysis cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show how many analyses are cached",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cache.Open(cmd.Context(), a.settings.CachePath, a.settings.CacheTTL)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			n, err := c.Len()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache: %s\nAnalisi memorizzate: %d\n", a.settings.CachePath, n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove expired analyses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cache.Open(cmd.Context(), a.settings.CachePath, a.settings.CacheTTL)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			removed, err := c.Purge()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d analisi scadute rimosse", removed)))
			return nil
		},
	})

	return cmd
}
