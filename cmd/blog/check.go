package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkmqflx/blog"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that post routes and post folders agree",
	Long: `check loads the post store, scans the posts directory and reports
folders without a post and posts without a folder. It exits non-zero on any
disagreement.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := blog.New(siteConfig)
		if err != nil {
			return err
		}
		m, err := app.CheckRoutes(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, route := range m.Orphans {
			fmt.Fprintf(out, "orphan folder: %s\n", route)
		}
		for _, route := range m.Missing {
			fmt.Fprintf(out, "missing folder: %s\n", route)
		}
		if err := m.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "ok: %s matches %s\n", siteConfig.PostsStore, siteConfig.PostsDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
