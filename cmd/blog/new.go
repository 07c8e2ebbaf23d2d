package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkmqflx/blog/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new blog site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		data := scaffold.Data{
			SiteName: scaffold.Title(filepath.Base(dir)),
			Date:     time.Now().Format("2006-01-02"),
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Creating new blog: %s\n\n", dir)

		created, err := scaffold.Write(dir, data)
		if err != nil {
			return err
		}
		for _, name := range created {
			fmt.Fprintf(out, "  created %s\n", filepath.Join(dir, name))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Done! Next steps:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  cd %s\n", dir)
		fmt.Fprintln(out, "  blog serve")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Edit blog.yaml to set the site URL before running 'blog build'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
