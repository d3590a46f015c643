package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	md2pptx "github.com/xenking/md2pptx"
	"github.com/xenking/md2pptx/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Validate the embedded plugin manifest and print its tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plugin, err := manifest.Load(md2pptx.Manifest())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s %s\n", plugin.Name, plugin.Version)
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		for _, prov := range plugin.Providers {
			if err := enc.Encode(prov.Tools); err != nil {
				return err
			}
		}
		return nil
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tBACKGROUND\tTITLE\tTEXT\tACCENT")
		for _, name := range e.themes.Names() {
			t, _ := e.themes.Theme(name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, t.Background, t.TitleColor, t.TextColor, t.AccentColor)
		}
		return w.Flush()
	},
}
