package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/icon"
	"github.com/ruvdl/ruvdl/provider"
	"github.com/ruvdl/ruvdl/style"
	"github.com/ruvdl/ruvdl/util"
	"github.com/ruvdl/ruvdl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sitesCmd)
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage built-in and custom site profiles",
}

func init() {
	sitesCmd.AddCommand(sitesListCmd)

	sitesListCmd.Flags().BoolP("raw", "r", false, "Suppress headers and show only profile ids")
	sitesListCmd.Flags().BoolP("custom", "c", false, "Display only custom profiles")
	sitesListCmd.Flags().BoolP("builtin", "b", false, "Display only built-in profiles")

	sitesListCmd.MarkFlagsMutuallyExclusive("custom", "builtin")
	sitesListCmd.SetOut(os.Stdout)
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every site profile",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.Blue).Bold(true).Render
		h := func(s string) {
			if !raw {
				cmd.Println(headerStyle(s))
			}
		}
		line := func(p *provider.Provider) {
			if raw {
				cmd.Println(p.ID)
				return
			}

			profile, err := p.Profile()
			if err != nil {
				cmd.Printf("%s %s %s\n", icon.Get(icon.Fail), p.ID, style.Faint(err.Error()))
				return
			}
			cmd.Printf("%s %s %s\n", style.Bold(p.ID), p.Name, style.Faint(strings.Join(profile.Hosts, ", ")))
		}

		printBuiltin := func() {
			h("Builtin:")
			lo.ForEach(provider.Builtins(), func(p *provider.Provider, _ int) { line(p) })
		}

		printCustom := func() {
			h("Custom:")
			lo.ForEach(provider.Customs(), func(p *provider.Provider, _ int) { line(p) })
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("builtin")):
			printBuiltin()
		case lo.Must(cmd.Flags().GetBool("custom")):
			printCustom()
		default:
			printBuiltin()
			if !raw {
				cmd.Println()
			}
			printCustom()
		}
	},
}

func init() {
	sitesCmd.AddCommand(sitesNewCmd)

	sitesNewCmd.Flags().StringP("name", "n", "", "Display name of the new site")
	sitesNewCmd.Flags().StringSliceP("host", "H", nil, "Host the profile applies to (repeatable)")
}

var sitesNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a site profile prefilled with the RÚV defaults",
	Long: `Create a TOML site profile in the sites directory.
Only the fields that differ from the built-in RÚV profile need to be kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("name"))
		if name == "" {
			handleErr(survey.AskOne(&survey.Input{Message: "Site name"}, &name, survey.WithValidator(survey.Required)))
		}

		path, err := provider.Create(name, lo.Must(cmd.Flags().GetStringSlice("host")))
		handleErr(err)

		cmd.Printf("%s %s\n", icon.Get(icon.Success), path)
	},
}

func init() {
	sitesCmd.AddCommand(sitesRemoveCmd)

	sitesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Id of the custom profile(s) to remove")
	lo.Must0(sitesRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(provider.Customs(), func(p *provider.Provider, _ int) string {
			return p.ID
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

var sitesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove custom site profiles",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sites(), util.SanitizeFilename(name)+".toml")
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}
