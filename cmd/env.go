package cmd

import (
	"fmt"
	"os"

	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/config"
	"github.com/ruvdl/ruvdl/style"
	"github.com/ruvdl/ruvdl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables that override settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rows := envRows(
			lo.Must(cmd.Flags().GetBool("set-only")),
			lo.Must(cmd.Flags().GetBool("unset-only")),
		)
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Variable", "Setting", "Value"}, rows, nil))
	},
}

// envVariables maps each variable name to the setting it overrides.
func envVariables() map[string]string {
	vars := map[string]string{where.EnvConfigPath: "config directory"}
	for _, name := range config.EnvExposed {
		field := config.Default[name]
		vars[field.Env()] = name
	}
	return vars
}

// envRows lists variables sorted by name, with their current value.
func envRows(setOnly, unsetOnly bool) [][]string {
	vars := envVariables()
	names := lo.Keys(vars)
	slices.Sort(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		value, present := os.LookupEnv(name)
		if (setOnly && !present) || (unsetOnly && present) {
			continue
		}

		if present {
			value = style.Fg(color.Green)(value)
		} else {
			value = style.Faint("unset")
		}
		rows = append(rows, []string{name, vars[name], value})
	}
	return rows
}
