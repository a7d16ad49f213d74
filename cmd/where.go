package cmd

import (
	"fmt"

	"github.com/ruvdl/ruvdl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a path the where command can print on its own with --<flag>.
type location struct {
	name string
	flag string
	path func() string
}

var locations = []location{
	{"Config", "config", where.Config},
	{"Sites", "sites", where.Sites},
	{"Logs", "logs", where.Logs},
	{"History", "history", where.History},
	{"Pages", "pages", where.Pages},
	{"Queries", "queries", where.Queries},
	{"Locks", "locks", where.Locks},
	{"Temp", "temp", where.Temp},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	for _, l := range locations {
		whereCmd.Flags().Bool(l.flag, false, "Print only the "+l.name+" path")
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)
}

var whereCmd = &cobra.Command{
	Use:     "where",
	Short:   "Show where settings, site profiles, history and caches live",
	Example: "  cd \"$(ruvdl where --sites)\"",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				fmt.Fprintln(out, l.path())
				return
			}
		}

		rows := lo.Map(locations, func(l location, _ int) []string {
			return []string{l.name, l.path(), "--" + l.flag}
		})
		fmt.Fprintln(out, renderTable([]string{"What", "Path", "Flag"}, rows, nil))
	},
}
