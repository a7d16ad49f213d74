package cmd

import (
	"os"
	"time"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/inline"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/network"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("json", "j", false, "Print a JSON document instead of plain lines")
	listCmd.Flags().BoolP("metadata", "m", false, "Also extract every listed episode page, pausing download.delay seconds between them")
	listCmd.Flags().StringP("episodes", "e", "", "Episodes to list: first, last, all, N, A-B or @text@")
	listCmd.Flags().StringP("output", "O", "", "Write to this file instead of stdout")
	listCmd.Flags().StringP("site", "s", "", "Site profile to use instead of matching the URL host")
	lo.Must0(listCmd.RegisterFlagCompletionFunc("site", completionSites))

	listCmd.AddCommand(listSchemaCmd)
}

var listCmd = &cobra.Command{
	Use:     "list <series-url>",
	Short:   "List the episodes of a series without downloading",
	Example: "  ruvdl list https://www.ruv.is/sjonvarp/spila/bubbi-byggir/37750/b80cbf --json --episodes 1-3",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(validateURL(args[0]))

		options := &inline.Options{
			Out:      cmd.OutOrStdout(),
			URL:      args[0],
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Metadata: lo.Must(cmd.Flags().GetBool("metadata")),
			Delay:    time.Duration(viper.GetInt(key.DownloadDelay)) * time.Second,
		}

		if description := lo.Must(cmd.Flags().GetString("episodes")); description != "" {
			filter, err := inline.ParseEpisodesFilter(description)
			handleErr(err)
			options.EpisodesFilter = mo.Some(filter)
		}

		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			options.Out = file
		}

		src, err := createSource(cmd, network.New(network.OptionsFromConfig()), args[0])
		handleErr(err)
		options.Source = src

		handleErr(inline.Run(cmd.Context(), options))
	},
}

var listSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of list --json",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := inline.Schema()
		handleErr(err)
		_, err = os.Stdout.Write(schema)
		handleErr(err)
	},
}
