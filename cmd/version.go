package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/ruvdl/ruvdl/config"
	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, build details and the downloader in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if lo.Must(cmd.Flags().GetBool("short")) {
			fmt.Fprintln(out, constant.Version)
			return
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		fmt.Fprintln(out, renderTable([]string{constant.App, constant.Version}, versionRows(ctx), nil))
	},
}

// versionRows describes the build and the configured external downloader.
func versionRows(ctx context.Context) [][]string {
	binary := viper.GetString(key.DownloaderPath)
	installed, err := version.Installed(ctx, binary)
	if err != nil {
		installed = "not found"
	}

	return [][]string{
		{"Revision", constant.Revision},
		{"Built", strings.TrimSpace(constant.BuiltAt) + " by " + constant.BuiltBy},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
		{"Go", runtime.Version()},
		{binary, installed},
		{"Config", config.Path()},
	}
}
