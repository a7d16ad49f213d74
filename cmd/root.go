// Package cmd implements the command-line interface for ruvdl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/downloader"
	"github.com/ruvdl/ruvdl/icon"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/log"
	"github.com/ruvdl/ruvdl/manifest"
	"github.com/ruvdl/ruvdl/network"
	"github.com/ruvdl/ruvdl/provider"
	"github.com/ruvdl/ruvdl/query"
	"github.com/ruvdl/ruvdl/series"
	"github.com/ruvdl/ruvdl/source"
	"github.com/ruvdl/ruvdl/style"
	"github.com/ruvdl/ruvdl/util"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("site", "s", "", "Site profile to use instead of matching the URL host")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("site", completionSites))

	rootCmd.Flags().IntP("limit", "l", 0, "Process at most this many episodes")
	lo.Must0(viper.BindPFlag(key.DownloadLimit, rootCmd.Flags().Lookup("limit")))

	rootCmd.Flags().StringP("output-dir", "o", "", "Base directory for downloads")
	lo.Must0(viper.BindPFlag(key.DownloadOutputDir, rootCmd.Flags().Lookup("output-dir")))

	rootCmd.Flags().IntP("delay", "d", 0, "Seconds to wait between episodes")
	lo.Must0(viper.BindPFlag(key.DownloadDelay, rootCmd.Flags().Lookup("delay")))

	rootCmd.Flags().StringSliceP("format", "f", nil, "Manifest formats to write ("+strings.Join(manifest.Formats(), ", ")+")")
	lo.Must0(viper.BindPFlag(key.ManifestFormats, rootCmd.Flags().Lookup("format")))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return manifest.Formats(), cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.Flags().Bool("skip-existing", true, "Skip episodes that were already downloaded")
	lo.Must0(viper.BindPFlag(key.DownloadSkipExisting, rootCmd.Flags().Lookup("skip-existing")))

	rootCmd.Flags().BoolP("no-download", "n", false, "Only collect metadata and write the manifest")
}

var errNoSeriesURL = errors.New("series url is required")

// rootCmd downloads one series.
var rootCmd = &cobra.Command{
	Use:   constant.App + " <series-url>",
	Short: "Download every episode of a RÚV series",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Download every episode of a RÚV series, with a manifest next to the files"),
	Example: "  " + constant.App + " https://www.ruv.is/sjonvarp/spila/sammi-brunavordur-x/37768/b85s4f --limit 2",
	Args:    cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		seriesURL, err := seriesArg(cmd, args)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("no-download")) {
			viper.Set(key.DownloadEnabled, false)
		}

		handleErr(runSeries(cmd, seriesURL))
	},
}

func runSeries(cmd *cobra.Command, seriesURL string) error {
	client := network.New(network.OptionsFromConfig())
	src, err := createSource(cmd, client, seriesURL)
	if err != nil {
		return err
	}

	var dl downloader.Downloader
	if viper.GetBool(key.DownloadEnabled) {
		dl = downloader.FromConfig(client)
	}

	out := cmd.OutOrStdout()
	var erase func()
	if isTerminal(out) {
		erase = util.PrintErasable(fmt.Sprintf("%s Reading %s", icon.Get(icon.Progress), seriesURL))
	}

	report, err := series.Run(cmd.Context(), &series.Options{
		URL:          seriesURL,
		Source:       src,
		Downloader:   dl,
		Limit:        viper.GetInt(key.DownloadLimit),
		OutputDir:    viper.GetString(key.DownloadOutputDir),
		Delay:        time.Duration(viper.GetInt(key.DownloadDelay)) * time.Second,
		Formats:      viper.GetStringSlice(key.ManifestFormats),
		SkipExisting: viper.GetBool(key.DownloadSkipExisting),
		SaveHistory:  viper.GetBool(key.HistorySave),
		Progress: func(e *series.EpisodeReport) {
			if erase != nil {
				erase()
				erase = nil
			}
			fmt.Fprintf(out, "%s %s %s\n", outcomeIcon(e.Outcome), e.Candidate.Title, style.Faint(string(e.Outcome)))
		},
	})
	if erase != nil {
		erase()
	}

	if report != nil {
		printReport(out, report)

		if viper.GetBool(key.QuerySuggestions) {
			if err := query.Remember(seriesURL, report.Series.Title, 1); err != nil {
				log.Warn(err)
			}
		}
	}

	return err
}

// seriesArg returns the series URL argument.
// Without one the usage is printed and errNoSeriesURL returned.
func seriesArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		_ = cmd.Usage()
		return "", errNoSeriesURL
	}
	return args[0], validateURL(args[0])
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid series url: %q", raw)
	}
	return nil
}

// createSource picks the site profile from --site or the URL host.
func createSource(cmd *cobra.Command, client *network.Client, seriesURL string) (source.Source, error) {
	var (
		p   *provider.Provider
		err error
	)

	if site := lo.Must(cmd.Flags().GetString("site")); site != "" {
		var ok bool
		if p, ok = provider.Get(site); !ok {
			return nil, fmt.Errorf("site not found: %s", site)
		}
	} else if p, err = provider.ForURL(seriesURL); err != nil {
		return nil, err
	}

	return p.CreateSource(client)
}

func completionSites(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(provider.All(), func(p *provider.Provider, _ int) string {
		return p.ID
	}), cobra.ShellCompDirectiveNoFileComp
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		cancel()
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		err = errors.New("interrupted")
	}

	log.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}
