package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/downloader"
	"github.com/ruvdl/ruvdl/icon"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/network"
	"github.com/ruvdl/ruvdl/style"
	"github.com/ruvdl/ruvdl/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolP("latest", "L", false, "Compare the installed yt-dlp with its newest release")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the external download tools are installed",
	Run: func(cmd *cobra.Command, args []string) {
		binaries := downloader.CheckBinaries(requiredBinaries()...)
		for _, b := range binaries {
			if b.Found() {
				cmd.Printf("%s %s %s\n", icon.Get(icon.Success), style.Bold(b.Name), style.Faint(b.Path))
			}
		}

		missing := lo.Reject(binaries, func(b downloader.Binary, _ int) bool {
			return b.Found()
		})
		for _, b := range missing {
			cmd.Println(missingBinaryBox(b.Name))
		}

		if primary := binaries[0]; primary.Found() {
			checkVersion(cmd, primary.Path, lo.Must(cmd.Flags().GetBool("latest")))
		}

		if len(missing) > 0 {
			handleErr(fmt.Errorf("%s missing", strings.Join(lo.Map(missing, func(b downloader.Binary, _ int) string {
				return b.Name
			}), ", ")))
		}
	},
}

func checkVersion(cmd *cobra.Command, path string, latest bool) {
	if !latest {
		if v, err := version.Installed(cmd.Context(), path); err == nil {
			cmd.Printf("%s %s\n", style.Faint("installed"), v)
		}
		return
	}

	status, err := version.Check(cmd.Context(), path, network.New(network.OptionsFromConfig()))
	if err != nil {
		cmd.Printf("%s %s\n", icon.Get(icon.Warn), err)
		return
	}

	if status.Outdated {
		cmd.Printf("%s %s is older than %s, site support may be out of date\n",
			icon.Get(icon.Warn), style.Bold(status.Installed), style.Fg(color.Green)(status.Latest))
		return
	}
	cmd.Printf("%s %s is the newest release\n", icon.Get(icon.Success), style.Bold(status.Installed))
}

func requiredBinaries() []string {
	names := []string{viper.GetString(key.DownloaderPath)}
	if viper.GetBool(key.DownloaderFFmpeg) {
		names = append(names, "ffmpeg")
	}
	return names
}

func installHint(name string) string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install " + name
	case constant.Linux:
		if name == "yt-dlp" {
			return "pipx install yt-dlp"
		}
		return "sudo apt install " + name
	case constant.Windows:
		return "scoop install " + name
	default:
		return ""
	}
}

func missingBinaryBox(name string) string {
	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(color.Text).Render(fmt.Sprintf("'%s' was not found in your PATH.", name))

	suggestion := ""
	if hint := installHint(name); hint != "" {
		suggestion = fmt.Sprintf("\nTo install it, try running:\n  %s", style.New().Foreground(color.Accent).Bold(true).Render(hint))
	}

	return style.Box(color.HiRed, lipgloss.JoinVertical(lipgloss.Left, title, "", body, suggestion))
}
