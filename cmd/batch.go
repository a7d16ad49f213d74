package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ruvdl/ruvdl/batch"
	"github.com/ruvdl/ruvdl/icon"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/style"
	"github.com/ruvdl/ruvdl/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("parallel", "p", 0, "How many series run at once (0 runs all at once)")
	lo.Must0(viper.BindPFlag(key.BatchParallel, batchCmd.Flags().Lookup("parallel")))
	batchCmd.Flags().Bool("verify", false, "Check every series directory after the runs finish")
	batchCmd.Flags().Bool("strict", false, "With --verify, also report unexpected files")
	batchCmd.Flags().BoolP("no-download", "n", false, "Pass --no-download to every run")

	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringP("output-dir", "o", "", "Base directory of the downloads (defaults to the batch file value)")
	verifyCmd.Flags().Bool("strict", false, "Also report files other than videos and manifests")
}

var batchCmd = &cobra.Command{
	Use:     "batch <file.toml>",
	Short:   "Download several series, each in its own process",
	Example: "  ruvdl batch series.toml --parallel 2 --verify",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := batch.LoadFile(args[0])
		handleErr(err)

		launcher := &batch.Exec{OutputDir: batchOutputDir(file)}
		if lo.Must(cmd.Flags().GetBool("no-download")) {
			launcher.Extra = append(launcher.Extra, "--no-download")
		}

		out := cmd.OutOrStdout()
		cmd.Printf("%s Running %s\n", icon.Get(icon.Progress), util.Quantify(len(file.Series), "series", "series"))

		results := batch.Run(cmd.Context(), file.Series, launcher, viper.GetInt(key.BatchParallel))
		printBatchResults(out, results)

		failed := lo.CountBy(results, func(r *batch.Result) bool { return !r.OK() })

		if lo.Must(cmd.Flags().GetBool("verify")) {
			failed += verifyJobs(out, launcher.OutputDir, file.Series, lo.Must(cmd.Flags().GetBool("strict")))
		}

		if failed > 0 {
			handleErr(fmt.Errorf("%s failed", util.Quantify(failed, "check", "checks")))
		}
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file.toml>",
	Short: "Check the series directories a batch file should have produced",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := batch.LoadFile(args[0])
		handleErr(err)

		root := lo.Must(cmd.Flags().GetString("output-dir"))
		if root == "" {
			root = batchOutputDir(file)
		}

		if failed := verifyJobs(cmd.OutOrStdout(), root, file.Series, lo.Must(cmd.Flags().GetBool("strict"))); failed > 0 {
			handleErr(fmt.Errorf("%s failed verification", util.Quantify(failed, "series", "series")))
		}
	},
}

func batchOutputDir(file *batch.File) string {
	if file.OutputDir != "" {
		return file.OutputDir
	}
	return viper.GetString(key.DownloadOutputDir)
}

func printBatchResults(out io.Writer, results []*batch.Result) {
	rows := lo.Map(results, func(r *batch.Result, _ int) []string {
		status := icon.Get(icon.Success)
		if !r.OK() {
			status = icon.Get(icon.Fail) + " exit " + strconv.Itoa(r.ExitCode)
		}
		return []string{r.Job.String(), status, r.Duration.Round(100 * time.Millisecond).String()}
	})
	fmt.Fprintln(out, renderTable([]string{"Series", "Status", "Took"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))

	for _, r := range results {
		if r.OK() || len(r.Output) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n%s\n", style.Tag(r.Job.String()), style.Faint(string(r.Output)))
	}
}

// verifyJobs prints one line per job and returns how many failed.
func verifyJobs(out io.Writer, root string, jobs []*batch.Job, strict bool) (failed int) {
	for _, job := range jobs {
		v := batch.Verify(root, job, strict)
		if v.OK() {
			fmt.Fprintf(out, "%s %s\n", icon.Get(icon.Success), job)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s %s: %s\n", icon.Get(icon.Fail), job, v)
	}
	return failed
}
