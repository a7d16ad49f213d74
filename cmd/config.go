package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/config"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/icon"
	"github.com/ruvdl/ruvdl/style"
	"github.com/ruvdl/ruvdl/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	keys := lo.Keys(config.Default)
	sort.Strings(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// configFields returns the named fields, or every field when names is empty, sorted by key.
func configFields(names []string) ([]config.Field, error) {
	if len(names) == 0 {
		names = lo.Keys(config.Default)
	}

	fields := make([]config.Field, 0, len(names))
	for _, name := range names {
		field, ok := config.Default[name]
		if !ok {
			return nil, errUnknownKey(name)
		}
		fields = append(fields, field)
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})
	return fields, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd, configSetCmd, configGetCmd, configWriteCmd, configResetCmd)

	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	lo.Must0(configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))

	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")

	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings stored in ruvdl.toml",
}

// configInfoCmd shows a table of every setting, or the full description of the requested ones.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		names := lo.Must(cmd.Flags().GetStringSlice("key"))
		fields, err := configFields(names)
		handleErr(err)

		out := cmd.OutOrStdout()
		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(out).Encode(fields))
			return
		}

		if len(names) > 0 {
			for i, field := range fields {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, field.Pretty())
			}
			return
		}

		rows := lo.Map(fields, func(f config.Field, _ int) []string {
			value := fmt.Sprint(viper.Get(f.Key))
			if value != fmt.Sprint(f.Value) {
				value = style.Fg(color.Yellow)(value)
			}
			return []string{f.Key, value, fmt.Sprint(f.Value)}
		})
		fmt.Fprintln(out, renderTable([]string{"Key", "Value", "Default"}, rows, nil))
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>...",
	Short:             "Validate and store a setting",
	Example:           "  ruvdl config set manifest.formats json,nfo\n  ruvdl config set download.delay 5",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		v, err := parseSetting(name, args[1:])
		handleErr(err)

		viper.Set(name, v)
		handleErr(saveConfig())

		fmt.Fprintf(
			cmd.OutOrStdout(),
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(name),
			style.Fg(color.Yellow)(fmt.Sprint(v)),
		)
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the effective value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if _, ok := config.Default[args[0]]; !ok {
			handleErr(errUnknownKey(args[0]))
		}
		fmt.Fprintln(cmd.OutOrStdout(), viper.Get(args[0]))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective settings to the config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := config.Path()
		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Fprintf(cmd.OutOrStdout(), "%s wrote config to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]...",
	Short:             "Restore settings to their defaults",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) > 0) {
			handleErr(errors.New("pass keys to reset or --all"))
		}

		names := args
		if all {
			names = nil
		}
		fields, err := configFields(names)
		handleErr(err)

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		handleErr(saveConfig())

		fmt.Fprintf(
			cmd.OutOrStdout(),
			"%s reset %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(util.Quantify(len(fields), "key", "keys")),
		)
	},
}
