package commands

import (
	"context"
	"smm-wrapper/lib/restyutil"
	"smm-wrapper/lib/smm"
	"smm-wrapper/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	flagConfig Config
	debug      bool
	dumpDir    string
	raw        bool
	format     string
)

// initialized by the root command before any subcommand runs
var client smm.SMM

var rootCmd = &cobra.Command{
	Use:   "smm-cli",
	Short: "smm-cli queries the social media monitoring service.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)

		err := checkFormat(format)
		if err != nil {
			return err
		}

		fileConfig, err := readConfig(configPath)
		if err != nil {
			return err
		}
		cfg := mergeFlags(fileConfig, cmd.Flags(), flagConfig)
		err = cfg.validate()
		if err != nil {
			return err
		}

		opts := cfg.options()
		if dumpDir != "" {
			output, err := restyutil.NewFilesystemOutput(dumpDir)
			if err != nil {
				return err
			}
			opts.Dump = output
		}

		client, err = smm.New(opts)
		return err
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "smm.json5", "The config file, overridden by <name>.local.json5 and flags.")
	bindConfigFlags(flags, &flagConfig)
	flags.BoolVar(&debug, "debug", false, "Log requests and responses.")
	flags.StringVar(&dumpDir, "dump", "", "Write every http exchange into this directory, which must be empty or missing.")
	flags.BoolVar(&raw, "raw", false, "Print the decoded json responses instead of tables.")
	flags.StringVar(&format, "format", formatTable, "The table format: table, csv, markdown or html.")
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
