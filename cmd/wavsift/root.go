package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevel string
	var logFormat string

	ctx := newCommandContext(&configFlag, &logLevel, &logFormat)
	opts := &filterOptions{}

	rootCmd := &cobra.Command{
		Use:   "wavsift --input <dir> --output <dir> [--min-length <ms>] [--max-length <ms>]",
		Short: "Filter WAV files by playback duration",
		Long: `wavsift recursively scans a directory tree for WAV files, reads each
file's duration from its header, and copies files whose duration falls
within the inclusive [min, max] millisecond window into the output tree,
preserving relative paths.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.minSet = cmd.Flags().Changed("min-length")
			opts.hasMax = cmd.Flags().Changed("max-length")
			opts.verifySet = cmd.Flags().Changed("verify")
			return runFilter(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Input directory scanned recursively for WAV files")
	flags.StringVarP(&opts.output, "output", "o", "", "Output directory for filtered files")
	flags.Int64VarP(&opts.minLength, "min-length", "m", 0, "Minimum duration in milliseconds, inclusive")
	flags.Int64VarP(&opts.maxLength, "max-length", "M", 0, "Maximum duration in milliseconds, inclusive (omit for no limit)")
	flags.BoolVar(&opts.verify, "verify", false, "Verify each copy with a SHA256 checksum")
	flags.StringVar(&opts.manifestPath, "manifest", "", "Record per-file outcomes to a SQLite manifest at this path")
	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
