package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"wavsift/internal/config"
	"wavsift/internal/scanner"
	"wavsift/internal/wavinfo"
)

type inspectEntry struct {
	Path       string `json:"path"`
	DurationMS int64  `json:"duration_ms"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <directory>",
		Short: "List WAV files under a directory with their durations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			var entries []inspectEntry
			walkErr := scanner.Walk(cmd.Context(), root, logger, func(c scanner.Candidate) error {
				info, probeErr := wavinfo.Probe(c.Path)
				entry := inspectEntry{Path: c.RelPath, DurationMS: -1}
				switch {
				case probeErr == nil:
					entry.DurationMS = info.DurationMS
					entry.SampleRate = info.SampleRate
					entry.Channels = info.Channels
					entry.Status = "ok"
				case errors.Is(probeErr, wavinfo.ErrMalformed):
					entry.Status = "malformed"
					entry.Error = probeErr.Error()
				default:
					entry.Status = "unreadable"
					entry.Error = probeErr.Error()
				}
				entries = append(entries, entry)
				return nil
			})
			if walkErr != nil {
				return walkErr
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeInspectJSON(out, entries)
			}
			fmt.Fprintln(out, renderInspectTable(entries))
			fmt.Fprintf(out, "%d WAV files\n", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderInspectTable(entries []inspectEntry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Path", "Duration", "Sample Rate", "Channels", "Status"})
	for _, entry := range entries {
		duration, rate, channels := "-", "-", "-"
		if entry.Status == "ok" {
			duration = strconv.FormatInt(entry.DurationMS, 10) + " ms"
			rate = strconv.Itoa(entry.SampleRate)
			channels = strconv.Itoa(entry.Channels)
		}
		tw.AppendRow(table.Row{entry.Path, duration, rate, channels, entry.Status})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func writeInspectJSON(w io.Writer, entries []inspectEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
