package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wavsift/internal/config"
	"wavsift/internal/manifest"
	"wavsift/internal/sieve"
)

type filterOptions struct {
	input        string
	output       string
	minLength    int64
	maxLength    int64
	verify       bool
	manifestPath string

	// set from flag presence so config-file defaults only apply when the
	// corresponding flag was omitted
	minSet    bool
	hasMax    bool
	verifySet bool
}

func runFilter(cmd *cobra.Command, ctx *commandContext, opts *filterOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.newLogger(cfg)
	if err != nil {
		return err
	}

	bounds := sieve.Bounds{MinMS: cfg.Filter.MinLengthMS}
	if opts.minSet {
		bounds.MinMS = opts.minLength
	}
	switch {
	case opts.hasMax:
		bounds.MaxMS, bounds.HasMax = opts.maxLength, true
	case cfg.Filter.MaxLengthMS >= 0:
		bounds.MaxMS, bounds.HasMax = cfg.Filter.MaxLengthMS, true
	}
	if bounds.MinMS < 0 {
		return errors.New("--min-length must not be negative")
	}
	if bounds.HasMax && bounds.MaxMS < 0 {
		return errors.New("--max-length must not be negative")
	}

	verify := cfg.Copy.Verify
	if opts.verifySet {
		verify = opts.verify
	}

	input, err := config.ExpandPath(opts.input)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	output, err := config.ExpandPath(opts.output)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	var store *manifest.Store
	manifestPath := strings.TrimSpace(opts.manifestPath)
	if manifestPath == "" && cfg.Manifest.Enabled {
		manifestPath = cfg.Manifest.Path
	}
	if manifestPath != "" {
		expanded, err := config.ExpandPath(manifestPath)
		if err != nil {
			return fmt.Errorf("resolve manifest path: %w", err)
		}
		store, err = manifest.Open(expanded)
		if err != nil {
			return fmt.Errorf("open manifest: %w", err)
		}
		defer store.Close()
	}

	s := sieve.New(sieve.Options{
		Logger:   logger,
		Manifest: store,
		LockPath: cfg.LockPath(),
		Verify:   verify,
	})
	report, err := s.Run(cmd.Context(), input, output, bounds)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Filtered and copied %d WAV files to %s\n", report.Copied, output)
	return nil
}
