package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ayusman/ishaara/internal/app"
	"github.com/ayusman/ishaara/internal/capture"
	"github.com/ayusman/ishaara/internal/config"
	"github.com/olekukonko/tablewriter"
)

func runClassify(ctx context.Context, cfg config.Config, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	opts := cfg.DecodeOptions()
	fs.IntVar(&opts.MaxDimension, "max-dimension", opts.MaxDimension, "downscale frames larger than this (0 keeps the source size)")
	fs.BoolVar(&opts.AutoOrient, "auto-orient", opts.AutoOrient, "apply JPEG EXIF orientation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("classify: no files given")
	}

	rt, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"File", "Tag", "Text", "Confidence", "Latency"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	failed := 0
	for _, path := range fs.Args() {
		row, err := classifyFile(ctx, rt.Recognizer(), path, opts)
		if err != nil {
			failed++
			table.Append([]string{filepath.Base(path), "-", err.Error(), "-", "-"})
			continue
		}
		table.Append(row)
	}
	table.Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, fs.NArg())
	}
	return nil
}

func classifyFile(ctx context.Context, translator app.Translator, path string, opts capture.DecodeOptions) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	frame, err := capture.DecodeBytes(data, opts)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	pred, err := translator.Translate(ctx, &frame)
	if err != nil {
		return nil, err
	}

	return []string{
		filepath.Base(path),
		string(pred.Tag),
		pred.Text,
		strconv.FormatFloat(pred.Confidence, 'f', 2, 64),
		pred.Latency.String(),
	}, nil
}
