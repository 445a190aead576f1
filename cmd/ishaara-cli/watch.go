package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ayusman/ishaara/internal/app"
	"github.com/ayusman/ishaara/internal/capture"
	"github.com/ayusman/ishaara/internal/config"
	"github.com/gookit/color"
)

func runWatch(ctx context.Context, cfg config.Config, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	camera := fs.Int("camera", 0, "camera device index")
	source := fs.String("source", "", "video file or stream URL (overrides -camera)")
	motion := fs.Float64("motion", capture.DefaultMotionPercent, "percent of changed pixels that counts as motion")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	target := *source
	if target == "" {
		target = strconv.Itoa(*camera)
	}
	src := capture.NewSource(target)

	gate := capture.NewMotionGate(*motion)
	defer gate.Close()

	watcher := app.NewWatcher(app.WatchConfig{}, src, gate, rt.Recognizer(), log)

	color.Cyan.Printf("Watching %s (Ctrl+C to stop)\n", target)
	err = watcher.Run(ctx, func(e app.Event) {
		fmt.Printf("%s  %s  %s\n",
			color.Gray.Sprint(e.At.Format("15:04:05")),
			color.New(color.FgGreen, color.OpBold).Sprint(e.Prediction.Text),
			color.Yellow.Sprintf("%s %.2f (motion %.1f%%)", e.Prediction.Tag, e.Prediction.Confidence, e.Motion),
		)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}
	return nil
}
