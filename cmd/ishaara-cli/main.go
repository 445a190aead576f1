// Command ishaara-cli classifies local images, watches a camera and manages
// the phrase dictionary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/ishaara/internal/config"
	"github.com/mama165/sdk-go/logs"
)

const usage = `Usage: ishaara-cli <command> [arguments]

Commands:
  classify FILE...                 classify still images
  watch [-camera N|-source PATH]   translate a live camera or video file
  phrases list                     show the phrase dictionary
  phrases set TAG TEXT             override the text for a gesture
  phrases reset TAG                restore the built-in text
  artifacts                        list verified model files
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// The CLI never loads the letter model.
	cfg.LettersEnabled = false
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "classify":
		return runClassify(ctx, cfg, log, args[1:])
	case "watch":
		return runWatch(ctx, cfg, log, args[1:])
	case "phrases":
		return runPhrases(cfg, args[1:])
	case "artifacts":
		return runArtifacts(cfg)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
