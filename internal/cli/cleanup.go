package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/weread-exporter/internal/config"
	"github.com/mrlokans/weread-exporter/internal/tasks"
)

// CleanupCommand removes aged export artifacts once, without the server's
// scheduler.
type CleanupCommand struct {
	OutputDir      string
	RetentionHours int
}

func NewCleanupCommand() *CleanupCommand {
	return &CleanupCommand{}
}

func (cmd *CleanupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)

	fs.StringVar(&cmd.OutputDir, "output", config.DefaultOutputDir, "Directory holding export artifacts")
	fs.IntVar(&cmd.RetentionHours, "retention-hours", 24, "Remove artifacts older than this many hours")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete export artifacts older than the retention window.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CleanupCommand) Run() error {
	processor := tasks.CleanupOutputsProcessor()
	return processor(context.Background(), tasks.CleanupOutputsTask{
		OutputDir:      cmd.OutputDir,
		RetentionHours: cmd.RetentionHours,
	})
}
