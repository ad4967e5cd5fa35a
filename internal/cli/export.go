package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mrlokans/weread-exporter/internal/config"
	"github.com/mrlokans/weread-exporter/internal/export"
	"github.com/mrlokans/weread-exporter/internal/exporters"
	"github.com/mrlokans/weread-exporter/internal/services"
	"github.com/mrlokans/weread-exporter/internal/weread"
)

// ExportCommand runs a full notebook export from the command line,
// without the HTTP server.
type ExportCommand struct {
	Cookie     string
	CookieFile string
	OutputDir  string
	Pacing     time.Duration
	Budget     time.Duration
	MaxBooks   int
	UserAgent  string
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.Cookie, "cookie", "", "WeRead session cookie string (falls back to WEREAD_COOKIE, then -cookie-file)")
	fs.StringVar(&cmd.CookieFile, "cookie-file", "cookie.txt", "File containing the cookie string")
	fs.StringVar(&cmd.OutputDir, "output", config.DefaultOutputDir, "Directory for the generated JSON and xlsx files")
	fs.DurationVar(&cmd.Pacing, "pacing", 0, "Delay between books (default 1s)")
	fs.DurationVar(&cmd.Budget, "budget", 0, "Soft wall-clock limit for the whole run (0 disables)")
	fs.IntVar(&cmd.MaxBooks, "max-books", 0, "Only process the first N books (0 means all)")
	fs.StringVar(&cmd.UserAgent, "user-agent", "", "Override the browser user agent")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export every highlighted book of a WeRead account to JSON and xlsx.\n\n")
		fmt.Fprintf(os.Stderr, "The session cookie is taken from -cookie, then the WEREAD_COOKIE\n")
		fmt.Fprintf(os.Stderr, "environment variable, then the -cookie-file contents. Copy it from\n")
		fmt.Fprintf(os.Stderr, "the browser's request headers while logged in at weread.qq.com.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  WEREAD_COOKIE='wr_vid=...; wr_skey=...' %s export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -cookie-file ./cookie.txt -max-books 5 -budget 2m\n", os.Args[0])
	}

	return fs.Parse(args)
}

// resolveCookie picks the cookie from the flag, the environment, or the
// cookie file, in that order.
func (cmd *ExportCommand) resolveCookie() (string, error) {
	if cookie := strings.TrimSpace(cmd.Cookie); cookie != "" {
		return cookie, nil
	}
	if cookie := strings.TrimSpace(os.Getenv("WEREAD_COOKIE")); cookie != "" {
		return cookie, nil
	}
	data, err := os.ReadFile(cmd.CookieFile)
	if err != nil {
		return "", fmt.Errorf("no cookie given and could not read %s: %w", cmd.CookieFile, err)
	}
	cookie := strings.TrimSpace(string(data))
	if cookie == "" {
		return "", fmt.Errorf("cookie file %s is empty", cmd.CookieFile)
	}
	return cookie, nil
}

func (cmd *ExportCommand) Run() error {
	fmt.Println("WeRead Export")
	fmt.Println("=============")

	cookie, err := cmd.resolveCookie()
	if err != nil {
		return err
	}

	client := weread.NewClient()
	service := services.NewExportService(client, export.Options{
		Pacing:   cmd.Pacing,
		Budget:   cmd.Budget,
		MaxBooks: cmd.MaxBooks,
	}, nil, cmd.UserAgent)

	started := time.Now()
	batch, err := service.Run(context.Background(), cookie, "", export.LogSink{})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	artifacts, err := exporters.WriteArtifacts(cmd.OutputDir, started, batch.Books)
	if err != nil && artifacts.JSONFile == "" && artifacts.ExcelFile == "" {
		return fmt.Errorf("failed to write export files: %w", err)
	}

	fmt.Printf("\nExported %d books with %d annotations in %s\n",
		len(batch.Books), batch.NoteCount(), time.Since(started).Round(time.Second))
	if batch.Truncated {
		fmt.Println("Warning: the run was truncated, results are partial")
	}
	if artifacts.JSONFile != "" {
		fmt.Printf("  JSON:  %s/%s/%s\n", cmd.OutputDir, artifacts.Dir, artifacts.JSONFile)
	}
	if artifacts.ExcelFile != "" {
		fmt.Printf("  Excel: %s/%s/%s\n", cmd.OutputDir, artifacts.Dir, artifacts.ExcelFile)
	}
	if err != nil {
		fmt.Printf("Warning: one export sink failed: %v\n", err)
	}

	return nil
}
