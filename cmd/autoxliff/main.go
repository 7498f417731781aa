// Command autoxliff maintains XLIFF catalogs: it lists and edits units,
// seeds missing labels from templates and asks an AI provider for targets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/autoxliff"
	"github.com/ZaguanLabs/autoxliff/catalog"
	"github.com/ZaguanLabs/autoxliff/config"
	"github.com/ZaguanLabs/autoxliff/provider"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = autoxliff.Version
	commit    = autoxliff.GitCommit
	buildDate = autoxliff.BuildDate
)

// newSuggester builds the provider used by the suggest command.
var newSuggester = func(cfg config.OpenAIConfig, logger zerolog.Logger) autoxliff.Suggester {
	p := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	limited := autoxliff.NewRateLimitedSuggester(p, autoxliff.RateLimitConfig{
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	retry := autoxliff.DefaultRetryConfig()
	retry.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("retrying suggestion request")
	}
	return autoxliff.NewRetryableSuggester(limited, retry)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	store  *catalog.Store
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"list":            {"-package P [-source S] -lang L [-json]", runList},
	"add":             {"-package P [-source S] -lang L [-id ID] -text T [-target T]", runAdd},
	"update":          {"-package P [-source S] -lang L -id ID -text T -target T", runUpdate},
	"sync":            {"-package P [-source S]", runSync},
	"languages":       {"-package P", runLanguages},
	"create-language": {"-package P -lang L", runCreateLanguage},
	"create-source":   {"-package P -source S [-langs a,b]", runCreateSource},
	"diff":            {"[-json] OLD.xlf NEW.xlf", runDiff},
	"extract":         {"-package P [-source S] -lang L [-report file] [-resume file] files...", runExtract},
	"suggest":         {"-package P [-source S] -lang L [-dry-run] [-batch N]", runSuggest},
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(autoxliff.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Config file (.yaml, .yml or .toml)")
	root := fs.String("root", "", "Packages root directory (overrides config)")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion := fs.Bool("version", false, "Show version")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion || fs.Arg(0) == "version" {
		printVersion(stdout)
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("command is required")
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", *logLevel, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *root != "" {
		cfg.Root = *root
	}

	a := &app{
		cfg:    cfg,
		store:  catalog.NewStore(cfg.Layout(), catalog.WithSourceLanguage(cfg.SourceLanguage)),
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}

	return cmd.run(context.Background(), a, fs.Args()[1:])
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <command> [command flags]\n\n", autoxliff.Name)
	fmt.Fprintf(out, "%s\n\nCommands:\n", autoxliff.Description)

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-16s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(out, "  %-16s\n\nFlags:\n", "version")
	fs.PrintDefaults()
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", autoxliff.Name, version)
	if commit != "unknown" && commit != "" {
		fmt.Fprintf(w, "  commit:  %s\n", commit)
	}
	if buildDate != "unknown" && buildDate != "" {
		fmt.Fprintf(w, "  built:   %s\n", buildDate)
	}
}

// catalogFlags are shared by the commands that address one catalog.
type catalogFlags struct {
	pkg    *string
	source *string
	lang   *string
}

func newCommandFlags(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func addCatalogFlags(fs *flag.FlagSet, withLang bool) catalogFlags {
	cf := catalogFlags{
		pkg:    fs.String("package", "", "Package key (e.g. Acme.Shop)"),
		source: fs.String("source", autoxliff.DefaultSource, "Catalog source name"),
	}
	if withLang {
		cf.lang = fs.String("lang", "", "Catalog language (e.g. de, de_CH)")
	}
	return cf
}

func (cf catalogFlags) check() error {
	if *cf.pkg == "" {
		return errors.New("-package is required")
	}
	if cf.lang != nil && *cf.lang == "" {
		return errors.New("-lang is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
