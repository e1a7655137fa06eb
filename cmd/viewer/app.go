package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"

	"github.com/pbrown/claude-viewer/internal/annotations"
	"github.com/pbrown/claude-viewer/internal/config"
	"github.com/pbrown/claude-viewer/internal/debuglog"
	"github.com/pbrown/claude-viewer/internal/render"
	"github.com/pbrown/claude-viewer/internal/search"
	"github.com/pbrown/claude-viewer/internal/server"
	"github.com/pbrown/claude-viewer/internal/transcript"
)

var version = "dev"

// App encapsulates CLI state and dependencies for testability
type App struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string         // Path to config.json, default: ~/.config/claude-viewer/config.json
	cfg        *config.Config // Loaded lazily unless set by tests

	logger      *debuglog.Logger
	transcripts *transcript.Store
	names       *annotations.Names
	archive     *annotations.Archive
}

// NewApp creates a new App with default stdout/stderr
func NewApp() *App {
	return &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// setup loads config if not already set and builds the stores
func (a *App) setup() error {
	if a.cfg == nil {
		path := a.configPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}

	a.logger = debuglog.New(a.cfg.DataDir, a.cfg.DebugLevel)
	a.transcripts = transcript.NewStore(a.cfg.TranscriptDir, a.logger)
	a.names = annotations.NewNames(a.cfg.NamesPath())
	a.archive = annotations.NewArchive(a.cfg.ArchivedPath())
	return nil
}

// Run parses arguments and dispatches to commands
func (a *App) Run(args []string) int {
	if len(args) < 2 {
		a.printHelp()
		return 1
	}

	rest := args[1:]
	if rest[0] == "--config" {
		if len(rest) < 2 {
			fmt.Fprintln(a.stderr, "error: --config requires a path")
			return 1
		}
		a.configPath = rest[1]
		rest = rest[2:]
	}
	if len(rest) == 0 {
		a.printHelp()
		return 1
	}

	cmd := rest[0]
	cmdArgs := rest[1:]

	switch cmd {
	case "help", "--help", "-h":
		a.printHelp()
		return 0
	case "version", "--version":
		fmt.Fprintf(a.stdout, "viewer %s\n", version)
		return 0
	}

	if err := a.setup(); err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}

	switch cmd {
	case "serve":
		return a.runServe(cmdArgs)
	case "list":
		return a.runList(cmdArgs)
	case "show":
		return a.runShow(cmdArgs)
	case "search":
		return a.runSearch(cmdArgs)
	case "names":
		return a.runNames(cmdArgs)
	case "name":
		return a.runName(cmdArgs)
	case "archived":
		return a.runArchived(cmdArgs)
	case "archive":
		return a.runArchive(cmdArgs, true)
	case "unarchive":
		return a.runArchive(cmdArgs, false)
	default:
		fmt.Fprintf(a.stderr, "unknown command: %s\n", cmd)
		a.printHelp()
		return 1
	}
}

// printHelp prints the help message
func (a *App) printHelp() {
	help := `Claude Viewer - browse and annotate conversation transcripts

Usage: viewer [--config path] <command> [args...]

Commands:
  serve [--addr A]                 Start the HTTP API and front-end (default :8000)
  list                             List sessions, newest first
  show <id>                        Render a session's messages
  search <keyword...>              Search all sessions for a keyword
  names                            Print the session name map as JSON
  name <id> <name...>              Set a session's display name
  archived                         Print archived session ids as JSON
  archive <id>                     Archive a session
  unarchive <id>                   Unarchive a session
  version                          Print version

Options:
  help, --help, -h                 Show this help message
`
	fmt.Fprint(a.stdout, help)
}

// runServe starts the HTTP server and blocks until interrupted
func (a *App) runServe(args []string) int {
	addr := a.cfg.Addr
	for i := 0; i < len(args); i++ {
		if args[i] == "--addr" && i+1 < len(args) {
			addr = args[i+1]
			i++
		}
	}

	srv := server.New(server.Deps{
		Transcripts: a.transcripts,
		Names:       a.names,
		Archive:     a.archive,
		Search:      search.NewEngine(a.transcripts, a.logger),
		Logger:      a.logger,
		StaticDir:   a.cfg.StaticDir,
	})

	fmt.Fprintln(a.stdout, figure.NewFigure("claude viewer", "", true).String())
	fmt.Fprintf(a.stdout, "Transcripts: %s\n", a.cfg.TranscriptDir)
	fmt.Fprintf(a.stdout, "Names:       %s\n", a.names.Path())
	fmt.Fprintf(a.stdout, "Archived:    %s\n", a.archive.Path())
	fmt.Fprintf(a.stdout, "Listening on %s\n", addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(a.stdout, "Shut down.")
	return 0
}

// runList lists all sessions with their display names
func (a *App) runList(args []string) int {
	names := a.names.All()

	var items []render.ListItem
	for _, t := range a.transcripts.List() {
		name := names[t.ID]
		if name == "" {
			name = t.ID
		}
		items = append(items, render.ListItem{
			Transcript: t,
			Name:       name,
			Archived:   a.archive.IsArchived(t.ID),
		})
	}

	render.New(a.stdout).List(items)
	return 0
}

// runShow renders one session
func (a *App) runShow(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.stderr, "usage: viewer show <id>")
		return 1
	}

	id := args[0]
	if !a.transcripts.Exists(id) {
		fmt.Fprintf(a.stderr, "error: session %s not found\n", id)
		return 1
	}

	session := a.transcripts.Parse(id)
	render.New(a.stdout).Session(a.names.DisplayName(id), session)
	return 0
}

// runSearch prints one snippet per matching session
func (a *App) runSearch(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.stderr, "usage: viewer search <keyword...>")
		return 1
	}

	keyword := strings.Join(args, " ")
	results := search.NewEngine(a.transcripts, a.logger).Search(keyword)
	render.New(a.stdout).SearchResults(keyword, results, a.names.DisplayName)
	return 0
}

// runNames dumps the name map
func (a *App) runNames(args []string) int {
	return a.printJSON(a.names.All())
}

// runName sets a display name
func (a *App) runName(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(a.stderr, "usage: viewer name <id> <name...>")
		return 1
	}

	id := args[0]
	name := strings.Join(args[1:], " ")
	if err := a.names.Set(id, name); err != nil {
		a.logger.LogWriteFailure("session-names", id, err)
		fmt.Fprintf(a.stderr, "error saving name: %v\n", err)
		return 1
	}

	fmt.Fprintf(a.stdout, "Named %s: %s\n", id, name)
	return 0
}

// runArchived dumps the archived set
func (a *App) runArchived(args []string) int {
	return a.printJSON(a.archive.All())
}

// runArchive archives or unarchives a session
func (a *App) runArchive(args []string, archive bool) int {
	verb := "archive"
	if !archive {
		verb = "unarchive"
	}
	if len(args) < 1 {
		fmt.Fprintf(a.stderr, "usage: viewer %s <id>\n", verb)
		return 1
	}

	id := args[0]
	if err := a.archive.Set(id, archive); err != nil {
		a.logger.LogWriteFailure("archived", id, err)
		fmt.Fprintf(a.stderr, "error saving archive state: %v\n", err)
		return 1
	}

	if archive {
		fmt.Fprintf(a.stdout, "Archived %s\n", id)
	} else {
		fmt.Fprintf(a.stdout, "Unarchived %s\n", id)
	}
	return 0
}

func (a *App) printJSON(v interface{}) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(a.stdout, string(data))
	return 0
}
