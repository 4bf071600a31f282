// Package main is the entry point for the jsonbridge demo editor: a
// single-file JSON editing surface backed by the bridge and its JSON
// language service.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dshills/jsonbridge/internal/bridge"
	"github.com/dshills/jsonbridge/internal/config"
	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/jsonsvc"
	"github.com/dshills/jsonbridge/internal/protocol"
	"github.com/dshills/jsonbridge/internal/schema"
	"github.com/dshills/jsonbridge/internal/termui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "path to a TOML config file")
		logPath     = flag.String("log", "", "write debug logs to this file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("jsonbridge %s\n", version)
		return 0
	}

	if err := setupLogging(*logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Load the document, or start from an empty object.
	text := "{}"
	path := flag.Arg(0)
	uri := "inmemory://model/1"
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			text = string(data)
		}
		abs, err := filepath.Abs(path)
		if err == nil {
			uri = "file://" + abs
		}
	}

	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	buf := editor.NewBuffer(uri, cfg.Language.ID, text)
	markers := editor.NewMarkerStore()

	session := bridge.NewSession(engine, markers,
		bridge.WithOwner(cfg.Language.ID),
		bridge.WithValidationDelay(cfg.DebounceDelay()),
		bridge.WithFormattingDefaults(protocol.FormattingOptions{
			TabSize:      cfg.Setup.TabSize,
			InsertSpaces: cfg.Setup.InsertSpaces,
		}))
	defer session.Close()

	if cfg.Setup.Diagnostics {
		if err := session.Attach(buf); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	ui, err := termui.New(buf, session, markers, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	if err := ui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// buildEngine wires the JSON language service with schema stores per
// the setup flags. The returned cleanup stops the file watcher.
func buildEngine(cfg config.Config) (*jsonsvc.Service, func(), error) {
	if !cfg.Setup.Schemas {
		return jsonsvc.New(), func() {}, nil
	}

	var svc *jsonsvc.Service
	files, err := schema.NewFileStore(func(path string) {
		if svc != nil {
			svc.InvalidateSchema(path)
		}
	})
	if err != nil {
		return nil, nil, err
	}

	resolver := schema.Route(files, schema.NewHTTPStore(nil))
	svc = jsonsvc.New(jsonsvc.WithSchemaResolver(jsonsvc.Resolver(resolver)))

	return svc, func() { _ = files.Close() }, nil
}

// setupLogging sends zerolog output to a file, or discards it. The
// terminal belongs to the UI.
func setupLogging(path string) error {
	if path == "" {
		log.Logger = zerolog.Nop()
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return nil
}
