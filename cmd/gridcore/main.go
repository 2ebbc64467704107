// Command gridcore loads a table Document, applies a scripted list of
// document-core operations to it, and prints the resulting Document as
// JSON. It exists to exercise every layer of the document core
// (registry/validate, document, merge, clipboard, history, selection) end
// to end from a single entry point, the way an embedding UI would.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/internal/registry"
	"github.com/gridkit/tablecore/internal/runtime"
	"github.com/gridkit/tablecore/internal/security"
	"github.com/gridkit/tablecore/internal/telemetry"
	"github.com/gridkit/tablecore/internal/validate"
	"github.com/gridkit/tablecore/pkg/docerr"
	"github.com/gridkit/tablecore/pkg/eventbus"
	"github.com/gridkit/tablecore/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var (
		documentPath  string
		opsPath       string
		registryPath  string
		outPath       string
		historyLimit  int
		debounceDelay time.Duration
	)

	flag.StringVar(&documentPath, "document", "", "Path to a Document JSON file (required)")
	flag.StringVar(&opsPath, "ops", "", "Path to an operations script JSON file (optional)")
	flag.StringVar(&registryPath, "registry", "", "Path to a project registry descriptor JSON file (optional)")
	flag.StringVar(&outPath, "out", "-", "Path to write the resulting Document JSON (- for stdout)")
	flag.IntVar(&historyLimit, "history-limit", 0, "Bounded undo/redo stack size (<=0 uses the default)")
	flag.DurationVar(&debounceDelay, "debounce", 0, "History debounce delay (<=0 uses the default)")
	flag.Parse()

	logger := zlog.With().Str("service", "gridcore").Logger()
	ctx := logger.WithContext(context.Background())

	if documentPath == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: -document")
		os.Exit(2)
	}

	reg, err := loadRegistry(registryPath)
	if err != nil {
		logger.Error().Err(err).Msg("registry: failed to load")
		fmt.Fprintf(os.Stderr, "registry error: %v\n", err)
		os.Exit(1)
	}

	rawDoc, err := os.ReadFile(documentPath)
	if err != nil {
		logger.Error().Err(err).Str("path", documentPath).Msg("document: failed to read")
		fmt.Fprintf(os.Stderr, "document read error: %v\n", err)
		os.Exit(1)
	}

	doc, res := validate.ParseTableJSON(rawDoc, reg, json.Unmarshal)
	if !res.OK {
		logger.Error().Str("code", string(res.Code)).Str("message", res.Message).Msg("document: failed validation")
		fmt.Fprintf(os.Stderr, "document validation error: %s\n", res.Error())
		os.Exit(1)
	}

	bus := eventbus.New()
	telemetry.NewHooks(logger).Attach(bus)

	model, res := document.FromJSON(doc, bus)
	if !res.OK {
		fmt.Fprintf(os.Stderr, "document construction error: %s\n", res.Error())
		os.Exit(1)
	}

	limits := runtime.NewLimits(0, 0)
	controller := runtime.NewController(limits)

	env := newEnvironment(model, bus, reg, controller, historyLimit, debounceDelay)

	logger.Info().
		Ctx(ctx).
		Str("version", version.Version()).
		Str("document", documentPath).
		Int("rows", model.Rows()).Int("cols", model.Cols()).
		Int("max_concurrent_operations", limits.MaxConcurrentOperations).
		Msg("gridcore bootstrap configured")

	var ops []Operation
	if opsPath != "" {
		rawOps, err := os.ReadFile(opsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ops read error: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(rawOps, &ops); err != nil {
			fmt.Fprintf(os.Stderr, "ops parse error: %v\n", err)
			os.Exit(1)
		}
	}

	failures := 0
	for i, op := range ops {
		opResult := controller.Guard(ctx, func(context.Context) docerr.Result {
			return env.apply(op)
		})
		if !opResult.OK {
			failures++
			logger.Error().Int("index", i).Str("type", op.Type).Str("code", string(opResult.Code)).Msg(opResult.Message)
			fmt.Fprintf(os.Stderr, "op[%d] %s failed: %s\n", i, op.Type, opResult.Error())
		}
	}
	env.historyDebouncer.Flush()

	out := model.ToJSON()
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode error: %v\n", err)
		os.Exit(1)
	}

	if outPath == "-" || outPath == "" {
		fmt.Println(string(encoded))
	} else if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write error: %v\n", err)
		os.Exit(1)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// loadRegistry builds the effective Registry: the built-in core, merged
// with a project descriptor when -registry is given. A project descriptor
// path is only honored when an allow-list is configured via
// TABLECORE_REGISTRY_DIRS, per internal/security's fail-safe policy.
func loadRegistry(registryPath string) (registry.Registry, error) {
	if registryPath == "" {
		return registry.Core, nil
	}
	secMgr, err := security.NewManagerFromEnv()
	if err != nil {
		return registry.Registry{}, fmt.Errorf("security manager: %w", err)
	}
	if err := secMgr.ValidateConfig(); err != nil {
		return registry.Registry{}, fmt.Errorf("no allowed registry directories configured; set TABLECORE_REGISTRY_DIRS: %w", err)
	}
	return registry.LoadProjectDescriptor(registryPath, secMgr)
}
