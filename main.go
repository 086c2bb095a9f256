// Command cnunits validates conditioning-unit payloads from the command
// line: a JSON payload from a file or stdin, or a generation-parameters
// infotext fragment. The validated unit is echoed as a field summary plus
// its canonical infotext serialization.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cnunits/logging"
	"cnunits/registry"
	"cnunits/unit"
)

// Exit codes following Unix conventions.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	flags := flag.NewFlagSet("cnunits", flag.ContinueOnError)
	jsonPath := flags.String("json", "", "validate a JSON payload from this file ('-' for stdin)")
	infotext := flags.String("infotext", "", "validate an infotext fragment")
	listModules := flags.Bool("modules", false, "list registered preprocessor modules and exit")
	if err := flags.Parse(args); err != nil {
		return ExitCodeUsage
	}

	config := LoadConfig()
	logger, err := logging.New(logging.Options{
		Level:       config.LogLevel,
		FilePath:    config.LogFile,
		Development: config.DevMode,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return ExitCodeError
	}
	defer logger.Sync()

	runID := uuid.New().String()[:8]
	logger = logger.With(zap.String("run_id", runID))

	reg := registry.New()
	if config.RegistryFile != "" {
		if err := reg.LoadYAML(config.RegistryFile); err != nil {
			logger.Error("Failed to load registry extensions", zap.Error(err))
			return ExitCodeError
		}
		logger.Info("Registry extensions loaded", zap.String("file", config.RegistryFile))
	}

	if *listModules {
		printModules(reg)
		return ExitCodeSuccess
	}

	validator := unit.NewValidator(reg.Hooks(logger))

	var u *unit.Unit
	switch {
	case *jsonPath != "":
		u, err = validateJSON(validator, *jsonPath)
	case *infotext != "":
		u, err = validator.Parse(*infotext)
	default:
		flags.Usage()
		return ExitCodeUsage
	}

	if err != nil {
		color.New(color.FgRed, color.Bold).Println("INVALID")
		color.New(color.FgRed).Printf("  %v\n", err)
		logger.Error("Validation failed", zap.Error(err))
		return ExitCodeError
	}

	printUnit(u)
	logger.Info("Validation succeeded",
		zap.Bool("enabled", u.Enabled),
		zap.String("module", u.Module),
		zap.String("model", u.Model),
	)
	return ExitCodeSuccess
}

// validateJSON reads a JSON payload from path (or stdin for "-") and runs it
// through the validator.
func validateJSON(v *unit.Validator, path string) (*unit.Unit, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return v.FromJSON(data)
}

// printUnit writes the validated unit summary and its canonical infotext
// serialization to stdout.
func printUnit(u *unit.Unit) {
	color.New(color.FgGreen, color.Bold).Println("VALID")

	dim := color.New(color.FgHiBlack)
	rows := []struct {
		name  string
		value any
	}{
		{"enabled", u.Enabled},
		{"module", u.Module},
		{"model", u.Model},
		{"weight", u.Weight},
		{"resize_mode", u.ResizeMode},
		{"control_mode", u.ControlMode},
		{"guidance", fmt.Sprintf("[%v, %v]", u.GuidanceStart, u.GuidanceEnd)},
		{"processor_res", u.ProcessorRes},
		{"threshold_a", u.ThresholdA},
		{"threshold_b", u.ThresholdB},
		{"pixel_perfect", u.PixelPerfect},
	}
	for _, row := range rows {
		dim.Printf("  %-14s", row.name)
		fmt.Printf(" %v\n", row.value)
	}

	fmt.Println()
	dim.Println("  infotext:")
	fmt.Printf("  %s\n", u.Serialize())
}

// printModules lists the registered preprocessor modules alphabetically.
func printModules(reg *registry.Registry) {
	modules := reg.Modules()
	sort.Strings(modules)

	color.New(color.FgCyan, color.Bold).Printf("Registered modules (%d)\n", len(modules))
	fmt.Println(strings.Repeat("-", 30))
	for _, name := range modules {
		fmt.Printf("  %s\n", name)
	}
}
