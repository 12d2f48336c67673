package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/goliatone/go-jsontemplate/pkg/logging"
	"github.com/goliatone/go-jsontemplate/pkg/render"
)

func main() {
	programPath := flag.String("program", "", "program file (YAML or JSON)")
	dataPath := flag.String("data", "-", "JSON data file (stdin if -)")
	configPath := flag.String("config", "", "engine config file")
	output := flag.String("output", "", "output file (stdout if empty)")
	safe := flag.Bool("safe", false, "collect errors instead of failing")
	locale := flag.String("locale", "", "locale tag (overrides JSONT_LOCALE)")
	envFile := flag.String("env", ".env", "dotenv file to load")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *envFile, err)
	}

	logger := logging.New(logging.Config{
		Level: os.Getenv("JSONT_LOG_LEVEL"),
		Name:  "jsont",
	})
	defer func() { _ = logger.Sync() }()

	if strings.TrimSpace(*programPath) == "" {
		logger.Fatal("missing -program")
	}

	cfg := render.Config{}
	if *configPath != "" {
		loaded, err := render.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
		cfg = loaded
	}
	if *safe {
		cfg.Safe = true
	}
	if env := strings.TrimSpace(os.Getenv("JSONT_LOCALE")); env != "" && cfg.Locale == "" {
		cfg.Locale = env
	}
	if *locale != "" {
		cfg.Locale = *locale
	}

	opts := append(cfg.Options(), render.WithLoggingHook(logging.NewHook(logger)))
	engine, err := render.New(opts...)
	if err != nil {
		logger.Fatal("create engine", zap.Error(err))
	}

	source, err := os.ReadFile(*programPath)
	if err != nil {
		logger.Fatal("read program", zap.Error(err))
	}
	data, err := readData(*dataPath)
	if err != nil {
		logger.Fatal("read data", zap.Error(err))
	}

	result, err := engine.RenderSource(string(source), data)
	logging.Errors(logger, result.Errors)
	if err != nil {
		logger.Fatal("render failed", zap.Error(err))
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result.Output), 0o644); err != nil {
			logger.Fatal("write output", zap.Error(err))
		}
		logger.Info("output written", zap.String("path", *output), zap.Int("errors", len(result.Errors)))
		return
	}
	fmt.Print(result.Output)
}

// readData returns the raw JSON, or nil when the input is empty.
func readData(path string) (any, error) {
	var (
		raw []byte
		err error
	)
	if path == "" || path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}
