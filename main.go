package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/cbd/internal/bridge"
	"github.com/mcncl/cbd/internal/codec"
	"github.com/mcncl/cbd/internal/config"
	"github.com/mcncl/cbd/internal/errors"
)

// CLI defines the command-line interface
var CLI struct {
	Encode  bool   `help:"Encode JSON to CBOR instead of decoding CBOR to JSON." short:"e"`
	Base64  bool   `help:"Write encoded CBOR as URL-safe base64 without padding." short:"b"`
	Input   string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output  string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Debug   bool   `help:"Enable debug logging." short:"d" env:"CBD_DEBUG"`
	Version bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("cbd"),
		kong.Description("Convert CBOR (raw or base64) to JSON, or JSON to CBOR with --encode"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// kong.UsageOnError has already printed the usage
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("cbd version %s\n", Version)
		return
	}

	cfg := config.FromFlags(config.Flags{
		Encode: CLI.Encode,
		Base64: CLI.Base64,
		Debug:  CLI.Debug,
		Input:  CLI.Input,
		Output: CLI.Output,
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	err := run(&Context{
		Config: cfg,
		Logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if err := cfg.Validate(); err != nil {
		return errors.NewInputError("invalid options", err)
	}
	for _, warning := range cfg.Warnings() {
		ctx.Logger.Warn(warning)
	}

	// 1. Read the whole input
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("read input", "mode", cfg.Mode, "bytes", len(input))

	// 2. Convert
	var output []byte
	if cfg.Encoding() {
		output, err = bridge.Encode(input, cfg.Base64)
		if err != nil {
			return err
		}
		ctx.Logger.Debug("encoded", "base64", cfg.Base64, "bytes", len(output))
	} else {
		result, err := bridge.DecodeDetailed(input)
		if err != nil {
			return err
		}
		if ctx.Logger.Enabled(context.Background(), slog.LevelDebug) {
			ctx.Logger.Debug("decoded",
				"variant", result.Variant,
				"cbor_bytes", len(result.CBOR),
				"diagnostic", diagnostic(result.CBOR),
			)
		}
		output = append([]byte(result.JSON), '\n')
	}

	// 3. Write the result
	return writeOutput(ctx, output)
}

func diagnostic(data []byte) string {
	notation, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Sprintf("<unavailable: %v>", err)
	}
	return notation
}

// readInput reads all input from the configured file or stdin
func readInput(ctx *Context) ([]byte, error) {
	path := ctx.Config.Input
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
		}
		return data, nil
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	return data, nil
}

// writeOutput writes the converted data to the configured file or stdout
func writeOutput(ctx *Context, data []byte) error {
	path := ctx.Config.Output
	if path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		ctx.Logger.Debug("wrote output", "path", path, "bytes", len(data))
		return nil
	}

	if _, err := ctx.Stdout.Write(data); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	ctx.Logger.Debug("wrote output", "path", "stdout", "bytes", len(data))
	return nil
}
