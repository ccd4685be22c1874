package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qcore-lang/qcore/pkg/backend"
	"github.com/qcore-lang/qcore/pkg/config"
	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/eval"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/loader"
	"github.com/qcore-lang/qcore/pkg/logging"
	"github.com/qcore-lang/qcore/pkg/store"
	"github.com/qcore-lang/qcore/pkg/value"
)

var version = "0.1.0"

func main() {
	var rootCmd = &cobra.Command{
		Use:     "qcoreeval",
		Short:   "Evaluation core demo CLI",
		Long:    `qcoreeval runs a hand-authored JSON encoding of a lowered program through the continuation-stack evaluator.`,
		Version: version,
	}

	var runCmd = &cobra.Command{
		Use:   "run <program.json>",
		Short: "Evaluate a program to completion",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	runCmd.Flags().StringP("config", "c", "", "Path to a YAML run config")

	var traceCmd = &cobra.Command{
		Use:   "trace <program.json>",
		Short: "Evaluate a program one visible statement at a time",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	traceCmd.Flags().StringP("config", "c", "", "Path to a YAML run config")

	rootCmd.AddCommand(runCmd, traceCmd)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	dumpColor    = color.New(color.FgYellow)
)

func printInfo(msg string)    { infoColor.Printf("[INFO] %s\n", msg) }
func printSuccess(msg string) { successColor.Printf("[SUCCESS] %s\n", msg) }
func printError(err error)    { errorColor.Printf("[ERROR] %s\n", err.Error()) }

// loadRunConfig layers defaults, an optional --config file, under the fixed
// CLI flag set this demo exposes.
func loadRunConfig(cmd *cobra.Command) (config.RunConfig, error) {
	cfg := config.Default()
	path, _ := cmd.Flags().GetString("config")
	return config.LoadFile(cfg, path)
}

func newRunLogger(cfg config.RunConfig) (*logging.Logger, error) {
	return logging.NewLogger(logging.LoggerConfig{
		MinLevel: cfg.LogLevelValue(),
		Format:   cfg.LogFormatValue(),
	})
}

// prepare loads path's program into a fresh store and returns everything
// needed to build an eval.State: the package id the loader wrote into, the
// entry expression to prime with, and the backing store itself.
func prepare(path string) (*store.Memory, ids.PackageId, ids.ExprId, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, 0, err
	}
	var prog loader.Program
	if err := json.Unmarshal(data, &prog); err != nil {
		return nil, 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	st := store.NewMemory()
	const pkg ids.PackageId = 0
	ld := loader.New(st, pkg)
	entry, err := ld.Load(&prog)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("load %s: %w", path, err)
	}
	return st, pkg, entry, nil
}

// consoleReceiver prints Message/StateDump output straight to the terminal,
// the CLI's own Receiver the way cmd/glyph prints request/response lines
// directly rather than through a test-only recorder.
type consoleReceiver struct{}

func (consoleReceiver) Message(msg string) error {
	fmt.Println(msg)
	return nil
}

func (consoleReceiver) StateDump(dump backend.StateDump) error {
	dumpColor.Printf("state dump (%d qubits, %d amplitudes)\n", len(dump.Qubits), len(dump.Amplitudes))
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, pkg, entry, err := prepare(args[0])
	if err != nil {
		return err
	}

	runID := logging.NewRunID()
	printInfo(fmt.Sprintf("run %s", runID))

	s := eval.NewState(st, backend.NewSparse(), consoleReceiver{}, cfg.SeedOrTime(time.Now().UnixNano()))
	s.WithLogger(log.WithRunID(runID))

	result, err := s.Eval(pkg, entry)
	if err != nil {
		printError(renderEvalErr(err))
		return err
	}
	printSuccess(fmt.Sprintf("result: %s", value.Render(result)))
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, pkg, entry, err := prepare(args[0])
	if err != nil {
		return err
	}

	runID := logging.NewRunID()
	printInfo(fmt.Sprintf("trace %s", runID))

	s := eval.NewState(st, backend.NewSparse(), consoleReceiver{}, cfg.SeedOrTime(time.Now().UnixNano()))
	s.WithLogger(log.WithRunID(runID))
	s.Prime(pkg, entry)

	for {
		step, err := s.Step(eval.StepIn, s.CallDepth())
		if err != nil {
			printError(renderEvalErr(err))
			return err
		}
		if step.Done {
			break
		}
		infoColor.Printf("step depth=%d span=%d..%d\n", step.Depth, step.Span.Span.Lo, step.Span.Span.Hi)
	}
	printSuccess("trace complete")
	return nil
}

// renderEvalErr unwraps an EvalError into a flat one-line message with its
// stack trace, the same shape a debugger frontend would show a user.
func renderEvalErr(err error) error {
	ee, ok := err.(*diagnostic.EvalError)
	if !ok {
		return err
	}
	msg := ee.Error()
	for _, f := range ee.Frames {
		msg += fmt.Sprintf("\n  at %s", f.String())
	}
	return fmt.Errorf("%s", msg)
}
