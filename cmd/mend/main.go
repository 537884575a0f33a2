package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mend/internal/version"
)

// errFindings makes the process exit with status 1 without printing anything
// more: the command already reported what it found.
var errFindings = errors.New("findings reported")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mend",
		Short:         "Batched syntax fixes for .mnd sources",
		Long:          `mend reports diagnostics for .mnd source files and applies the fixes registered for them, one edit session per document`,
		Version:       version.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Добавляем команды
	rootCmd.AddCommand(newDiagCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("config", "", "path to mend.toml or mend.yaml (default: search upwards)")

	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "ring buffer capacity for ring mode")
	flags.Duration("trace-heartbeat", time.Duration(0), "heartbeat interval (0 = off)")

	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	return rootCmd
}

// main builds the command tree and runs it. Any error exits with status 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "mend: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
