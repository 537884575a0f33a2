package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mend/internal/driver"
	"mend/internal/observ"
	"mend/internal/project"
	"mend/internal/trace"
	"mend/internal/workspace"
)

// startSession wires tracing and profiling for one command run. The returned
// finish must be deferred with the command error; on failure it dumps the
// trace ring to stderr before tearing the tracer down.
func startSession(cmd *cobra.Command) (finish func(error) error, err error) {
	tracer, stopTrace, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	stopProfile, err := setupProfiling(cmd)
	if err != nil {
		stopTrace()
		return nil, err
	}
	finish = func(runErr error) error {
		if runErr != nil {
			if ring := trace.RingOf(tracer); ring != nil {
				if dumpErr := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); dumpErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", dumpErr)
				}
			}
		}
		if profErr := stopProfile(); profErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to write profile: %v\n", profErr)
		}
		stopTrace()
		return runErr
	}
	return finish, nil
}

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns the tracer, a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	root := cmd.Root()

	// Read trace configuration from flags
	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	// --trace без уровня включает phase
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		// Stop heartbeat first
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

// setupProfiling enables the profilers named by the persistent profiling flags.
func setupProfiling(cmd *cobra.Command) (func() error, error) {
	root := cmd.Root()

	var p observ.Profile
	var err error
	if p.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if p.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if p.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return p.Start()
}

// useColor resolves --color for f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// loadManifest resolves the config for target: --config wins, otherwise
// mend.toml / mend.yaml is searched upwards from target.
func loadManifest(cmd *cobra.Command, target string) (*project.Manifest, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		cfg, err := project.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, err
		}
		return &project.Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
	}
	manifest, _, err := project.LoadManifest(target)
	return manifest, err
}

// loadSolution loads target (a file or a directory) honouring [project].exclude.
func loadSolution(cmd *cobra.Command, target string, manifest *project.Manifest, maxDiagnostics int) (*workspace.Solution, error) {
	opts := workspace.LoadOptions{
		Name:    manifest.Name(),
		Exclude: manifest.Config.Excluded,
	}
	if maxDiagnostics > 0 {
		opts.MaxParseErrors = uint(maxDiagnostics)
	}
	return workspace.Load(cmd.Context(), target, opts)
}

// cacheFlags are shared by diag and fix.
type cacheFlags struct {
	enabled bool
	dir     string
	clear   bool
}

func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("disk-cache", false, "enable the persistent diagnostics cache (also [cache].enabled)")
	cmd.Flags().String("cache-dir", "", "diagnostics cache directory (default: $XDG_CACHE_HOME/mend)")
	cmd.Flags().Bool("clear-cache", false, "drop every cached entry before running")
}

func readCacheFlags(cmd *cobra.Command) (cacheFlags, error) {
	var cf cacheFlags
	var err error
	if cf.enabled, err = cmd.Flags().GetBool("disk-cache"); err != nil {
		return cf, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if cf.dir, err = cmd.Flags().GetString("cache-dir"); err != nil {
		return cf, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if cf.clear, err = cmd.Flags().GetBool("clear-cache"); err != nil {
		return cf, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	return cf, nil
}

// openCache returns nil when caching is off.
func openCache(cf cacheFlags, manifest *project.Manifest) (*driver.DiskCache, error) {
	cfg := manifest.Config.Cache
	if !cf.enabled && !cfg.Enabled && cf.dir == "" {
		return nil, nil
	}
	dir := cf.dir
	if dir == "" && cfg.Dir != "" {
		dir = cfg.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(manifest.Root, dir)
		}
	}
	var (
		cache *driver.DiskCache
		err   error
	)
	if dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache("mend")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if cf.clear {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return cache, nil
}
