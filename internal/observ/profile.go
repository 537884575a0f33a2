package observ

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Profile names the output files of the Go profilers; empty paths are off.
type Profile struct {
	CPU   string
	Mem   string // heap profile, written on stop
	Trace string // runtime/trace
}

// Enabled reports whether any profiler is requested.
func (p Profile) Enabled() bool {
	return p.CPU != "" || p.Mem != "" || p.Trace != ""
}

// Start enables the requested profilers. The returned stop function is safe
// to call more than once; only the first call does work.
func (p Profile) Start() (stop func() error, err error) {
	var cpuFile, traceFile *os.File

	if p.CPU != "" {
		cpuFile, err = os.Create(p.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err = pprof.StartCPUProfile(cpuFile); err != nil {
			_ = cpuFile.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}
	if p.Trace != "" {
		traceFile, err = os.Create(p.Trace)
		if err == nil {
			err = trace.Start(traceFile)
			if err != nil {
				_ = traceFile.Close()
			}
		}
		if err != nil {
			// ensure cpu profile is stopped on error
			if cpuFile != nil {
				pprof.StopCPUProfile()
				_ = cpuFile.Close()
			}
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
	}

	stopped := false
	stop = func() error {
		if stopped {
			return nil
		}
		stopped = true
		var errs []error
		if traceFile != nil {
			trace.Stop()
			errs = append(errs, traceFile.Close())
		}
		if cpuFile != nil {
			pprof.StopCPUProfile()
			errs = append(errs, cpuFile.Close())
		}
		if p.Mem != "" {
			errs = append(errs, writeHeap(p.Mem))
		}
		return errors.Join(errs...)
	}
	return stop, nil
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
