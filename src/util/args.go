package util

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/xyproto/env/v2"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the configuration of one compiler run.
type Options struct {
	Src     string // Path to listing file. Empty reads stdin.
	Out     string // Path to output file. Empty writes stdout.
	Arch    string // Output target architecture, like "aarch64-mac-os".
	Threads int    // Number of function bodies planned in parallel.
	Verbose bool   // Set true if the planner should log its decisions.
}

// ---------------------
// ----- Constants -----
// ---------------------

const maxThreads = 64 // Maximum threads allowed executing in parallel.

// DefaultArch is the target architecture used when neither flag nor environment names one.
const DefaultArch = "aarch64-mac-os"

// Environment variables providing option defaults.
const (
	EnvArch    = "LOWC_ARCH"
	EnvThreads = "LOWC_THREADS"
	EnvVerbose = "LOWC_VERBOSE"
)

// -------------------
// ----- Globals -----
// -------------------

// ErrThreads is returned for thread counts outside [1, maxThreads].
var ErrThreads = errors.New("invalid thread count")

// ---------------------
// ----- Functions -----
// ---------------------

// DefaultOptions returns Options initialised from the environment.
func DefaultOptions() Options {
	return Options{
		Arch:    env.Str(EnvArch, DefaultArch),
		Threads: env.Int(EnvThreads, 1),
		Verbose: env.Bool(EnvVerbose),
	}
}

// Flags binds the command line flags of the compiler to opt. Values already held by opt are used as flag
// defaults.
func (opt *Options) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&opt.Arch, "arch", "a", opt.Arch, "Output architecture. One of 'aarch64-mac-os' or 'riscv64-linux'.")
	fs.StringVarP(&opt.Out, "out", "o", opt.Out, "Path and name of the output file.")
	fs.IntVarP(&opt.Threads, "threads", "t", opt.Threads,
		fmt.Sprintf("Number of threads to run in parallel. Must be in range [1, %d].", maxThreads))
	fs.BoolVarP(&opt.Verbose, "verbose", "v", opt.Verbose, "Verbose mode: log planner decisions.")
}

// Validate checks option values that flag parsing can't.
func (opt Options) Validate() error {
	if opt.Threads < 1 || opt.Threads > maxThreads {
		return errors.Wrapf(ErrThreads, "thread count must be integer in range [1, %d], got %d", maxThreads, opt.Threads)
	}
	return nil
}
