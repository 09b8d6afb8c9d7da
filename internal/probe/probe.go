// Package probe implements the startup timing probe: resolve an identity and
// a shared directory, sample a clock once, persist a record, then either
// linger until cancelled or return.
package probe

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ssoonan/pod-activation-experiment/internal/clock"
	"github.com/ssoonan/pod-activation-experiment/internal/record"
)

// DefaultSharedDir is where records land when no override is given.
const DefaultSharedDir = "/shared"

// Environment overrides. SharedDirEnv is honored by both variants,
// IdentityEnv only by the baseline variant.
const (
	SharedDirEnv = "SHARED_DIR"
	IdentityEnv  = "HOSTNAME"
)

// Config describes one probe variant.
type Config struct {
	// Banner is the console heading printed on start.
	Banner string
	// NameLabel is the console label for the resolved identity.
	NameLabel string
	// IdentityKey labels the identity line in the record (pod or process).
	IdentityKey string
	// Clock selects the sampled clock.
	Clock clock.Kind
	// Linger keeps the process resident after writing until the context is
	// cancelled, so an external observer can watch it.
	Linger bool
	// UseIdentityEnv consults the HOSTNAME variable before the OS hostname.
	UseIdentityEnv bool

	// Identity and Dir, when non-empty, bypass resolution entirely.
	Identity string
	Dir      string

	// Out receives console output; defaults to os.Stdout.
	Out io.Writer
}

// Pod is variant A: monotonic clock, hostname identity, lingers after
// writing so the pod stays observable.
func Pod() Config {
	return Config{
		Banner:      "Pod Timing Experiment",
		NameLabel:   "Pod name",
		IdentityKey: record.KeyPod,
		Clock:       clock.Monotonic,
		Linger:      true,
	}
}

// Baseline is variant B: realtime clock, HOSTNAME override for identity,
// exits right after writing.
func Baseline() Config {
	return Config{
		Banner:         "Baseline Timing Experiment",
		NameLabel:      "Process name",
		IdentityKey:    record.KeyProcess,
		Clock:          clock.Realtime,
		Linger:         false,
		UseIdentityEnv: true,
	}
}

// Probe runs one timing measurement.
type Probe struct {
	cfg Config
	out io.Writer
}

// New creates a probe from a variant config.
func New(cfg Config) *Probe {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Probe{cfg: cfg, out: out}
}

// ResolveIdentity returns the probe's self-reported name: explicit override,
// then (baseline only) the HOSTNAME variable, then the OS hostname. The value
// is used verbatim as a file name component; nothing is sanitized.
func (p *Probe) ResolveIdentity() string {
	if p.cfg.Identity != "" {
		return p.cfg.Identity
	}
	if p.cfg.UseIdentityEnv {
		if name := os.Getenv(IdentityEnv); name != "" {
			return name
		}
	}
	name, _ := os.Hostname()
	return name
}

// ResolveDir returns the target directory: explicit override, then
// SHARED_DIR, then /shared. Existence is only checked by the write itself.
func (p *Probe) ResolveDir() string {
	if p.cfg.Dir != "" {
		return p.cfg.Dir
	}
	if dir := os.Getenv(SharedDirEnv); dir != "" {
		return dir
	}
	return DefaultSharedDir
}

// Run performs the full probe sequence. On write failure it returns an error
// naming the attempted path; that is the only error path. When Linger is set
// it blocks after a successful write until ctx is cancelled.
func (p *Probe) Run(ctx context.Context) error {
	fmt.Fprintf(p.out, "=== %s ===\n", p.cfg.Banner)

	identity := p.ResolveIdentity()
	fmt.Fprintf(p.out, "%s: %s\n", p.cfg.NameLabel, identity)

	dir := p.ResolveDir()
	fmt.Fprintf(p.out, "Shared directory: %s\n", dir)

	start := clock.Now(p.cfg.Clock)
	fmt.Fprintf(p.out, "Start time (%s): %s\n", p.cfg.Clock, start.Format())

	rec := &record.Record{
		IdentityKey: p.cfg.IdentityKey,
		Identity:    identity,
		Start:       start,
	}

	path, err := rec.WriteFile(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Wrote timing data to: %s\n", path)
	fmt.Fprintln(p.out, "=== Timing logged successfully ===")

	if p.cfg.Linger {
		fmt.Fprintln(p.out, "Keeping process running...")
		<-ctx.Done()
		fmt.Fprintln(p.out, "Stop requested, exiting")
		return nil
	}

	fmt.Fprintln(p.out, "Process exiting normally (baseline mode)...")
	return nil
}
