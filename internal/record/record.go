// Package record implements the flat key=value timing record that probes
// write to the shared directory and the operator tooling reads back.
package record

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ssoonan/pod-activation-experiment/internal/clock"
)

// Identity key names. The pod variant labels its identity line "pod", the
// baseline variant "process". The difference is cosmetic and parsers accept
// either.
const (
	KeyPod     = "pod"
	KeyProcess = "process"
)

// Record is one probe's startup report: who it is and when it started.
type Record struct {
	IdentityKey string
	Identity    string
	Start       clock.Timespec
}

// FileName returns the record file name for an identity. The identity is used
// verbatim, separators and all, matching the probe's write path.
func FileName(identity string) string {
	return identity + ".txt"
}

// Path returns the record path inside dir for an identity.
func Path(dir, identity string) string {
	return filepath.Join(dir, FileName(identity))
}

// Encode renders the four-line wire form:
//
//	pod=worker-7
//	start_time_sec=1700000000
//	start_time_nsec=123456789
//	start_time_formatted=1700000000.123456789
func (r *Record) Encode() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s\n", r.IdentityKey, r.Identity)
	fmt.Fprintf(&b, "start_time_sec=%d\n", r.Start.Sec)
	fmt.Fprintf(&b, "start_time_nsec=%d\n", r.Start.Nsec)
	fmt.Fprintf(&b, "start_time_formatted=%s\n", r.Start.Format())
	return b.String()
}

// WriteFile persists the record to <dir>/<identity>.txt, truncating any
// previous file at that path. It returns the attempted path so callers can
// report it on failure.
func (r *Record) WriteFile(dir string) (string, error) {
	path := Path(dir, r.Identity)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return path, fmt.Errorf("could not write to %s: %w", path, err)
	}

	if _, err := f.WriteString(r.Encode()); err != nil {
		f.Close()
		return path, fmt.Errorf("could not write to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("could not write to %s: %w", path, err)
	}

	return path, nil
}

// Parse decodes the wire form. Unknown keys are ignored, the identity may be
// labelled either "pod" or "process", and both time fields must be present
// and non-negative.
func Parse(data []byte) (*Record, error) {
	rec := &Record{}
	haveSec, haveNsec := false, false

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("malformed line %q", line)
		}

		switch key {
		case KeyPod, KeyProcess:
			rec.IdentityKey = key
			rec.Identity = value
		case "start_time_sec":
			sec, err := parseField(key, value)
			if err != nil {
				return nil, err
			}
			rec.Start.Sec = sec
			haveSec = true
		case "start_time_nsec":
			nsec, err := parseField(key, value)
			if err != nil {
				return nil, err
			}
			rec.Start.Nsec = nsec
			haveNsec = true
		}
	}

	if rec.IdentityKey == "" {
		return nil, fmt.Errorf("missing identity line (pod= or process=)")
	}
	if !haveSec || !haveNsec {
		return nil, fmt.Errorf("missing start_time_sec/start_time_nsec")
	}

	return rec, nil
}

// ReadFile reads and parses a record file.
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}

func parseField(key, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s value %d", key, n)
	}
	return n, nil
}
