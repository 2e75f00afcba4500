package provider

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/semaphore"

	"canon-tui/internal/ref"
)

const (
	defaultTimeout     = 8 * time.Second
	defaultMaxInFlight = 4
)

// Diatheke invokes the diatheke CLI once per fetch. The process is not
// pooled; the weighted semaphore keeps bulk search passes from overwhelming
// it with parallel invocations.
type Diatheke struct {
	binary  string
	timeout time.Duration
	sem     *semaphore.Weighted
}

// DiathekeOption configures the gateway.
type DiathekeOption func(*Diatheke)

// WithTimeout sets the per-call budget.
func WithTimeout(d time.Duration) DiathekeOption {
	return func(p *Diatheke) { p.timeout = d }
}

// WithMaxInFlight bounds simultaneous external invocations.
func WithMaxInFlight(n int) DiathekeOption {
	return func(p *Diatheke) { p.sem = semaphore.NewWeighted(int64(n)) }
}

// WithBinary overrides the executable name.
func WithBinary(path string) DiathekeOption {
	return func(p *Diatheke) { p.binary = path }
}

// NewDiatheke builds the production gateway.
func NewDiatheke(opts ...DiathekeOption) *Diatheke {
	p := &Diatheke{
		binary:  "diatheke",
		timeout: defaultTimeout,
		sem:     semaphore.NewWeighted(defaultMaxInFlight),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available reports whether the external binary can be found.
func (p *Diatheke) Available() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// Fetch runs one diatheke invocation for the range and returns its text
// output with attribution lines removed.
func (p *Diatheke) Fetch(ctx context.Context, module string, rng ref.Range) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", &Error{Kind: Timeout, Module: module, Range: rng, Err: err}
	}
	defer p.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(callCtx, p.binary, "-b", module, "-k", rng.ProviderText())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if callCtx.Err() == context.DeadlineExceeded {
		return "", &Error{Kind: Timeout, Module: module, Range: rng, Err: callCtx.Err()}
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = errors.New(msg)
		}
		return "", &Error{Kind: ProcessFailure, Module: module, Range: rng, Err: err}
	}

	text := stripAttribution(decode(stdout.Bytes()))
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: EmptyResult, Module: module, Range: rng}
	}
	return text, nil
}

// decode interprets output as UTF-8, falling back to Latin-1 byte-for-byte:
// several older modules ship unconverted.
func decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// stripAttribution drops the trailing "(ModuleName)" lines diatheke appends.
func stripAttribution(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
