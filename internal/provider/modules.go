package provider

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Module kinds as diatheke reports them.
const (
	KindBible      = "Biblical Texts"
	KindCommentary = "Commentaries"
)

// ModuleInfo describes one installed text module.
type ModuleInfo struct {
	Name        string
	Description string
	Kind        string
}

// ModuleLister enumerates the installed modules. The production gateway
// implements it by asking diatheke; the fake serves a scripted list.
type ModuleLister interface {
	Modules(ctx context.Context) ([]ModuleInfo, error)
}

// Modules lists installed modules via `diatheke -b system -k modulelist`.
func (p *Diatheke) Modules(ctx context.Context) ([]ModuleInfo, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, &Error{Kind: Timeout, Module: "system", Err: err}
	}
	defer p.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(callCtx, p.binary, "-b", "system", "-k", "modulelist")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, &Error{Kind: Timeout, Module: "system", Err: callCtx.Err()}
		}
		return nil, &Error{Kind: ProcessFailure, Module: "system", Err: err}
	}
	return parseModuleList(decode(stdout.Bytes())), nil
}

// parseModuleList reads diatheke's module listing:
//
//	Biblical Texts:
//	  KJV : King James Version
//	  DutSVV : Dutch Staten Vertaling
//	Commentaries:
//	  MHC : Matthew Henry Commentary
//
// Unindented lines ending in a colon open a category; entries carry a
// " : " separator.
func parseModuleList(output string) []ModuleInfo {
	var modules []ModuleInfo
	kind := "Unknown"

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") && strings.HasSuffix(line, ":") {
			kind = strings.TrimSuffix(line, ":")
			continue
		}
		name, desc, ok := strings.Cut(strings.TrimSpace(line), " : ")
		if !ok {
			continue
		}
		modules = append(modules, ModuleInfo{
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(desc),
			Kind:        kind,
		})
	}
	return modules
}

// FilterKind keeps the modules of one kind, preserving order.
func FilterKind(modules []ModuleInfo, kind string) []ModuleInfo {
	var out []ModuleInfo
	for _, m := range modules {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
