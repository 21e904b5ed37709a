// Package driver orchestrates the compile pipeline: source text ->
// tokens -> AST -> validated AST -> emitted host text, and optionally
// hands the result to the host interpreter. Each phase fully completes
// before the next begins; the first diagnostic aborts.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/diag"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/emitter"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/lexer"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/parser"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/semantic"
)

// DefaultHost is the host interpreter binary looked up on PATH.
const DefaultHost = "python3"

// Artifacts is the result of a successful compile.
type Artifacts struct {
	Program *ast.Program
	Source  string // emitted host text
}

// Driver runs the pipeline. Host selects the interpreter binary;
// Stdout/Stderr receive the hosted program's output.
type Driver struct {
	Host   string
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a driver with the default host and discarded logs.
func New() *Driver {
	return &Driver{
		Host:   DefaultHost,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Compile runs lex, parse, validate, and emit over src. The returned
// error, when non-nil, is always a *diag.Diagnostic.
func (d *Driver) Compile(src string) (*Artifacts, error) {
	start := time.Now()

	toks, derr := lexer.Scan(src)
	if derr != nil {
		return nil, derr
	}
	d.Logger.Debug("lexi", "tokens", len(toks))

	prog, derr := parser.Parse(toks)
	if derr != nil {
		return nil, derr
	}
	d.Logger.Debug("parsi", "imports", len(prog.Imports), "defines", len(prog.Defines))

	if derr := semantic.Analyze(prog); derr != nil {
		return nil, derr
	}

	source := emitter.New().Emit(prog)
	d.Logger.Debug("emisi", "bytes", len(source), "elapsed", time.Since(start))

	return &Artifacts{Program: prog, Source: source}, nil
}

// CompileFile reads path and compiles its contents.
func (d *Driver) CompileFile(path string) (*Artifacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.Compile(string(data))
}

// Run executes the emitted host text via the host interpreter. Host
// failures carrying an Arcana runtime code come back as diagnostics in
// the same envelope as compile-time errors.
func (d *Driver) Run(ctx context.Context, art *Artifacts) error {
	cmd := exec.CommandContext(ctx, d.Host, "-c", art.Source)
	var stderr bytes.Buffer
	cmd.Stdout = d.Stdout
	cmd.Stderr = io.MultiWriter(d.Stderr, &stderr)

	if err := cmd.Run(); err != nil {
		if derr := runtimeDiagnostic(stderr.String()); derr != nil {
			return derr
		}
		return fmt.Errorf("exsecutio defecit: %w", err)
	}
	return nil
}

// runtimeDiagnostic recovers an Arcana error envelope from the host's
// stderr, if one is present.
func runtimeDiagnostic(stderr string) *diag.Diagnostic {
	for _, code := range []diag.Code{diag.VeritatemNonAttigi, diag.LoopStepNotPositive} {
		marker := "[" + string(code) + "] "
		idx := strings.Index(stderr, marker)
		if idx < 0 {
			continue
		}
		msg := stderr[idx+len(marker):]
		if nl := strings.IndexByte(msg, '\n'); nl >= 0 {
			msg = msg[:nl]
		}
		return &diag.Diagnostic{Code: code, Message: msg, Pos: -1}
	}
	return nil
}
