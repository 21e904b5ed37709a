// Package emitter lowers a validated AST into Python source text. The
// target is any dynamic host with first-class functions, mappings,
// exponentiation, short-circuit logical operators, and a structured
// print; Python is the host currently wired into the driver. Output is
// byte-identical across runs for the same AST.
package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/builtins"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/diag"
)

const indentUnit = "    "

// Emitter accumulates emitted lines and tracks which prelude helpers
// the program needs.
type Emitter struct {
	loopSeq     int
	hasLoop     bool
	usesTempus  bool
	usesChronos bool
}

// New creates an emitter.
func New() *Emitter {
	return &Emitter{}
}

// Emit lowers the program. INTRODUCTIO statements land at module
// level, the main function becomes def subjecto(), and a trailing
// __main__ guard calls it.
func (e *Emitter) Emit(prog *ast.Program) string {
	var defines []string
	for _, stmt := range prog.Defines {
		defines = append(defines, e.emitStmt(stmt, 0)...)
	}

	body := []string{"def subjecto():"}
	if len(prog.Main.Body) == 0 {
		body = append(body, indentUnit+"pass")
	} else {
		for _, stmt := range prog.Main.Body {
			body = append(body, e.emitStmt(stmt, 1)...)
		}
	}

	var out []string
	for _, imp := range prog.Imports {
		out = append(out, "# fons: "+imp.Raw)
	}
	out = append(out, e.prelude()...)
	if len(defines) > 0 {
		out = append(out, defines...)
		out = append(out, "")
	}
	out = append(out, body...)
	out = append(out, "")
	out = append(out, `if __name__ == "__main__":`)
	out = append(out, indentUnit+"subjecto()")
	return strings.Join(out, "\n") + "\n"
}

// prelude defines the helpers the emitted program refers to, in a
// fixed order.
func (e *Emitter) prelude() []string {
	var lines []string
	if e.usesTempus || e.usesChronos {
		lines = append(lines, "import time as __arc_time")
		if e.usesTempus {
			lines = append(lines,
				"def __arc_tempus():",
				indentUnit+"return __arc_time.time()")
		}
		if e.usesChronos {
			lines = append(lines,
				"def __arc_chronos():",
				indentUnit+"return __arc_time.perf_counter()")
		}
	}
	if e.hasLoop {
		lines = append(lines,
			"def __arc_fail(code, message):",
			indentUnit+`raise RuntimeError("[" + code + "] " + message)`)
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	return lines
}

// ---------- statements ----------

func (e *Emitter) emitStmt(s ast.Stmt, depth int) []string {
	pad := strings.Repeat(indentUnit, depth)

	switch s := s.(type) {
	case *ast.NihilStmt:
		return []string{pad + "pass"}

	case *ast.VarDecl:
		if s.Init == nil {
			return []string{pad + s.Name + " = " + s.Type.ZeroValue()}
		}
		return []string{pad + s.Name + " = " + e.emitExpr(s.Init)}

	case *ast.ConstDecl:
		return []string{pad + s.Name + " = " + e.emitExpr(s.Init)}

	case *ast.FuncDecl:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Name
		}
		lines := []string{fmt.Sprintf("%sdef %s(%s):", pad, s.Name, strings.Join(params, ", "))}
		if len(s.Body) == 0 {
			lines = append(lines, pad+indentUnit+"pass")
		} else {
			for _, st := range s.Body {
				lines = append(lines, e.emitStmt(st, depth+1)...)
			}
		}
		return append(lines, "")

	case *ast.ClassDecl:
		// reserved syntax: nothing to lower
		return nil

	case *ast.Assign:
		return []string{pad + s.Target + " = " + e.emitExpr(s.Value)}

	case *ast.Move:
		return []string{pad + s.Dst + " = " + s.Src}

	case *ast.CallStmt:
		return []string{pad + e.emitCall(s.Call)}

	case *ast.ExprStmt:
		return []string{pad + e.emitExpr(s.X)}

	case *ast.ReturnStmt:
		if s.Value == nil {
			return []string{pad + "return"}
		}
		return []string{pad + "return " + e.emitExpr(s.Value)}

	case *ast.BreakStmt:
		return []string{pad + "break"}

	case *ast.ContinueStmt:
		return []string{pad + "continue"}

	case *ast.IfStmt:
		lines := []string{pad + "if " + e.emitExpr(s.Cond) + ":"}
		lines = append(lines, e.emitBranch(s.Verum, depth)...)
		lines = append(lines, pad+"else:")
		lines = append(lines, e.emitBranch(s.Falsum, depth)...)
		return lines

	case *ast.LoopStmt:
		return e.emitLoop(s, depth)
	}
	return nil
}

func (e *Emitter) emitBranch(body []ast.Stmt, depth int) []string {
	if len(body) == 0 {
		return []string{strings.Repeat(indentUnit, depth+1) + "pass"}
	}
	var lines []string
	for _, st := range body {
		lines = append(lines, e.emitStmt(st, depth+1)...)
	}
	return lines
}

// emitLoop lowers RECURSIO to a counted while with a quota guard. The
// guard count is bumped at the top of each iteration so proximum
// cannot starve it; the step is evaluated and positivity-checked each
// iteration before it is added.
func (e *Emitter) emitLoop(loop *ast.LoopStmt, depth int) []string {
	pad := strings.Repeat(indentUnit, depth)
	inner := pad + indentUnit
	e.hasLoop = true

	seq := e.loopSeq
	e.loopSeq++

	counter := fmt.Sprintf("__arc_i%d", seq)
	counterInit := "0"
	budget := "100"
	if loop.Quota != nil {
		if loop.Quota.Budget != nil {
			budget = e.emitExpr(loop.Quota.Budget)
		} else {
			counter = loop.Quota.Counter
			counterInit = e.emitExpr(loop.Quota.Init)
		}
	}
	guard := fmt.Sprintf("__arc_n%d", seq)

	lines := []string{
		pad + counter + " = " + counterInit,
		pad + guard + " = 0",
		pad + "while " + e.emitExpr(loop.Cond) + ":",
		inner + guard + " += 1",
		inner + "if " + guard + " > (" + budget + "):",
		inner + indentUnit + fmt.Sprintf("__arc_fail(%q, %q)", string(diag.VeritatemNonAttigi), "Veritatem non attigi."),
	}

	if len(loop.Body) == 0 {
		lines = append(lines, inner+"pass")
	} else {
		for _, st := range loop.Body {
			lines = append(lines, e.emitStmt(st, depth+1)...)
		}
	}

	if loop.Step == nil {
		lines = append(lines, inner+counter+" += 1")
	} else {
		step := fmt.Sprintf("__arc_s%d", seq)
		lines = append(lines,
			inner+step+" = "+e.emitExpr(loop.Step),
			inner+"if "+step+" <= 0:",
			inner+indentUnit+fmt.Sprintf("__arc_fail(%q, %q)", string(diag.LoopStepNotPositive), "stationarius accelerationis"),
			inner+counter+" += "+step,
		)
	}
	return lines
}

// ---------- expressions ----------

var binOps = map[ast.BinOpKind]string{
	ast.OpAut: "or",
	ast.OpEt:  "and",
	ast.OpEq:  "==",
	ast.OpNe:  "!=",
	ast.OpLt:  "<",
	ast.OpGt:  ">",
	ast.OpLe:  "<=",
	ast.OpGe:  ">=",
	ast.OpAdd: "+",
	ast.OpSub: "-",
	ast.OpMul: "*",
	ast.OpDiv: "/",
	ast.OpMod: "%",
	ast.OpPow: "**",
}

func (e *Emitter) emitExpr(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Ident:
		return e.hostName(x.Name)
	case *ast.IntLit:
		return strconv.FormatInt(x.Value, 10)
	case *ast.RealLit:
		return x.Text
	case *ast.StrLit:
		return pyQuote(x.Value)
	case *ast.Paren:
		return "(" + e.emitExpr(x.Inner) + ")"
	case *ast.Unary:
		if x.Op == ast.OpNot {
			return "(not " + e.emitExpr(x.Operand) + ")"
		}
		return "(-" + e.emitExpr(x.Operand) + ")"
	case *ast.BinOp:
		return "(" + e.emitExpr(x.Lhs) + " " + binOps[x.Op] + " " + e.emitExpr(x.Rhs) + ")"
	case *ast.CallExpr:
		return e.emitCall(x)
	case *ast.FStrLit:
		return e.emitFStr(x)
	case *ast.DictLit:
		pairs := make([]string, len(x.Pairs))
		for i, pair := range x.Pairs {
			pairs[i] = e.emitExpr(pair.Key) + ": " + e.emitExpr(pair.Value)
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	}
	return ""
}

func (e *Emitter) emitCall(call *ast.CallExpr) string {
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = e.emitExpr(arg)
	}
	return e.hostName(call.Name) + "(" + strings.Join(args, ", ") + ")"
}

// emitFStr concatenates string-coerced parts in source order.
func (e *Emitter) emitFStr(lit *ast.FStrLit) string {
	if len(lit.Parts) == 0 {
		return `""`
	}
	parts := make([]string, len(lit.Parts))
	for i, part := range lit.Parts {
		if part.Expr != nil {
			parts[i] = "str(" + e.emitExpr(part.Expr) + ")"
		} else {
			parts[i] = pyQuote(part.Text)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// hostName routes builtin symbols to their host spellings and tracks
// prelude helpers.
func (e *Emitter) hostName(name string) string {
	switch name {
	case "tempus":
		e.usesTempus = true
	case "chronos":
		e.usesChronos = true
	}
	if sig, ok := builtins.Lookup(name); ok {
		return sig.HostName
	}
	return name
}

// pyQuote renders a double-quoted Python string literal.
func pyQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}
