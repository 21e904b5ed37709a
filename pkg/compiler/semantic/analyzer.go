// Package semantic validates a parsed program: control-flow placement,
// loop nesting and guards, call arity, and declared-type consistency.
// The walk is pre-order and the first error aborts.
package semantic

import (
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/builtins"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/diag"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/types"
)

// MaxLoopDepth is the deepest RECURSIO nesting an accepted program may
// contain.
const MaxLoopDepth = 3

type symbol struct {
	typ    types.Type
	isFunc bool
	arity  int
	ret    types.Type
}

// Analyzer walks the AST carrying a loop-depth counter and a stack of
// name scopes.
type Analyzer struct {
	loopDepth int
	scopes    []map[string]symbol
}

// Analyze validates prog in place. It returns the first diagnostic
// found, or nil when the program passes.
func Analyze(prog *ast.Program) *diag.Diagnostic {
	a := &Analyzer{}
	a.pushScope()
	defer a.popScope()

	for _, stmt := range prog.Defines {
		if err := a.checkStmt(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range prog.Main.Body {
		if err := a.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) pushScope() {
	a.scopes = append(a.scopes, map[string]symbol{})
}

func (a *Analyzer) popScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *Analyzer) declare(name string, sym symbol) {
	a.scopes[len(a.scopes)-1][name] = sym
}

func (a *Analyzer) lookup(name string) (symbol, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if sym, ok := a.scopes[i][name]; ok {
			return sym, true
		}
	}
	return symbol{}, false
}

// ---------- statements ----------

func (a *Analyzer) checkStmt(s ast.Stmt) *diag.Diagnostic {
	switch s := s.(type) {
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			return diag.New(diag.BreakOutsideLoop, s.Token, "Nullus discessus est extra reditum.")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			return diag.New(diag.ContinueOutsideLoop, s.Token, "Nulla continuitas extra limites est.")
		}
	case *ast.NihilStmt:
		// no-op
	case *ast.VarDecl:
		return a.checkDecl(s.Token, s.Name, s.Type, s.Init)
	case *ast.ConstDecl:
		return a.checkDecl(s.Token, s.Name, s.Type, s.Init)
	case *ast.FuncDecl:
		return a.checkFuncDecl(s)
	case *ast.ClassDecl:
		// reserved: stored, never analyzed
	case *ast.Assign:
		return a.checkAssign(s)
	case *ast.Move:
		// grammar restricts the source to an identifier
	case *ast.CallStmt:
		_, err := a.checkCall(s.Call)
		return err
	case *ast.ExprStmt:
		_, err := a.checkExpr(s.X)
		return err
	case *ast.ReturnStmt:
		if s.Value != nil {
			_, err := a.checkValueExpr(s.Value)
			return err
		}
	case *ast.IfStmt:
		if _, err := a.checkValueExpr(s.Cond); err != nil {
			return err
		}
		for _, st := range s.Verum {
			if err := a.checkStmt(st); err != nil {
				return err
			}
		}
		for _, st := range s.Falsum {
			if err := a.checkStmt(st); err != nil {
				return err
			}
		}
	case *ast.LoopStmt:
		return a.checkLoop(s)
	}
	return nil
}

func (a *Analyzer) checkDecl(pos int, name string, declared types.Type, init ast.Expr) *diag.Diagnostic {
	if init != nil {
		inferred, err := a.checkValueExpr(init)
		if err != nil {
			return err
		}
		if !compatible(declared, inferred) {
			return diag.New(diag.TypeMismatch, pos,
				"Valor %s declarationi %s non convenit.", inferred, declared)
		}
	}
	a.declare(name, symbol{typ: declared})
	return nil
}

func (a *Analyzer) checkFuncDecl(f *ast.FuncDecl) *diag.Diagnostic {
	a.declare(f.Name, symbol{isFunc: true, arity: len(f.Params), ret: f.Return})

	a.pushScope()
	defer a.popScope()
	for _, param := range f.Params {
		a.declare(param.Name, symbol{typ: param.Type})
	}

	// loops do not nest across function boundaries
	savedDepth := a.loopDepth
	a.loopDepth = 0
	defer func() { a.loopDepth = savedDepth }()

	for _, st := range f.Body {
		if err := a.checkStmt(st); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) checkAssign(s *ast.Assign) *diag.Diagnostic {
	inferred, err := a.checkValueExpr(s.Value)
	if err != nil {
		return err
	}
	if sym, ok := a.lookup(s.Target); ok && !sym.isFunc {
		if !compatible(sym.typ, inferred) {
			return diag.New(diag.TypeMismatch, s.Token,
				"Valor %s declarationi %s non convenit.", inferred, sym.typ)
		}
	}
	return nil
}

func (a *Analyzer) checkLoop(loop *ast.LoopStmt) *diag.Diagnostic {
	if a.loopDepth+1 > MaxLoopDepth {
		return diag.New(diag.LoopNestTooDeep, loop.Token,
			"Tres reincarnationes, si plures, maledictio est.")
	}

	if _, err := a.checkValueExpr(loop.Cond); err != nil {
		return err
	}

	a.pushScope()
	defer a.popScope()

	if loop.Quota != nil {
		if loop.Quota.Budget != nil {
			if _, err := a.checkValueExpr(loop.Quota.Budget); err != nil {
				return err
			}
			if v, isInt, ok := foldNum(loop.Quota.Budget); ok && (!isInt || v <= 0) {
				return diag.New(diag.LoopQuotaInvalid, loop.Quota.Budget.Pos(), "Rectus valor, recta via.")
			}
		} else {
			initType, err := a.checkValueExpr(loop.Quota.Init)
			if err != nil {
				return err
			}
			a.declare(loop.Quota.Counter, symbol{typ: initType})
		}
	}

	if loop.Step != nil {
		if _, err := a.checkValueExpr(loop.Step); err != nil {
			return err
		}
		if v, _, ok := foldNum(loop.Step); ok && v <= 0 {
			return diag.New(diag.LoopStepNotPositive, loop.Step.Pos(), "stationarius accelerationis")
		}
	}

	a.loopDepth++
	defer func() { a.loopDepth-- }()
	for _, st := range loop.Body {
		if err := a.checkStmt(st); err != nil {
			return err
		}
	}
	return nil
}

// ---------- expressions ----------

// checkValueExpr validates an expression used where a value is
// required; a nihil-yielding expression is rejected there.
func (a *Analyzer) checkValueExpr(e ast.Expr) (types.Type, *diag.Diagnostic) {
	t, err := a.checkExpr(e)
	if err != nil {
		return types.Unknown, err
	}
	if t == types.Nihil {
		return types.Unknown, diag.New(diag.NihilNotExpr, e.Pos(), "Nihil valorem non fert.")
	}
	return t, nil
}

// checkExpr validates an expression and infers its type where
// possible; Unknown means the check is skipped downstream.
func (a *Analyzer) checkExpr(e ast.Expr) (types.Type, *diag.Diagnostic) {
	switch e := e.(type) {
	case *ast.IntLit:
		return types.Inte, nil
	case *ast.RealLit:
		return types.Real, nil
	case *ast.StrLit:
		return types.Filum, nil
	case *ast.Ident:
		if sym, ok := a.lookup(e.Name); ok && !sym.isFunc {
			return sym.typ, nil
		}
		return types.Unknown, nil
	case *ast.Paren:
		return a.checkExpr(e.Inner)
	case *ast.Unary:
		operand, err := a.checkValueExpr(e.Operand)
		if err != nil {
			return types.Unknown, err
		}
		if e.Op == ast.OpNot {
			return types.Verum, nil
		}
		return operand, nil
	case *ast.BinOp:
		return a.checkBinOp(e)
	case *ast.CallExpr:
		return a.checkCall(e)
	case *ast.FStrLit:
		for _, part := range e.Parts {
			if part.Expr != nil {
				if _, err := a.checkValueExpr(part.Expr); err != nil {
					return types.Unknown, err
				}
			}
		}
		return types.Filum, nil
	case *ast.DictLit:
		for _, pair := range e.Pairs {
			if _, err := a.checkValueExpr(pair.Key); err != nil {
				return types.Unknown, err
			}
			if _, err := a.checkValueExpr(pair.Value); err != nil {
				return types.Unknown, err
			}
		}
		return types.Catalogus, nil
	}
	return types.Unknown, nil
}

func (a *Analyzer) checkBinOp(e *ast.BinOp) (types.Type, *diag.Diagnostic) {
	lhs, err := a.checkValueExpr(e.Lhs)
	if err != nil {
		return types.Unknown, err
	}
	rhs, err := a.checkValueExpr(e.Rhs)
	if err != nil {
		return types.Unknown, err
	}

	switch e.Op {
	case ast.OpAut, ast.OpEt, ast.OpEq, ast.OpNe, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		return types.Verum, nil
	case ast.OpAdd:
		if lhs == types.Filum || rhs == types.Filum {
			return types.Filum, nil
		}
	}

	// arithmetic keeps the broader of inte/real
	if lhs.Numeric() && rhs.Numeric() {
		if lhs == types.Real || rhs == types.Real {
			return types.Real, nil
		}
		return types.Inte, nil
	}
	return types.Unknown, nil
}

// checkCall validates argument expressions and arity against the
// referenced function, user-defined or builtin. Calls to unknown names
// have nothing to check against and pass through.
func (a *Analyzer) checkCall(call *ast.CallExpr) (types.Type, *diag.Diagnostic) {
	for _, arg := range call.Args {
		if _, err := a.checkValueExpr(arg); err != nil {
			return types.Unknown, err
		}
	}

	if sig, ok := builtins.Lookup(call.Name); ok {
		if sig.Arity != builtins.Variadic && len(call.Args) != sig.Arity {
			return types.Unknown, diag.New(diag.ArgCountMismatch, call.Token,
				"Vocatio %s %d argumenta accipit, non %d.", call.Name, sig.Arity, len(call.Args))
		}
		return sig.Return, nil
	}
	if sym, ok := a.lookup(call.Name); ok && sym.isFunc {
		if len(call.Args) != sym.arity {
			return types.Unknown, diag.New(diag.ArgCountMismatch, call.Token,
				"Vocatio %s %d argumenta accipit, non %d.", call.Name, sym.arity, len(call.Args))
		}
		return sym.ret, nil
	}
	return types.Unknown, nil
}

// compatible applies strict type equality; containers are exempt
// since their literals are only shape-checked.
func compatible(declared, inferred types.Type) bool {
	if inferred == types.Unknown {
		return true
	}
	if declared == types.Ordinata || declared == types.Catalogus {
		return true
	}
	return declared == inferred
}
