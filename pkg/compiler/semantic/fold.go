package semantic

import (
	"math"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
)

// foldNum evaluates a constant numeric expression at compile time.
// It returns the value, whether the result is integral, and whether
// the expression was foldable at all. Non-constant expressions are
// left to the runtime checks.
func foldNum(e ast.Expr) (val float64, isInt bool, ok bool) {
	switch e := e.(type) {
	case *ast.IntLit:
		return float64(e.Value), true, true
	case *ast.RealLit:
		return e.Value, false, true
	case *ast.Paren:
		return foldNum(e.Inner)
	case *ast.Unary:
		if e.Op != ast.OpNeg {
			return 0, false, false
		}
		v, i, ok := foldNum(e.Operand)
		return -v, i, ok
	case *ast.BinOp:
		lv, li, lok := foldNum(e.Lhs)
		rv, ri, rok := foldNum(e.Rhs)
		if !lok || !rok {
			return 0, false, false
		}
		bothInt := li && ri
		switch e.Op {
		case ast.OpAdd:
			return lv + rv, bothInt, true
		case ast.OpSub:
			return lv - rv, bothInt, true
		case ast.OpMul:
			return lv * rv, bothInt, true
		case ast.OpDiv:
			if rv == 0 {
				return 0, false, false
			}
			// host division is true division
			return lv / rv, false, true
		case ast.OpMod:
			if rv == 0 {
				return 0, false, false
			}
			return math.Mod(lv, rv), bothInt, true
		case ast.OpPow:
			return math.Pow(lv, rv), bothInt && rv >= 0, true
		}
	}
	return 0, false, false
}
