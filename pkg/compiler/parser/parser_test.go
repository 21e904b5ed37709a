package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/diag"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/lexer"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/parser"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/types"
)

// program wraps a main body in the mandatory section scaffolding.
func program(body string) string {
	return "<FONS></FONS><INTRODUCTIO></INTRODUCTIO><DOCTRINA>" +
		"FCON subjecto: nihil () -> { " + body + " };" +
		"</DOCTRINA>"
}

func parseSrc(t *testing.T, src string) (*ast.Program, *diag.Diagnostic) {
	t.Helper()
	toks, err := lexer.Scan(src)
	require.Nil(t, err, "lexing failed: %v", err)
	return parser.Parse(toks)
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parseSrc(t, src)
	require.Nil(t, err, "parse failed: %v", err)
	return prog
}

// mainExpr parses a single `x = expr;` main body and returns the expr.
func mainExpr(t *testing.T, expr string) ast.Expr {
	t.Helper()
	prog := mustParse(t, program("x = "+expr+";"))
	require.Len(t, prog.Main.Body, 1)
	assign, ok := prog.Main.Body[0].(*ast.Assign)
	require.True(t, ok, "expected Assign, got %T", prog.Main.Body[0])
	return assign.Value
}

func TestProgramSections(t *testing.T) {
	prog := mustParse(t, program("nihil;"))
	assert.Equal(t, "subjecto", prog.Main.Name)
	assert.Equal(t, types.Nihil, prog.Main.Return)
	assert.Empty(t, prog.Main.Params)

	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{
			name: "missing FONS",
			src:  "<INTRODUCTIO></INTRODUCTIO><DOCTRINA>FCON subjecto: nihil () -> { nihil; };</DOCTRINA>",
			code: diag.ParseExpectedToken,
		},
		{
			name: "sections out of order",
			src:  "<INTRODUCTIO></INTRODUCTIO><FONS></FONS><DOCTRINA>FCON subjecto: nihil () -> { nihil; };</DOCTRINA>",
			code: diag.ParseExpectedToken,
		},
		{
			name: "empty doctrina",
			src:  "<FONS></FONS><INTRODUCTIO></INTRODUCTIO><DOCTRINA></DOCTRINA>",
			code: diag.ParseMainSubjectoRequired,
		},
		{
			name: "main wrong name",
			src:  "<FONS></FONS><INTRODUCTIO></INTRODUCTIO><DOCTRINA>FCON alius: nihil () -> { nihil; };</DOCTRINA>",
			code: diag.ParseMainSubjectoRequired,
		},
		{
			name: "main wrong return",
			src:  "<FONS></FONS><INTRODUCTIO></INTRODUCTIO><DOCTRINA>FCON subjecto: inte () -> { nihil; };</DOCTRINA>",
			code: diag.ParseMainNihilRequired,
		},
		{
			name: "main with parameter",
			src:  "<FONS></FONS><INTRODUCTIO></INTRODUCTIO><DOCTRINA>FCON subjecto: nihil (n: inte) -> { nihil; };</DOCTRINA>",
			code: diag.ParseMainNihilRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSrc(t, tt.src)
			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestImportEntries(t *testing.T) {
	prog := mustParse(t,
		`<FONS>mathesis;"lib/chordae";</FONS><INTRODUCTIO></INTRODUCTIO>`+
			`<DOCTRINA>FCON subjecto: nihil () -> { nihil; };</DOCTRINA>`)
	require.Len(t, prog.Imports, 2)
	assert.Equal(t, "mathesis", prog.Imports[0].Raw)
	assert.Equal(t, "lib/chordae", prog.Imports[1].Raw)
}

func TestPrecedence(t *testing.T) {
	t.Run("mul binds tighter than add", func(t *testing.T) {
		expr := mainExpr(t, "a + b * c")
		add, ok := expr.(*ast.BinOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpAdd, add.Op)
		mul, ok := add.Rhs.(*ast.BinOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpMul, mul.Op)
	})

	t.Run("power is right-associative", func(t *testing.T) {
		expr := mainExpr(t, "a ** b ** c")
		outer, ok := expr.(*ast.BinOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpPow, outer.Op)
		_, lhsIsIdent := outer.Lhs.(*ast.Ident)
		assert.True(t, lhsIsIdent, "lhs should stay a leaf: a ** (b ** c)")
		inner, ok := outer.Rhs.(*ast.BinOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpPow, inner.Op)
	})

	t.Run("comparison above additive", func(t *testing.T) {
		expr := mainExpr(t, "a + b < c")
		cmp, ok := expr.(*ast.BinOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpLt, cmp.Op)
	})

	t.Run("et binds tighter than aut", func(t *testing.T) {
		expr := mainExpr(t, "a aut b et c")
		or, ok := expr.(*ast.BinOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpAut, or.Op)
		and, ok := or.Rhs.(*ast.BinOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpEt, and.Op)
	})

	t.Run("non stacks", func(t *testing.T) {
		expr := mainExpr(t, "non non a")
		outer, ok := expr.(*ast.Unary)
		require.True(t, ok)
		assert.Equal(t, ast.OpNot, outer.Op)
		_, ok = outer.Operand.(*ast.Unary)
		assert.True(t, ok)
	})

	t.Run("comparison does not chain", func(t *testing.T) {
		_, err := parseSrc(t, program("x = a < b == c;"))
		require.NotNil(t, err)
		assert.Equal(t, diag.ParseUnexpectedToken, err.Code)
	})
}

func TestInequalityParsesAsNotEqual(t *testing.T) {
	prog := mustParse(t, program(`SI propositio:(a >< b) { VERUM{ nihil; } FALSUM{ nihil; } };`))
	ifStmt, ok := prog.Main.Body[0].(*ast.IfStmt)
	require.True(t, ok)
	cmp, ok := ifStmt.Cond.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpNe, cmp.Op)
}

func TestIfFalsumOptional(t *testing.T) {
	prog := mustParse(t, program(`SI propositio:(a < b) { VERUM{ nihil; } };`))
	ifStmt, ok := prog.Main.Body[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.Len(t, ifStmt.Verum, 1)
	assert.Nil(t, ifStmt.Falsum)
}

func TestMoveStatement(t *testing.T) {
	prog := mustParse(t, program("a <- b;"))
	move, ok := prog.Main.Body[0].(*ast.Move)
	require.True(t, ok)
	assert.Equal(t, "a", move.Dst)
	assert.Equal(t, "b", move.Src)

	_, err := parseSrc(t, program("a <- 1;"))
	require.NotNil(t, err)
	assert.Equal(t, diag.ParseInvalidMove, err.Code)
}

func TestCompoundAssignRejected(t *testing.T) {
	for _, src := range []string{"i += 1;", "i -= 1;", "i *= 2;"} {
		_, err := parseSrc(t, program(src))
		require.NotNil(t, err, "source %q", src)
		assert.Equal(t, diag.ParseUnsupportedSyntax, err.Code)
	}
}

func TestNihilStatementOnly(t *testing.T) {
	prog := mustParse(t, program("nihil;"))
	_, ok := prog.Main.Body[0].(*ast.NihilStmt)
	assert.True(t, ok)

	_, err := parseSrc(t, program("x = nihil;"))
	require.NotNil(t, err)
	assert.Equal(t, diag.ParseNihilNotExpr, err.Code)
}

func TestCallForms(t *testing.T) {
	prog := mustParse(t, program(`indicant() <- ("salve", 42);`))
	call, ok := prog.Main.Body[0].(*ast.CallStmt)
	require.True(t, ok)
	assert.Equal(t, "indicant", call.Call.Name)
	assert.Len(t, call.Call.Args, 2)

	prog = mustParse(t, program(`x = duplica() <- (21);`))
	assign := prog.Main.Body[0].(*ast.Assign)
	callExpr, ok := assign.Value.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "duplica", callExpr.Name)

	prog = mustParse(t, program(`lege() <- ();`))
	call, ok = prog.Main.Body[0].(*ast.CallStmt)
	require.True(t, ok)
	assert.Empty(t, call.Call.Args)
}

func TestLoopHeaders(t *testing.T) {
	t.Run("full header", func(t *testing.T) {
		prog := mustParse(t, program(`RECURSIO(propositio:(i < 10), quota: 50, acceleratio: 2) -> { nihil; };`))
		loop, ok := prog.Main.Body[0].(*ast.LoopStmt)
		require.True(t, ok)
		require.NotNil(t, loop.Quota)
		assert.NotNil(t, loop.Quota.Budget)
		assert.NotNil(t, loop.Step)
	})

	t.Run("counter binding", func(t *testing.T) {
		prog := mustParse(t, program(`RECURSIO(propositio:(i < 10), quota: i = 0) -> { nihil; };`))
		loop := prog.Main.Body[0].(*ast.LoopStmt)
		require.NotNil(t, loop.Quota)
		assert.Equal(t, "i", loop.Quota.Counter)
		assert.NotNil(t, loop.Quota.Init)
		assert.Nil(t, loop.Quota.Budget)
	})

	t.Run("acceleratio directly after propositio", func(t *testing.T) {
		prog := mustParse(t, program(`RECURSIO(propositio:(i < 10), acceleratio: 2) -> { nihil; };`))
		loop := prog.Main.Body[0].(*ast.LoopStmt)
		assert.Nil(t, loop.Quota)
		assert.NotNil(t, loop.Step)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := parseSrc(t, program(`RECURSIO(propositio:(i < 10), velocitas: 2) -> { nihil; };`))
		require.NotNil(t, err)
		assert.Equal(t, diag.ParseUnknownLoopHeader, err.Code)
	})

	t.Run("missing propositio", func(t *testing.T) {
		_, err := parseSrc(t, program(`RECURSIO(quota: 50) -> { nihil; };`))
		require.NotNil(t, err)
		assert.Equal(t, diag.ParseLoopPropositioMissing, err.Code)
	})

	t.Run("quota after acceleratio", func(t *testing.T) {
		_, err := parseSrc(t, program(`RECURSIO(propositio:(i < 10), acceleratio: 2, quota: 5) -> { nihil; };`))
		require.NotNil(t, err)
		assert.Equal(t, diag.ParseUnexpectedToken, err.Code)
	})
}

func TestCantusParts(t *testing.T) {
	expr := mainExpr(t, "cantus'x=${a+b}!'")
	lit, ok := expr.(*ast.FStrLit)
	require.True(t, ok)
	require.Len(t, lit.Parts, 3)
	assert.Equal(t, "x=", lit.Parts[0].Text)
	bin, ok := lit.Parts[1].Expr.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	assert.Equal(t, "!", lit.Parts[2].Text)
}

func TestCantusLiteralDollar(t *testing.T) {
	expr := mainExpr(t, "cantus'pretium $5'")
	lit, ok := expr.(*ast.FStrLit)
	require.True(t, ok)
	require.Len(t, lit.Parts, 1)
	assert.Equal(t, "pretium $5", lit.Parts[0].Text)
}

func TestDictLiteral(t *testing.T) {
	expr := mainExpr(t, `{"unus": 1, "duo": 2,}`)
	lit, ok := expr.(*ast.DictLit)
	require.True(t, ok)
	require.Len(t, lit.Pairs, 2)
	key, ok := lit.Pairs[0].Key.(*ast.StrLit)
	require.True(t, ok)
	assert.Equal(t, "unus", key.Value)
}

func TestIntroductioDeclarations(t *testing.T) {
	src := `<FONS></FONS><INTRODUCTIO>
		VCON gradus: inte = 3;
		PRINCIPIUM finis: inte = 50;
		FCON duplica: inte (n: inte) -> { REDITUS n * 2; };
		CCON Codex -> { nihil; };
	</INTRODUCTIO><DOCTRINA>FCON subjecto: nihil () -> { nihil; };</DOCTRINA>`
	prog := mustParse(t, src)
	require.Len(t, prog.Defines, 4)

	v, ok := prog.Defines[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, types.Inte, v.Type)

	c, ok := prog.Defines[1].(*ast.ConstDecl)
	require.True(t, ok)
	assert.Equal(t, "finis", c.Name)

	f, ok := prog.Defines[2].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, types.Inte, f.Return)
	require.Len(t, f.Params, 1)
	assert.Equal(t, "n", f.Params[0].Name)
	ret, ok := f.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.NotNil(t, ret.Value)

	_, ok = prog.Defines[3].(*ast.ClassDecl)
	assert.True(t, ok)
}

func TestMisspelledBreakStaysIdentifier(t *testing.T) {
	// `effgium` is not the break keyword; it parses as a plain
	// identifier expression, never as BreakStmt.
	prog := mustParse(t, program("effgium;"))
	stmt, ok := prog.Main.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	ident, ok := stmt.X.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "effgium", ident.Name)

	// and it never terminates a loop header the way a keyword would
	_, err := parseSrc(t, program("effgium effgium;"))
	require.NotNil(t, err)
	assert.Equal(t, diag.ParseExpectedToken, err.Code)
}
