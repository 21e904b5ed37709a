package emitter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/emitter"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/lexer"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/parser"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/semantic"
)

func compile(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Scan(src)
	require.Nil(t, err, "lexing failed: %v", err)
	prog, err := parser.Parse(toks)
	require.Nil(t, err, "parse failed: %v", err)
	require.Nil(t, semantic.Analyze(prog))
	return prog
}

func emitBody(t *testing.T, intro, body string) string {
	t.Helper()
	src := "<FONS></FONS><INTRODUCTIO>" + intro + "</INTRODUCTIO><DOCTRINA>" +
		"FCON subjecto: nihil () -> { " + body + " };</DOCTRINA>"
	return emitter.New().Emit(compile(t, src))
}

func TestEmitLayout(t *testing.T) {
	out := emitBody(t, "VCON x: inte = 1;", "indicant() <- (x);")
	want := `x = 1

def subjecto():
    print(x)

if __name__ == "__main__":
    subjecto()
`
	assert.Equal(t, want, out)
}

func TestEmitZeroValues(t *testing.T) {
	out := emitBody(t,
		"VCON a: inte; VCON b: real; VCON c: filum; VCON d: verum; VCON e: ordinata; VCON f: catalogus;",
		"nihil;")
	assert.Contains(t, out, "a = 0\n")
	assert.Contains(t, out, "b = 0.0\n")
	assert.Contains(t, out, `c = ""`)
	assert.Contains(t, out, "d = False\n")
	assert.Contains(t, out, "e = []\n")
	assert.Contains(t, out, "f = {}\n")
}

func TestEmitIf(t *testing.T) {
	out := emitBody(t, "", `SI propositio:(a >< b) { VERUM{ indicant() <- ("imp"); } };`)
	assert.Contains(t, out, "if (a != b):")
	assert.Contains(t, out, "else:\n        pass")
}

func TestEmitOperators(t *testing.T) {
	out := emitBody(t, "", `x = a et b aut non c;`)
	assert.Contains(t, out, "x = ((a and b) or (not c))")

	out = emitBody(t, "", `y = 2 ** 3 ** 2;`)
	assert.Contains(t, out, "y = (2 ** (3 ** 2))")

	out = emitBody(t, "", `z = a % 3 == 0;`)
	assert.Contains(t, out, "z = ((a % 3) == 0)")
}

func TestEmitMoveIsRebind(t *testing.T) {
	out := emitBody(t, "", "a <- b;")
	assert.Contains(t, out, "    a = b\n")
	assert.NotContains(t, out, "b = None")
}

func TestEmitFString(t *testing.T) {
	out := emitBody(t, "", `x = cantus'x=${a+b}';`)
	assert.Contains(t, out, `x = ("x=" + str((a + b)))`)

	out = emitBody(t, "", `x = cantus'merus textus';`)
	assert.Contains(t, out, `x = "merus textus"`)
}

func TestEmitDictLiteral(t *testing.T) {
	out := emitBody(t, "", `x = {"unus": 1, "duo": 2};`)
	assert.Contains(t, out, `x = {"unus": 1, "duo": 2}`)
}

func TestEmitFunctionAndReturn(t *testing.T) {
	out := emitBody(t, `FCON summa: inte (a: inte, b: inte) -> { REDITUS a + b; };`,
		`indicant() <- (summa() <- (1, 2));`)
	assert.Contains(t, out, "def summa(a, b):")
	assert.Contains(t, out, "    return (a + b)")
	assert.Contains(t, out, "print(summa(1, 2))")
}

func TestEmitLoopQuotaGuard(t *testing.T) {
	out := emitBody(t, "", `VCON i: inte = 1;
		RECURSIO(propositio:(i <= 3), quota: 5) -> { i = i + 1; };`)

	wantLines := []string{
		"    __arc_i0 = 0",
		"    __arc_n0 = 0",
		"    while (i <= 3):",
		"        __arc_n0 += 1",
		"        if __arc_n0 > (5):",
		`            __arc_fail("R0100_VERITATEM_NON_ATTIGI", "Veritatem non attigi.")`,
		"        i = (i + 1)",
		"        __arc_i0 += 1",
	}
	for _, line := range wantLines {
		assert.Contains(t, out, line+"\n", "missing %q", line)
	}
	assert.Contains(t, out, "def __arc_fail(code, message):")
}

func TestEmitLoopCounterBindingAndStep(t *testing.T) {
	out := emitBody(t, "", `RECURSIO(propositio:(i < 10), quota: i = 0, acceleratio: 2) -> { nihil; };`)

	assert.Contains(t, out, "    i = 0\n")
	assert.Contains(t, out, "        __arc_s0 = 2")
	assert.Contains(t, out, "        if __arc_s0 <= 0:")
	assert.Contains(t, out, `__arc_fail("E0110_LOOP_STEP_NOT_POSITIVE", "stationarius accelerationis")`)
	assert.Contains(t, out, "        i += __arc_s0")
	// binding form keeps the default budget
	assert.Contains(t, out, "if __arc_n0 > (100):")
}

func TestEmitNestedLoopsGetDistinctLocals(t *testing.T) {
	out := emitBody(t, "", `RECURSIO(propositio:(a < 2)) -> {
		RECURSIO(propositio:(b < 2)) -> { nihil; };
	};`)
	assert.Contains(t, out, "__arc_n0")
	assert.Contains(t, out, "__arc_n1")
}

func TestEmitTimeBuiltinsPullPrelude(t *testing.T) {
	out := emitBody(t, "", `x = tempus() <- ();`)
	assert.Contains(t, out, "import time as __arc_time")
	assert.Contains(t, out, "def __arc_tempus():")
	assert.NotContains(t, out, "__arc_chronos")

	out = emitBody(t, "", `indicant() <- ("purus");`)
	assert.NotContains(t, out, "__arc_time")
}

func TestEmitImportsAsComments(t *testing.T) {
	src := `<FONS>mathesis;</FONS><INTRODUCTIO></INTRODUCTIO><DOCTRINA>` +
		`FCON subjecto: nihil () -> { nihil; };</DOCTRINA>`
	out := emitter.New().Emit(compile(t, src))
	assert.True(t, strings.HasPrefix(out, "# fons: mathesis\n"))
}

func TestEmitDeterministic(t *testing.T) {
	src := `<FONS>mathesis;</FONS><INTRODUCTIO>VCON x: inte = 1;</INTRODUCTIO><DOCTRINA>` +
		`FCON subjecto: nihil () -> { RECURSIO(propositio:(x < 3)) -> { x = x + 1; }; };</DOCTRINA>`
	prog := compile(t, src)
	first := emitter.New().Emit(prog)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, emitter.New().Emit(prog))
	}
}
