package parser

import (
	"strconv"
	"strings"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/diag"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/token"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/types"
)

// Parser is a single-pass recursive descent parser with one-token
// lookahead over a scanned token stream. The first error aborts.
type Parser struct {
	toks []token.Token
	i    int
}

// New creates a parser over a token stream. The stream must be
// EOF-terminated, as produced by lexer.Scan.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse runs the grammar's start symbol.
func Parse(toks []token.Token) (*ast.Program, *diag.Diagnostic) {
	return New(toks).ParseProgram()
}

// ---------- cursor primitives ----------

func (p *Parser) cur() token.Token {
	if p.i < len(p.toks) {
		return p.toks[p.i]
	}
	return token.Token{Kind: token.KindEOF, Index: len(p.toks)}
}

func (p *Parser) peek(n int) token.Token {
	j := p.i + n
	if j < len(p.toks) {
		return p.toks[j]
	}
	return token.Token{Kind: token.KindEOF, Index: len(p.toks)}
}

func (p *Parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) next() token.Token {
	t := p.cur()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *Parser) consume(kind token.Kind) (token.Token, *diag.Diagnostic) {
	if !p.at(kind) {
		t := p.cur()
		return t, diag.New(diag.ParseExpectedToken, t.Index,
			"Accipe %s, pro %s apud indicem tesserae %d.", t, kind, t.Index)
	}
	return p.next(), nil
}

func (p *Parser) fail(code diag.Code, format string, args ...any) *diag.Diagnostic {
	return diag.New(code, p.cur().Index, format, args...)
}

// ---------- program structure ----------

// ParseProgram demands the three sections in order and a trailing EOF.
func (p *Parser) ParseProgram() (*ast.Program, *diag.Diagnostic) {
	prog := &ast.Program{}

	if _, err := p.consume(token.KindFonsOpen); err != nil {
		return nil, err
	}
	for !p.at(token.KindFonsClose) {
		entry, err := p.parseImportEntry()
		if err != nil {
			return nil, err
		}
		prog.Imports = append(prog.Imports, entry)
	}
	if _, err := p.consume(token.KindFonsClose); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.KindIntroOpen); err != nil {
		return nil, err
	}
	for !p.at(token.KindIntroClose) {
		if p.at(token.KindEOF) {
			return nil, p.fail(diag.ParseExpectedToken, "Sectio INTRODUCTIO non clausa est.")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Defines = append(prog.Defines, stmt)
	}
	if _, err := p.consume(token.KindIntroClose); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.KindDoctrinaOpen); err != nil {
		return nil, err
	}
	main, err := p.parseMain()
	if err != nil {
		return nil, err
	}
	prog.Main = main
	if _, err := p.consume(token.KindDoctrinaClose); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindEOF); err != nil {
		return nil, err
	}
	return prog, nil
}

// parseImportEntry records a free-form descriptor up to the closing
// semicolon; resolution is external.
func (p *Parser) parseImportEntry() (*ast.ImportEntry, *diag.Diagnostic) {
	start := p.cur().Index
	var parts []string
	for !p.at(token.KindSemicolon) {
		switch p.cur().Kind {
		case token.KindEOF, token.KindFonsClose:
			return nil, p.fail(diag.ParseExpectedToken,
				"Accipe %s, pro ; apud indicem tesserae %d.", p.cur(), p.cur().Index)
		}
		parts = append(parts, p.next().Value)
	}
	p.next() // ;
	return &ast.ImportEntry{Raw: strings.Join(parts, " "), Token: start}, nil
}

// parseMain demands exactly FCON subjecto: nihil () -> { ... };
func (p *Parser) parseMain() (*ast.FuncDecl, *diag.Diagnostic) {
	if !p.at(token.KindFcon) {
		return nil, p.fail(diag.ParseMainSubjectoRequired, "Nulla scriptura sine themate est.")
	}
	start := p.next().Index

	if !p.at(token.KindSubjecto) {
		return nil, p.fail(diag.ParseMainSubjectoRequired, "Nulla scriptura sine themate est.")
	}
	p.next()

	if _, err := p.consume(token.KindColon); err != nil {
		return nil, err
	}
	if !p.at(token.KindNihil) {
		return nil, p.fail(diag.ParseMainNihilRequired, "Subiectum veritatem non dat.")
	}
	p.next()

	if _, err := p.consume(token.KindLParen); err != nil {
		return nil, err
	}
	if !p.at(token.KindRParen) {
		return nil, p.fail(diag.ParseMainNihilRequired, "Subiectum veritatem non dat.")
	}
	p.next()

	if _, err := p.consume(token.KindDef); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Token: start, Name: "subjecto", Return: types.Nihil, Body: body}, nil
}

// ---------- statements ----------

func (p *Parser) parseStmt() (ast.Stmt, *diag.Diagnostic) {
	switch p.cur().Kind {
	case token.KindNihil:
		if p.peek(1).Kind != token.KindSemicolon {
			return nil, p.fail(diag.ParseNihilNotExpr,
				"nihil is not an expression in v0.3; use 'nihil;' as a statement")
		}
		start := p.next().Index
		p.next() // ;
		return &ast.NihilStmt{Token: start}, nil

	case token.KindEffigium:
		start := p.next().Index
		if _, err := p.consume(token.KindSemicolon); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Token: start}, nil

	case token.KindProximum:
		start := p.next().Index
		if _, err := p.consume(token.KindSemicolon); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Token: start}, nil

	case token.KindVcon:
		return p.parseVarDecl()
	case token.KindPrincipium:
		return p.parseConstDecl()
	case token.KindFcon:
		return p.parseFuncDecl()
	case token.KindCcon:
		return p.parseClassDecl()
	case token.KindSi:
		return p.parseIf()
	case token.KindRecursio:
		return p.parseLoop()
	case token.KindReditus:
		return p.parseReturn()

	case token.KindIdentifier:
		if p.isCompoundAssign() {
			return nil, p.fail(diag.ParseUnsupportedSyntax,
				"'%s=' is not supported; use: i = i %s 1;", p.peek(1).Value, p.peek(1).Value)
		}
		if p.peek(1).Kind == token.KindFlow {
			return p.parseMove()
		}
		if p.peek(1).Kind == token.KindAssign {
			return p.parseAssign()
		}
	}

	// expression statement fallback; a bare dual-form call becomes a
	// call statement
	start := p.cur().Index
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	if call, ok := expr.(*ast.CallExpr); ok {
		return &ast.CallStmt{Call: call}, nil
	}
	return &ast.ExprStmt{Token: start, X: expr}, nil
}

func (p *Parser) isCompoundAssign() bool {
	switch p.peek(1).Kind {
	case token.KindPlus, token.KindMinus, token.KindStar, token.KindSlash, token.KindPercent:
		return p.peek(2).Kind == token.KindAssign
	}
	return false
}

func (p *Parser) atCallExpr() bool {
	return p.at(token.KindIdentifier) &&
		p.peek(1).Kind == token.KindLParen &&
		p.peek(2).Kind == token.KindRParen &&
		p.peek(3).Kind == token.KindFlow
}

func (p *Parser) parseVarDecl() (ast.Stmt, *diag.Diagnostic) {
	start := p.next().Index // VCON
	name, err := p.consume(token.KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindColon); err != nil {
		return nil, err
	}
	typ, err := p.consume(token.KindType)
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.at(token.KindAssign) {
		p.next()
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Token: start, Name: name.Value, Type: types.FromName(typ.Value), Init: init}, nil
}

func (p *Parser) parseConstDecl() (ast.Stmt, *diag.Diagnostic) {
	start := p.next().Index // PRINCIPIUM
	name, err := p.consume(token.KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindColon); err != nil {
		return nil, err
	}
	typ, err := p.consume(token.KindType)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindAssign); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.ConstDecl{Token: start, Name: name.Value, Type: types.FromName(typ.Value), Init: init}, nil
}

// parseFuncDecl handles a general FCON declaration in INTRODUCTIO:
// FCON name:Type (p1:Type, p2:Type) -> { body } ;
func (p *Parser) parseFuncDecl() (ast.Stmt, *diag.Diagnostic) {
	start := p.next().Index // FCON
	name, err := p.consume(token.KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindColon); err != nil {
		return nil, err
	}

	var ret types.Type
	switch p.cur().Kind {
	case token.KindNihil:
		ret = types.Nihil
		p.next()
	case token.KindType:
		ret = types.FromName(p.next().Value)
	default:
		return nil, p.fail(diag.ParseExpectedToken,
			"Accipe %s, pro TYPE apud indicem tesserae %d.", p.cur(), p.cur().Index)
	}

	if _, err := p.consume(token.KindLParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.at(token.KindRParen) {
		if len(params) > 0 {
			if _, err := p.consume(token.KindComma); err != nil {
				return nil, err
			}
		}
		pname, err := p.consume(token.KindIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.KindColon); err != nil {
			return nil, err
		}
		ptyp, err := p.consume(token.KindType)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname.Value, Type: types.FromName(ptyp.Value)})
	}
	p.next() // )

	if _, err := p.consume(token.KindDef); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Token: start, Name: name.Value, Return: ret, Params: params, Body: body}, nil
}

// parseClassDecl parses the reserved CCON form and stores it untouched.
func (p *Parser) parseClassDecl() (ast.Stmt, *diag.Diagnostic) {
	start := p.next().Index // CCON
	name, err := p.consume(token.KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindDef); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.ClassDecl{Token: start, Name: name.Value, Body: body}, nil
}

func (p *Parser) parseMove() (ast.Stmt, *diag.Diagnostic) {
	dst := p.next() // IDENT
	p.next()        // <-
	if !p.at(token.KindIdentifier) {
		return nil, p.fail(diag.ParseInvalidMove, "Aquam sine vase infundere non potes.")
	}
	src := p.next()
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.Move{Token: dst.Index, Dst: dst.Value, Src: src.Value}, nil
}

func (p *Parser) parseAssign() (ast.Stmt, *diag.Diagnostic) {
	name := p.next() // IDENT
	p.next()         // =
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.Assign{Token: name.Index, Target: name.Value, Value: value}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, *diag.Diagnostic) {
	start := p.next().Index // REDITUS
	if p.at(token.KindSemicolon) {
		p.next()
		return &ast.ReturnStmt{Token: start}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Token: start, Value: value}, nil
}

// parseIf: SI propositio:(cond) { VERUM{...} FALSUM{...} } ;
// The FALSUM arm is optional.
func (p *Parser) parseIf() (ast.Stmt, *diag.Diagnostic) {
	start := p.next().Index // SI
	cond, err := p.parsePropositioClause()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.KindLBrace); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindVerum); err != nil {
		return nil, err
	}
	verum, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var falsum []ast.Stmt
	if p.at(token.KindFalsum) {
		p.next()
		falsum, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.KindRBrace); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.IfStmt{Token: start, Cond: cond, Verum: verum, Falsum: falsum}, nil
}

func (p *Parser) parsePropositioClause() (ast.Expr, *diag.Diagnostic) {
	if _, err := p.consume(token.KindPropositio); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindColon); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseLoop: RECURSIO(propositio:(cond) [, quota:...] [, acceleratio:...]) -> { body } ;
// Clauses are labeled and ordered; quota takes either a budget
// expression or a counter binding `name = expr`.
func (p *Parser) parseLoop() (ast.Stmt, *diag.Diagnostic) {
	start := p.next().Index // RECURSIO
	if _, err := p.consume(token.KindLParen); err != nil {
		return nil, err
	}

	if !p.at(token.KindPropositio) {
		if p.at(token.KindIdentifier) {
			return nil, p.fail(diag.ParseUnknownLoopHeader,
				"Quaslibet designationes falsas firmiter repudiabimus.: %s", p.cur().Value)
		}
		return nil, p.fail(diag.ParseLoopPropositioMissing, "Propositiones in vita necessariae sunt.")
	}
	cond, err := p.parsePropositioClause()
	if err != nil {
		return nil, err
	}

	loop := &ast.LoopStmt{Token: start, Cond: cond}
	for p.at(token.KindComma) {
		p.next()
		switch p.cur().Kind {
		case token.KindQuota:
			if loop.Quota != nil || loop.Step != nil {
				return nil, p.fail(diag.ParseUnexpectedToken, "Quid est hoc! Quid faciam?: %s", p.cur())
			}
			p.next()
			if _, err := p.consume(token.KindColon); err != nil {
				return nil, err
			}
			clause := &ast.QuotaClause{}
			if p.at(token.KindIdentifier) && p.peek(1).Kind == token.KindAssign {
				clause.Counter = p.next().Value
				p.next() // =
				clause.Init, err = p.parseExpr()
			} else {
				clause.Budget, err = p.parseExpr()
			}
			if err != nil {
				return nil, err
			}
			loop.Quota = clause

		case token.KindAcceleratio:
			if loop.Step != nil {
				return nil, p.fail(diag.ParseUnexpectedToken, "Quid est hoc! Quid faciam?: %s", p.cur())
			}
			p.next()
			if _, err := p.consume(token.KindColon); err != nil {
				return nil, err
			}
			loop.Step, err = p.parseExpr()
			if err != nil {
				return nil, err
			}

		case token.KindPropositio:
			return nil, p.fail(diag.ParseUnexpectedToken, "Quid est hoc! Quid faciam?: %s", p.cur())
		default:
			return nil, p.fail(diag.ParseUnknownLoopHeader,
				"Quaslibet designationes falsas firmiter repudiabimus.: %s", p.cur().Value)
		}
	}

	if _, err := p.consume(token.KindRParen); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindDef); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KindSemicolon); err != nil {
		return nil, err
	}
	loop.Body = body
	return loop, nil
}

func (p *Parser) parseBlock() ([]ast.Stmt, *diag.Diagnostic) {
	if _, err := p.consume(token.KindLBrace); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.at(token.KindRBrace) {
		if p.at(token.KindEOF) {
			return nil, p.fail(diag.ParseExpectedToken,
				"Accipe EOF, pro } apud indicem tesserae %d.", p.cur().Index)
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.next() // }
	return stmts, nil
}

// ---------- expressions ----------

// Precedence, lowest to highest: aut, et, non, comparison, additive,
// multiplicative, power, primary.

func (p *Parser) parseExpr() (ast.Expr, *diag.Diagnostic) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.KindAut) {
		tok := p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Token: tok.Index, Op: ast.OpAut, Lhs: left, Rhs: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.KindEt) {
		tok := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Token: tok.Index, Op: ast.OpEt, Lhs: left, Rhs: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, *diag.Diagnostic) {
	if p.at(token.KindNon) {
		tok := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Token: tok.Index, Op: ast.OpNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Kind]ast.BinOpKind{
	token.KindEq: ast.OpEq,
	token.KindNe: ast.OpNe,
	token.KindLt: ast.OpLt,
	token.KindGt: ast.OpGt,
	token.KindLe: ast.OpLe,
	token.KindGe: ast.OpGe,
}

// parseComparison accepts at most one comparison operator; chaining is
// a hard error.
func (p *Parser) parseComparison() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if !p.cur().Kind.IsComparison() {
		return left, nil
	}
	tok := p.next()
	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind.IsComparison() {
		return nil, p.fail(diag.ParseUnexpectedToken, "Comparationes catenari non possunt.")
	}
	return &ast.BinOp{Token: tok.Index, Op: comparisonOps[tok.Kind], Lhs: left, Rhs: right}, nil
}

func (p *Parser) parseAdd() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.at(token.KindPlus) || p.at(token.KindMinus) {
		tok := p.next()
		op := ast.OpAdd
		if tok.Kind == token.KindMinus {
			op = ast.OpSub
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Token: tok.Index, Op: op, Lhs: left, Rhs: right}
	}
	return left, nil
}

var mulOps = map[token.Kind]ast.BinOpKind{
	token.KindStar:    ast.OpMul,
	token.KindSlash:   ast.OpDiv,
	token.KindPercent: ast.OpMod,
}

func (p *Parser) parseMul() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := mulOps[p.cur().Kind]
		if !ok {
			return left, nil
		}
		tok := p.next()
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Token: tok.Index, Op: op, Lhs: left, Rhs: right}
	}
}

// parsePow is right-associative: a ** b ** c is a ** (b ** c).
func (p *Parser) parsePow() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.at(token.KindPow) {
		return left, nil
	}
	tok := p.next()
	right, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Token: tok.Index, Op: ast.OpPow, Lhs: left, Rhs: right}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, *diag.Diagnostic) {
	switch p.cur().Kind {
	case token.KindMinus:
		tok := p.next()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Token: tok.Index, Op: ast.OpNeg, Operand: operand}, nil

	case token.KindIdentifier:
		if p.atCallExpr() {
			return p.parseCallExpr()
		}
		tok := p.next()
		return &ast.Ident{Token: tok.Index, Name: tok.Value}, nil

	case token.KindInt:
		tok := p.next()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, diag.New(diag.ParseInternal, tok.Index, "Internal compiler error: %v", err)
		}
		return &ast.IntLit{Token: tok.Index, Value: v}, nil

	case token.KindReal:
		tok := p.next()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, diag.New(diag.ParseInternal, tok.Index, "Internal compiler error: %v", err)
		}
		return &ast.RealLit{Token: tok.Index, Value: v, Text: tok.Value}, nil

	case token.KindString:
		tok := p.next()
		return &ast.StrLit{Token: tok.Index, Value: tok.Value}, nil

	case token.KindCantus:
		return p.parseCantus()

	case token.KindLBrace:
		return p.parseDictLit()

	case token.KindLParen:
		tok := p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.KindRParen); err != nil {
			return nil, err
		}
		return &ast.Paren{Token: tok.Index, Inner: inner}, nil

	case token.KindNihil:
		return nil, p.fail(diag.ParseNihilNotExpr,
			"nihil is not an expression in v0.3; use 'nihil;' as a statement")
	}

	return nil, p.fail(diag.ParseUnexpectedToken,
		"Caerimoniae Sinice haberi non possunt.: %s", p.cur())
}

func (p *Parser) parseCallExpr() (*ast.CallExpr, *diag.Diagnostic) {
	name := p.next() // IDENT
	p.next()         // (
	p.next()         // )
	p.next()         // <-
	if _, err := p.consume(token.KindLParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for !p.at(token.KindRParen) {
		if len(args) > 0 {
			if _, err := p.consume(token.KindComma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.next() // )
	return &ast.CallExpr{Token: name.Index, Name: name.Value, Args: args}, nil
}

func (p *Parser) parseDictLit() (ast.Expr, *diag.Diagnostic) {
	start := p.next().Index // {
	lit := &ast.DictLit{Token: start}
	for !p.at(token.KindRBrace) {
		if len(lit.Pairs) > 0 {
			if _, err := p.consume(token.KindComma); err != nil {
				return nil, err
			}
			if p.at(token.KindRBrace) { // trailing comma
				break
			}
		}
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.KindColon); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Pairs = append(lit.Pairs, ast.DictPair{Key: key, Value: value})
	}
	p.next() // }
	return lit, nil
}
