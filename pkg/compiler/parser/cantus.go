package parser

import (
	"strings"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/ast"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/diag"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/lexer"
	"github.com/Yusuke-1986/project-arcana/pkg/compiler/token"
)

// parseCantus splits a cantus body into alternating text and expression
// parts. Expression fragments are re-parsed through the expression
// parser, never evaluated here. A `$` not followed by `{` is literal.
func (p *Parser) parseCantus() (ast.Expr, *diag.Diagnostic) {
	tok := p.next()
	raw := tok.Value

	lit := &ast.FStrLit{Token: tok.Index}
	var text strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			end := strings.IndexByte(raw[i+2:], '}')
			if end < 0 {
				return nil, diag.New(diag.ParseUnexpectedToken, tok.Index,
					"Interpolatio non terminata.")
			}
			if text.Len() > 0 {
				lit.Parts = append(lit.Parts, ast.FStrPart{Text: text.String()})
				text.Reset()
			}
			fragment := raw[i+2 : i+2+end]
			expr, err := p.parseFragment(fragment, tok.Index)
			if err != nil {
				return nil, err
			}
			lit.Parts = append(lit.Parts, ast.FStrPart{Expr: expr})
			i += 2 + end + 1
			continue
		}
		text.WriteByte(raw[i])
		i++
	}
	if text.Len() > 0 {
		lit.Parts = append(lit.Parts, ast.FStrPart{Text: text.String()})
	}
	return lit, nil
}

// parseFragment runs one interpolation fragment through the scanner and
// the expression grammar. Diagnostics are re-anchored to the cantus
// token, since fragment positions are meaningless to the caller.
func (p *Parser) parseFragment(fragment string, pos int) (ast.Expr, *diag.Diagnostic) {
	toks, err := lexer.Scan(fragment)
	if err != nil {
		return nil, diag.New(err.Code, pos, "%s", err.Message)
	}
	sub := New(toks)
	expr, err := sub.parseExpr()
	if err != nil {
		return nil, diag.New(err.Code, pos, "%s", err.Message)
	}
	if !sub.at(token.KindEOF) {
		return nil, diag.New(diag.ParseUnexpectedToken, pos,
			"Caerimoniae Sinice haberi non possunt.: %s", sub.cur())
	}
	return expr, nil
}
