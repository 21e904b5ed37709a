package token

import "fmt"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindError

	KindIdentifier
	KindInt
	KindReal
	KindString
	KindCantus // cantus'...${expr}...' raw body

	// Keywords
	KindVcon
	KindFcon
	KindCcon
	KindPrincipium
	KindReditus
	KindRecursio
	KindSi
	KindVerum
	KindFalsum
	KindPropositio
	KindQuota
	KindAcceleratio
	KindEffigium
	KindProximum
	KindNon
	KindEt
	KindAut
	KindNihil
	KindSubjecto

	// Type names (inte, real, filum, verum, ordinata, catalogus)
	KindType

	// Section tags
	KindFonsOpen
	KindFonsClose
	KindIntroOpen
	KindIntroClose
	KindDoctrinaOpen
	KindDoctrinaClose

	// Punctuation
	KindSemicolon
	KindColon
	KindComma
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket

	// Operators
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPow
	KindPercent
	KindEq
	KindNe // ><
	KindLt
	KindGt
	KindLe
	KindGe
	KindAssign
	KindFlow // <-
	KindDef  // ->
)

// Token is a lexical unit pointing back to the source. Index is the
// token's position in the stream, used by parser diagnostics.
type Token struct {
	Kind   Kind
	Value  string
	Offset int
	Line   int
	Col    int
	Index  int
}

// Keywords maps keyword spellings to token kinds. Looked up before the
// identifier fallback, so `effgium` stays a plain identifier.
var Keywords = map[string]Kind{
	"VCON":        KindVcon,
	"FCON":        KindFcon,
	"CCON":        KindCcon,
	"PRINCIPIUM":  KindPrincipium,
	"REDITUS":     KindReditus,
	"RECURSIO":    KindRecursio,
	"SI":          KindSi,
	"VERUM":       KindVerum,
	"FALSUM":      KindFalsum,
	"propositio":  KindPropositio,
	"quota":       KindQuota,
	"acceleratio": KindAcceleratio,
	"effigium":    KindEffigium,
	"proximum":    KindProximum,
	"non":         KindNon,
	"et":          KindEt,
	"aut":         KindAut,
	"nihil":       KindNihil,
	"cantus":      KindCantus,
	"subjecto":    KindSubjecto,
}

// TypeNames is the closed set of declarable type spellings.
var TypeNames = map[string]bool{
	"inte":      true,
	"real":      true,
	"filum":     true,
	"verum":     true,
	"ordinata":  true,
	"catalogus": true,
}

var kindNames = map[Kind]string{
	KindEOF:           "EOF",
	KindError:         "ERROR",
	KindIdentifier:    "IDENT",
	KindInt:           "INT",
	KindReal:          "REAL",
	KindString:        "STRING",
	KindCantus:        "CANTUS",
	KindVcon:          "VCON",
	KindFcon:          "FCON",
	KindCcon:          "CCON",
	KindPrincipium:    "PRINCIPIUM",
	KindReditus:       "REDITUS",
	KindRecursio:      "RECURSIO",
	KindSi:            "SI",
	KindVerum:         "VERUM",
	KindFalsum:        "FALSUM",
	KindPropositio:    "propositio",
	KindQuota:         "quota",
	KindAcceleratio:   "acceleratio",
	KindEffigium:      "effigium",
	KindProximum:      "proximum",
	KindNon:           "non",
	KindEt:            "et",
	KindAut:           "aut",
	KindNihil:         "nihil",
	KindSubjecto:      "subjecto",
	KindType:          "TYPE",
	KindFonsOpen:      "<FONS>",
	KindFonsClose:     "</FONS>",
	KindIntroOpen:     "<INTRODUCTIO>",
	KindIntroClose:    "</INTRODUCTIO>",
	KindDoctrinaOpen:  "<DOCTRINA>",
	KindDoctrinaClose: "</DOCTRINA>",
	KindSemicolon:     ";",
	KindColon:         ":",
	KindComma:         ",",
	KindLParen:        "(",
	KindRParen:        ")",
	KindLBrace:        "{",
	KindRBrace:        "}",
	KindLBracket:      "[",
	KindRBracket:      "]",
	KindPlus:          "+",
	KindMinus:         "-",
	KindStar:          "*",
	KindSlash:         "/",
	KindPow:           "**",
	KindPercent:       "%",
	KindEq:            "==",
	KindNe:            "><",
	KindLt:            "<",
	KindGt:            ">",
	KindLe:            "<=",
	KindGe:            ">=",
	KindAssign:        "=",
	KindFlow:          "<-",
	KindDef:           "->",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (t Token) String() string {
	if t.Value != "" && t.Value != t.Kind.String() {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
	}
	return t.Kind.String()
}

// IsComparison reports whether the kind is one of the six comparison
// operators. Comparison does not chain, so the parser asks after
// consuming one.
func (k Kind) IsComparison() bool {
	switch k {
	case KindEq, KindNe, KindLt, KindGt, KindLe, KindGe:
		return true
	}
	return false
}
