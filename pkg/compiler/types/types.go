// Package types holds Arcana's closed type enum. Types are declared,
// never inferred, and compared by equality only.
package types

// Type represents a declarable Arcana type, plus the nihil sentinel
// which is valid only as a function return type.
type Type uint8

const (
	Unknown Type = iota
	Inte
	Real
	Filum
	Verum
	Ordinata
	Catalogus
	Nihil
)

var names = map[Type]string{
	Unknown:   "?",
	Inte:      "inte",
	Real:      "real",
	Filum:     "filum",
	Verum:     "verum",
	Ordinata:  "ordinata",
	Catalogus: "catalogus",
	Nihil:     "nihil",
}

func (t Type) String() string { return names[t] }

// FromName maps a declared type spelling to its Type. The parser only
// feeds spellings the lexer classified as types or nihil.
func FromName(name string) Type {
	switch name {
	case "inte":
		return Inte
	case "real":
		return Real
	case "filum":
		return Filum
	case "verum":
		return Verum
	case "ordinata":
		return Ordinata
	case "catalogus":
		return Catalogus
	case "nihil":
		return Nihil
	}
	return Unknown
}

// ZeroValue is the host-language initializer used when a declaration
// has no init expression.
func (t Type) ZeroValue() string {
	switch t {
	case Inte:
		return "0"
	case Real:
		return "0.0"
	case Filum:
		return `""`
	case Verum:
		return "False"
	case Ordinata:
		return "[]"
	case Catalogus:
		return "{}"
	}
	return "None"
}

// Numeric reports whether the type participates in arithmetic widening.
func (t Type) Numeric() bool { return t == Inte || t == Real }
