// Package builtins describes the opaque builtin symbols the validator
// checks arity against and the emitter routes to host facilities.
package builtins

import "github.com/Yusuke-1986/project-arcana/pkg/compiler/types"

// Variadic marks a builtin that accepts any argument count.
const Variadic = -1

// Signature is a builtin's declared arity, return type, and the host
// symbol calls are routed through. A HostName starting with "__arc_"
// is defined by the emitted prelude rather than the host itself.
type Signature struct {
	Arity    int
	Return   types.Type
	HostName string
}

// Table is the builtin symbol table.
var Table = map[string]Signature{
	"indicant":  {Arity: Variadic, Return: types.Nihil, HostName: "print"},
	"accipere":  {Arity: Variadic, Return: types.Filum, HostName: "input"},
	"longitudo": {Arity: 1, Return: types.Inte, HostName: "len"},
	"figura":    {Arity: 1, Return: types.Filum, HostName: "type"},
	"tempus":    {Arity: 0, Return: types.Real, HostName: "__arc_tempus"},
	"chronos":   {Arity: 0, Return: types.Real, HostName: "__arc_chronos"},
}

// Lookup returns the builtin signature for name.
func Lookup(name string) (Signature, bool) {
	sig, ok := Table[name]
	return sig, ok
}
