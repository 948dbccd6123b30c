package lazylink

import (
	"fmt"
	"reflect"
)

// Function is one declared external function of a Group.
type Function struct {
	Name   string       //name used by call sites
	Symbol string       //name resolved in the library, empty means Name
	Type   reflect.Type //func type of the callable
}

// SymbolName is the name looked up in the library.
func (f Function) SymbolName() string {
	if f.Symbol == "" {
		return f.Name
	}
	return f.Symbol
}

func (f Function) validate() error {
	if f.Name == "" {
		return fmt.Errorf("function without name")
	}
	if f.Type == nil || f.Type.Kind() != reflect.Func {
		return fmt.Errorf("%s: %w", f.Name, ErrNotFunc)
	}
	if f.Type.IsVariadic() {
		return fmt.Errorf("%s: %w", f.Name, ErrVariadic)
	}
	return nil
}

func (f Function) String() string {
	if f.Symbol != "" && f.Symbol != f.Name {
		return fmt.Sprintf("%s(%s) %s", f.Name, f.Symbol, f.Type)
	}
	return fmt.Sprintf("%s %s", f.Name, f.Type)
}
