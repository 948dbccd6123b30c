package decl

import (
	"errors"
	"fmt"
	"go/token"
)

var (
	ErrIdentityTwice   = errors.New("name or fullname already specified")
	ErrIncludeTwice    = errors.New("include or include_outdir already specified")
	ErrUnknownOption   = errors.New("unknown name")
	ErrBadOption       = errors.New("malformed options")
	ErrNotFunc         = errors.New("currently supports func only")
	ErrUntypedParam    = errors.New("expect name type")
	ErrVariadic        = errors.New("variadic parameter not supported")
	ErrIncludeWithBody = errors.New("include or include_outdir specified but body not empty")
	ErrIncludeAtBlock  = errors.New("include or include_outdir not supported at block")
	ErrNestedInclude   = errors.New("included file can not include again")
	ErrUnresolved      = errors.New(`expect //lazylink:bind name = "..", or //lazylink:link name = ".."`)
	ErrDuplicate       = errors.New("function already declared")
	ErrBuild           = errors.New("invalid build constraint")
	ErrNoRoot          = errors.New("failed to get project root")
	ErrNoOutDir        = errors.New("failed to get LAZYLINK_OUTDIR")
	ErrDirective       = errors.New("unknown directive")
)

// Error is a configuration error of a declaration, naming the offending item.
type Error struct {
	Pos  token.Position
	Item string
	Err  error
}

func (e *Error) Error() string {
	p := ""
	if e.Pos.IsValid() {
		p = e.Pos.String() + ": "
	} else if e.Pos.Filename != "" {
		p = e.Pos.Filename + ": "
	}
	if e.Item != "" {
		return fmt.Sprintf("%s%s: %v", p, e.Item, e.Err)
	}
	return p + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(pos token.Position, item string, err error) *Error {
	return &Error{Pos: pos, Item: item, Err: err}
}

func pos(file string) token.Position {
	return token.Position{Filename: file}
}
