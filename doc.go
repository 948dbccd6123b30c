/*
Package lazylink binds functions of dynamic shared libraries on first use, based on [purego].

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. No link time dependency: nothing is linked with cgo flags, the library is opened by dlopen (LoadLibrary on windows) at the first call.
 2. Functions sharing one library identity form a [Group]. The first call of any function in a group opens the library
    and resolves every declared symbol once, concurrent first callers wait for that single attempt.
 3. A group is all or nothing: when the library or any symbol is missing, every function of the group fails with the same [BindError],
    and the group never retries.
 4. Libraries are never closed. Once a group is ready the forwarding funcs call the resolved symbols directly.

# Notes

 1. Declared funcs follow the rules of [purego.RegisterFunc], arguments must be valid for the C calling convention.
 2. Variadic funcs are not supported.
 3. A failed group panics with the [BindError] in the calling goroutine by default, use [Try] or [Group.Init] to handle it,
    or [PolicyFatal] to terminate the process instead.

# Declaration and code generation

Functions can be declared by [Declare], [Bind], or generated from a declaration file by the lazylink tool:

	go install github.com/ZenLiuCN/lazylink/cmd/lazylink@latest
	lazylink generate -o libc_lazy.go libc.decl.go

See package decl for the declaration file format.

# Samples

See testdata and tests.

[purego]: https://github.com/ebitengine/purego
*/
package lazylink
