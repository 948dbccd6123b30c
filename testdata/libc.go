// Package libc binds a few functions of the C library and zlib.
//
//lazylink:bind fullname = "libc.so.6"
package libc

import "unsafe"

// CString is a NUL terminated string.
type CString = *byte

type libc interface {
	// Puts writes s and a trailing newline to stdout.
	//lazylink:symbol puts
	Puts(s CString) int32
	//lazylink:symbol strlen
	Strlen(s CString) uintptr
	//lazylink:symbol abs
	Abs(n int32) int32
	//lazylink:symbol memset
	//lazylink:build linux
	Memset(p unsafe.Pointer, c int32, n uintptr) unsafe.Pointer
}

// zlib is bound by its short name, the platform file name is computed at first call.
//
//lazylink:link name = "z"
//lazylink:bind "z"
type zlib interface {
	//lazylink:symbol zlibVersion
	ZlibVersion() CString
}
