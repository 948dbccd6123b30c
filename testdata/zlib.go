// Package zlib takes its declarations from a shared declaration file.
//
//lazylink:bind "z", include = "testdata/decl/zlib.go"
package zlib
