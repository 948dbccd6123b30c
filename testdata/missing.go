//lazylink:bind fullname = "libc.so.6"
package missing

type libc interface {
	//lazylink:symbol strlen
	Strlen(s *byte) uintptr
	//lazylink:symbol lazylink_no_such_symbol
	Missing()
}
