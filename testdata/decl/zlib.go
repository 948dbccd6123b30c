package zlib

type zlib interface {
	//lazylink:symbol zlibVersion
	ZlibVersion() *byte
	//lazylink:symbol crc32
	Crc32(crc uint32, buf *byte, n uint32) uint32
	//lazylink:symbol adler32
	Adler32(adler uint32, buf *byte, n uint32) uint32
}
