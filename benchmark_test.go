package lazylink

import (
	"testing"

	"github.com/ZenLiuCN/fn"
)

func BenchmarkFirstCall(b *testing.B) {
	l := newFakeLoader(map[string]map[string]any{"libmath.so": fakeMath})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g := MustGroup(FullName("libmath.so"), WithLoader(l), WithDebug(false))
		fn.Panic1(Declare[typeAdd](g, "add"))(1, 2)
	}
}

func BenchmarkForwardedCall(b *testing.B) {
	l := newFakeLoader(map[string]map[string]any{"libmath.so": fakeMath})
	g := MustGroup(FullName("libmath.so"), WithLoader(l), WithDebug(false))
	add := fn.Panic1(Declare[typeAdd](g, "add"))
	fn.Panic(g.Init())
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		add(int32(i), 1)
	}
}

func BenchmarkRawCall(b *testing.B) {
	add := fakeMath["add"].(func(a, b int32) int32)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		add(int32(i), 1)
	}
}
