package ring

import "testing"

func BenchmarkPushPop(b *testing.B) {
	r := New[int](1 << 16)
	var out int
	for i := 0; i < b.N; i++ {
		r.Push(i)
		r.Pop(&out)
	}
}
