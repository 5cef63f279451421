package logootsplit_test

import (
	"fmt"
	"testing"

	"github.com/seqcrdt/logootsplit"
)

var intMap = map[int]string{
	1:       "1",
	10:      "10",
	100:     "100",
	1_000:   "1_000",
	10_000:  "10_000",
	100_000: "100_000",
}

func buildRope(n int) *logootsplit.Rope {
	rt := new(logootsplit.Rope)
	src := logootsplit.NewSeededInt32Source(uint64(n))
	for i := 0; i < n; i++ {
		rt.InsertLocal(rt.Len(), 1, 1, int32(i), src)
	}
	return rt
}

func BenchmarkInsertLocal(b *testing.B) {
	for k := 1; k <= 100_000; k *= 10 {
		rt := buildRope(k)
		src := logootsplit.NewSeededInt32Source(99)
		name := fmt.Sprintf("Into%10s", intMap[k])

		b.ResetTimer()
		b.Run(name, func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				rt.InsertLocal(rt.Len()/2, 1, 2, int32(n), src)
			}
		})
	}
}

func BenchmarkIdentifierAt(b *testing.B) {
	for k := 1; k <= 100_000; k *= 10 {
		rt := buildRope(k)
		name := fmt.Sprintf("In%10s", intMap[k])

		b.ResetTimer()
		b.Run(name, func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				_ = rt.IdentifierAt(int64(n % k))
			}
		})
	}
}

func BenchmarkDelLocal(b *testing.B) {
	for k := 10; k <= 100_000; k *= 10 {
		name := fmt.Sprintf("From%10s", intMap[k])

		b.ResetTimer()
		b.Run(name, func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				b.StopTimer()
				rt := buildRope(k)
				b.StartTimer()
				rt.DelLocal(int64(k/4), int64(k/2))
			}
		})
	}
}
