package vector

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const propertyRuns = 200

var _ = Describe("Vector properties", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	randomValues := func() []int {
		n := rng.Intn(64)
		values := make([]int, n)
		for i := range values {
			values[i] = rng.Int() - rng.Int()
		}
		return values
	}

	for _, p := range policiesUnderTest[:3] {
		mk := p.mk

		Describe("under "+p.name+" growth", func() {
			It("stores every pushed value in order", func() {
				for run := 0; run < propertyRuns; run++ {
					values := randomValues()
					v := fill(New(WithGrowth(mk())), values...)
					Expect(v.Size()).To(Equal(len(values)))
					for i, want := range values {
						Expect(*v.At(i)).To(Equal(want))
					}
					Expect(v.capacity).To(BeNumerically(">=", v.Size()))
				}
			})

			It("pops exactly one element and keeps the rest", func() {
				for run := 0; run < propertyRuns; run++ {
					values := randomValues()
					if len(values) == 0 {
						continue
					}
					v := fill(New(WithGrowth(mk())), values...)
					v.PopBack()
					Expect(v.Size()).To(Equal(len(values) - 1))
					Expect(contents(v)).To(Equal(values[:len(values)-1]))
				}
			})

			It("changes only the written index", func() {
				for run := 0; run < propertyRuns; run++ {
					values := randomValues()
					if len(values) == 0 {
						continue
					}
					v := fill(New(WithGrowth(mk())), values...)
					idx := rng.Intn(len(values))
					x := rng.Int()
					*v.At(idx) = x

					want := append([]int(nil), values...)
					want[idx] = x
					Expect(contents(v)).To(Equal(want))
				}
			})

			It("returns to size 0 after n pushes and n pops", func() {
				for run := 0; run < propertyRuns; run++ {
					values := randomValues()
					v := fill(New(WithGrowth(mk())), values...)
					for range values {
						v.PopBack()
					}
					Expect(v.Size()).To(Equal(0))
					v.PopBack()
					Expect(v.Size()).To(Equal(0))
				}
			})
		})
	}
})
