package vector

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var policiesUnderTest = []struct {
	name string
	mk   func() Growth
}{
	{"exact fit", func() Growth { return ExactFit{} }},
	{"doubling", func() Growth { return Geometric{Factor: 2} }},
	{"golden", func() Growth { return Geometric{Factor: 1.5} }},
	{"pooled exact fit", nil},
}

var _ = Describe("Vector", func() {
	for _, p := range policiesUnderTest {
		name, mk := p.name, p.mk

		Describe("with "+name+" growth", func() {
			var v *Vector

			newVector := func() *Vector {
				if mk == nil {
					return New(WithPool(NewBlockPool()))
				}
				return New(WithGrowth(mk()))
			}

			AfterEach(func() {
				v.Release()
			})

			Describe("adding things to the end", func() {
				Context("given an empty vector", func() {
					BeforeEach(func() {
						v = newVector()
					})

					When("push_back is called with a value of 4", func() {
						BeforeEach(func() {
							v.PushBack(4)
						})

						It("has size 1", func() {
							Expect(v.Size()).To(Equal(1))
						})

						It("holds 4 at index 0", func() {
							Expect(*v.At(0)).To(Equal(4))
						})
					})
				})

				Context("given a vector containing 4 1 3", func() {
					BeforeEach(func() {
						v = fill(newVector(), 4, 1, 3)
					})

					When("push_back is called with a value of 5", func() {
						BeforeEach(func() {
							v.PushBack(5)
						})

						It("has size 4", func() {
							Expect(v.Size()).To(Equal(4))
						})

						It("holds 5 at index 3", func() {
							Expect(*v.At(3)).To(Equal(5))
						})

						It("keeps the earlier elements in order", func() {
							Expect(contents(v)).To(Equal([]int{4, 1, 3, 5}))
						})
					})
				})
			})

			Describe("removing things from the end", func() {
				Context("given a vector containing 4 1 3", func() {
					BeforeEach(func() {
						v = fill(newVector(), 4, 1, 3)
					})

					When("pop_back is called", func() {
						BeforeEach(func() {
							v.PopBack()
						})

						It("has size 2", func() {
							Expect(v.Size()).To(Equal(2))
						})

						It("leaves the first two items unchanged", func() {
							Expect(*v.At(0)).To(Equal(4))
							Expect(*v.At(1)).To(Equal(1))
						})

						It("no longer exposes the popped slot", func() {
							_, err := v.Get(2)
							Expect(err).To(MatchError(ErrOutOfRange))
						})
					})
				})

				Context("given an empty vector", func() {
					BeforeEach(func() {
						v = newVector()
					})

					It("stays empty when pop_back is called", func() {
						v.PopBack()
						Expect(v.Size()).To(Equal(0))
					})
				})
			})

			Describe("reading and writing by index", func() {
				Context("given a vector containing 4 1 3", func() {
					BeforeEach(func() {
						v = fill(newVector(), 4, 1, 3)
					})

					It("reads each element", func() {
						Expect(*v.At(0)).To(Equal(4))
						Expect(*v.At(1)).To(Equal(1))
						Expect(*v.At(2)).To(Equal(3))
					})

					When("5 is written to index 1", func() {
						BeforeEach(func() {
							*v.At(1) = 5
						})

						It("changes only index 1", func() {
							Expect(contents(v)).To(Equal([]int{4, 5, 3}))
						})
					})

					When("an index outside the live elements is used", func() {
						It("panics from At with a BoundsError", func() {
							Expect(func() { v.At(3) }).To(PanicWith(MatchError(ErrOutOfRange)))
							Expect(func() { v.At(-1) }).To(PanicWith(BeAssignableToTypeOf(&BoundsError{})))
						})

						It("rejects Set and leaves the vector unmodified", func() {
							err := v.Set(3, 9)
							Expect(err).To(MatchError(ErrOutOfRange))

							var be *BoundsError
							Expect(errors.As(err, &be)).To(BeTrue())
							Expect(be.Index).To(Equal(3))
							Expect(be.Length).To(Equal(3))
							Expect(contents(v)).To(Equal([]int{4, 1, 3}))
						})

						It("rejects Get", func() {
							_, err := v.Get(10)
							Expect(err).To(HaveOccurred())
						})
					})

					It("writes through Set", func() {
						Expect(v.Set(2, 7)).To(Succeed())
						Expect(contents(v)).To(Equal([]int{4, 1, 7}))
					})
				})
			})

			Describe("Release", func() {
				It("returns the vector to the empty state", func() {
					v = fill(newVector(), 1, 2, 3)
					v.Release()
					Expect(v.Size()).To(Equal(0))
					Expect(v.capacity).To(Equal(0))
					Expect(v.data).To(BeNil())
				})

				It("can be called twice", func() {
					v = fill(newVector(), 1)
					v.Release()
					Expect(v.Release).NotTo(Panic())
				})

				It("leaves the vector usable", func() {
					v = fill(newVector(), 1, 2)
					v.Release()
					v.PushBack(8)
					Expect(contents(v)).To(Equal([]int{8}))
				})
			})
		})
	}

	Describe("exact-fit capacity", func() {
		It("allocates nothing until the first push", func() {
			v := New()
			Expect(v.data).To(BeNil())
			Expect(v.capacity).To(Equal(0))
		})

		It("grows to exactly the pushed length", func() {
			v := New()
			for i := 1; i <= 16; i++ {
				v.PushBack(i)
				Expect(v.capacity).To(Equal(i))
				Expect(len(v.data)).To(Equal(i))
			}
		})

		It("keeps capacity when popping", func() {
			v := fill(New(), 1, 2, 3)
			v.PopBack()
			v.PopBack()
			Expect(v.capacity).To(Equal(3))
		})

		It("reuses spare capacity after a pop", func() {
			rec := &eventLog{}
			v := fill(New(WithObserver(rec)), 1, 2, 3)
			v.PopBack()
			v.PushBack(9)
			Expect(rec.events).To(HaveLen(3))
			Expect(contents(v)).To(Equal([]int{1, 2, 9}))
		})
	})

	Describe("growth events", func() {
		It("reports every replacement under exact fit", func() {
			rec := &eventLog{}
			fill(New(WithObserver(rec)), 4, 1, 3)
			Expect(rec.events).To(Equal([]GrowthEvent{
				{OldCapacity: 0, NewCapacity: 1, Copied: 0},
				{OldCapacity: 1, NewCapacity: 2, Copied: 1},
				{OldCapacity: 2, NewCapacity: 3, Copied: 2},
			}))
		})

		It("reports logarithmically many replacements when doubling", func() {
			rec := &eventLog{}
			v := New(WithGrowth(Geometric{Factor: 2}), WithObserver(rec))
			for i := 0; i < 1024; i++ {
				v.PushBack(i)
			}
			Expect(rec.events).To(HaveLen(11))
			Expect(v.capacity).To(Equal(1024))
		})
	})
})

type eventLog struct {
	events []GrowthEvent
}

func (e *eventLog) OnGrow(ev GrowthEvent) { e.events = append(e.events, ev) }
