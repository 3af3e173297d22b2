package vector

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestVector(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Vector Suite")
}

func contents(v *Vector) []int {
	out := make([]int, 0, v.Size())
	for i := 0; i < v.Size(); i++ {
		out = append(out, *v.At(i))
	}
	return out
}

func fill(v *Vector, values ...int) *Vector {
	for _, x := range values {
		v.PushBack(x)
	}
	return v
}
