package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// denseSolver runs small or filled-in systems through a contiguous LU with
// partial pivoting. The buffer is reused across solves of the same size.
type denseSolver struct {
	size     int
	a        *mat.Dense
	b        *mat.VecDense
	out      *mat.VecDense
	lu       mat.LU
	factored bool
}

func newDenseSolver(size int) *denseSolver {
	return &denseSolver{
		size: size,
		a:    mat.NewDense(size, size, nil),
		b:    mat.NewVecDense(size, nil),
		out:  mat.NewVecDense(size, nil),
	}
}

func (d *denseSolver) load(c *CSC) {
	d.a.Zero()
	for j := 0; j < c.n; j++ {
		for p := c.colPtr[j]; p < c.colPtr[j+1]; p++ {
			d.a.Set(c.rowIdx[p], j, c.val[p])
		}
	}
	d.factored = false
}

func (d *denseSolver) solve(rhs, x []float64) error {
	if !d.factored {
		d.lu.Factorize(d.a)
		d.factored = true
	}

	copy(d.b.RawVector().Data, rhs)
	if err := d.lu.SolveVecTo(d.out, false, d.b); err != nil {
		return fmt.Errorf("%w: dense LU: %v", ErrSingular, err)
	}
	copy(x, d.out.RawVector().Data)

	return nil
}
