package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// sparseSolver drives the Sparse-1.3 port. The library is 1-based: row and
// column 0 of the assembled system map to 1 and so on, and the RHS/solution
// vectors carry a dead leading slot.
type sparseSolver struct {
	size     int
	m        *sparse.Matrix
	rhs      []float64
	factored bool
}

func newSparseSolver(size int) (*sparseSolver, error) {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		Translate:      false,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	m, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}

	return &sparseSolver{
		size: size,
		m:    m,
		rhs:  make([]float64, size+1),
	}, nil
}

func (s *sparseSolver) load(c *CSC) {
	s.m.Clear()
	for j := 0; j < c.n; j++ {
		for p := c.colPtr[j]; p < c.colPtr[j+1]; p++ {
			s.m.GetElement(int64(c.rowIdx[p]+1), int64(j+1)).Real = c.val[p]
		}
	}
	s.factored = false
}

func (s *sparseSolver) solve(rhs, x []float64) error {
	if !s.factored {
		if err := s.m.Factor(); err != nil {
			return fmt.Errorf("%w: sparse factorization: %v", ErrSingular, err)
		}
		s.factored = true
	}

	for i := 0; i < s.size; i++ {
		s.rhs[i+1] = rhs[i]
	}
	solution, err := s.m.Solve(s.rhs)
	if err != nil {
		return fmt.Errorf("sparse solve: %v", err)
	}
	copy(x, solution[1:s.size+1])

	return nil
}

func (s *sparseSolver) destroy() {
	if s.m != nil {
		s.m.Destroy()
	}
}
