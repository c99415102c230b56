// Package matrix holds the linear-algebra substrate of the simulator:
// coordinate assembly of the MNA system, compressed-column conversion,
// and a density-adaptive choice between a cached sparse LU
// (github.com/edp1096/sparse) and a dense LU (gonum mat).
package matrix

import (
	"errors"
	"fmt"

	"github.com/Baughn/sparky/internal/consts"
)

// ErrSingular reports that LU factorization refused the assembled system:
// the sparse path failed to factor, or the dense LU reported an exactly
// singular or ill-conditioned matrix. It usually indicates a topology defect (conflicting ideal
// sources, a short across a voltage source) that the gmin anchoring could
// not compensate for.
var ErrSingular = errors.New("singular matrix")

// System accumulates component stamps as (row, col, value) triplets plus a
// dense right-hand side, then solves Ax = z through the dense or sparse
// path. Duplicate triplets at the same coordinate accumulate additively.
type System struct {
	size int

	rows []int
	cols []int
	vals []float64
	rhs  []float64

	// Compression is memoized per assembly generation. Clearing under a
	// nonlinear or restamping regime bumps the generation, invalidating
	// both the compressed copy and any cached factorization.
	gen    uint64
	csc    *CSC
	cscGen uint64

	sp        *sparseSolver
	spGen     uint64
	dn        *denseSolver
	dnGen     uint64
	residBuf  []float64
	lastDense bool
}

// NewSystem returns an assembly sized for an (N+E)-unknown MNA system.
func NewSystem(size int) *System {
	s := &System{}
	s.Resize(size)
	return s
}

// Size reports the system dimension N+E.
func (s *System) Size() int { return s.size }

// Resize drops all state and re-sizes the buffers. Called when the circuit
// topology changes.
func (s *System) Resize(size int) {
	s.size = size
	s.rows = s.rows[:0]
	s.cols = s.cols[:0]
	s.vals = s.vals[:0]
	s.rhs = make([]float64, size)
	s.residBuf = make([]float64, size)
	s.gen++
	s.csc = nil
	if s.sp != nil && s.sp.size != size {
		s.sp.destroy()
		s.sp = nil
	}
	if s.dn != nil && s.dn.size != size {
		s.dn = nil
	}
}

// Clear drops the accumulated triplets and zeroes the RHS ahead of a fresh
// stamp pass. When invalidate is true (nonlinear or per-step restamping
// circuits) the compressed copy and cached factorizations are dropped too;
// when false the incoming restamp is known to reproduce the same values, so
// the compressed form and factorization stay live.
func (s *System) Clear(invalidate bool) {
	s.rows = s.rows[:0]
	s.cols = s.cols[:0]
	s.vals = s.vals[:0]
	for i := range s.rhs {
		s.rhs[i] = 0
	}
	if invalidate {
		s.gen++
	}
}

// AddElement accumulates value at A[i,j]. Writes with an out-of-range
// coordinate are dropped; components stamped before their auxiliary row is
// assigned carry index -1 and land here.
func (s *System) AddElement(i, j int, value float64) {
	if i < 0 || j < 0 || i >= s.size || j >= s.size {
		return
	}
	s.rows = append(s.rows, i)
	s.cols = append(s.cols, j)
	s.vals = append(s.vals, value)
}

// AddRHS accumulates value at z[i].
func (s *System) AddRHS(i int, value float64) {
	if i < 0 || i >= s.size {
		return
	}
	s.rhs[i] += value
}

// SetRHS overwrites z[i].
func (s *System) SetRHS(i int, value float64) {
	if i < 0 || i >= s.size {
		return
	}
	s.rhs[i] = value
}

// RHS exposes the assembled right-hand side.
func (s *System) RHS() []float64 { return s.rhs }

// Compressed returns the memoized compressed-column form of the current
// assembly, rebuilding it if the assembly generation moved.
func (s *System) Compressed() *CSC {
	if s.csc == nil || s.cscGen != s.gen {
		s.csc = compress(s.size, s.rows, s.cols, s.vals)
		s.cscGen = s.gen
	}
	return s.csc
}

// Solve factors and solves Ax = z into x. Small or dense systems go through
// the dense LU; large sparse ones through the sparse LU. A factorization
// computed for the current assembly generation is reused, which is how a
// static linear circuit pays for factoring only once.
func (s *System) Solve(x []float64) error {
	c := s.Compressed()

	dense := s.size <= consts.DenseSizeLimit || c.Density() >= consts.DenseDensityMin
	s.lastDense = dense
	if dense {
		if s.dn == nil {
			s.dn = newDenseSolver(s.size)
		}
		if s.dnGen != s.gen || !s.dn.factored {
			s.dn.load(c)
			s.dnGen = s.gen
		}
		return s.dn.solve(s.rhs, x)
	}

	if s.sp == nil {
		sp, err := newSparseSolver(s.size)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSingular, err)
		}
		s.sp = sp
	}
	if s.spGen != s.gen || !s.sp.factored {
		s.sp.load(c)
		s.spGen = s.gen
	}
	return s.sp.solve(s.rhs, x)
}

// ResidualNorm computes ||A·x − z||_inf over the compressed form. This is a
// pure sparse operation and bypasses the dense buffer.
func (s *System) ResidualNorm(x []float64) float64 {
	c := s.Compressed()
	c.MulVec(x, s.residBuf)

	norm := 0.0
	for i, v := range s.residBuf {
		r := v - s.rhs[i]
		if r < 0 {
			r = -r
		}
		if r > norm {
			norm = r
		}
	}
	return norm
}

// Destroy releases the sparse factorization workspace. The System must not
// be used afterwards.
func (s *System) Destroy() {
	if s.sp != nil {
		s.sp.destroy()
		s.sp = nil
	}
}
