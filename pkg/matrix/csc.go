package matrix

import "sort"

// CSC is a compressed-column copy of the assembled coefficient matrix.
// Duplicate coordinates from the triplet stream are merged additively
// during compression, so the stored pattern has one entry per (row, col).
type CSC struct {
	n      int
	colPtr []int
	rowIdx []int
	val    []float64
}

// compress converts a triplet stream into compressed-column form.
// Entries sharing a coordinate accumulate.
func compress(n int, rows, cols []int, vals []float64) *CSC {
	m := &CSC{
		n:      n,
		colPtr: make([]int, n+1),
		rowIdx: make([]int, len(rows)),
		val:    make([]float64, len(vals)),
	}

	for _, j := range cols {
		m.colPtr[j+1]++
	}
	for j := 0; j < n; j++ {
		m.colPtr[j+1] += m.colPtr[j]
	}

	next := make([]int, n)
	copy(next, m.colPtr[:n])
	for k, j := range cols {
		p := next[j]
		m.rowIdx[p] = rows[k]
		m.val[p] = vals[k]
		next[j]++
	}

	// Sort each column by row, then merge duplicates in place.
	w := 0
	start := 0
	for j := 0; j < n; j++ {
		end := m.colPtr[j+1]
		seg := columnSeg{rows: m.rowIdx[start:end], vals: m.val[start:end]}
		sort.Sort(seg)

		colStart := w
		for p := start; p < end; p++ {
			if w > colStart && m.rowIdx[w-1] == m.rowIdx[p] {
				m.val[w-1] += m.val[p]
				continue
			}
			m.rowIdx[w] = m.rowIdx[p]
			m.val[w] = m.val[p]
			w++
		}
		start = end
		m.colPtr[j+1] = w
	}
	m.rowIdx = m.rowIdx[:w]
	m.val = m.val[:w]

	return m
}

// NNZ reports the number of stored entries after duplicate merging.
func (m *CSC) NNZ() int { return len(m.val) }

// Density reports NNZ relative to the full n*n pattern.
func (m *CSC) Density() float64 {
	if m.n == 0 {
		return 0
	}
	return float64(len(m.val)) / float64(m.n*m.n)
}

// MulVec computes y = A*x.
func (m *CSC) MulVec(x, y []float64) {
	for i := range y {
		y[i] = 0
	}
	for j := 0; j < m.n; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			y[m.rowIdx[p]] += m.val[p] * xj
		}
	}
}

type columnSeg struct {
	rows []int
	vals []float64
}

func (s columnSeg) Len() int           { return len(s.rows) }
func (s columnSeg) Less(i, j int) bool { return s.rows[i] < s.rows[j] }
func (s columnSeg) Swap(i, j int) {
	s.rows[i], s.rows[j] = s.rows[j], s.rows[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}
