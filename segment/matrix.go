// Package segment implements the concatenation-segment algebra that backs
// constant-time delta-cost evaluation in the local-search engine: Duration,
// Load and Distance segments, each associative and total under Merge.
//
// The per-profile distance/duration matrices are flat row-major []int64
// buffers behind a small, strictly validated accessor surface.
package segment

import (
	"fmt"

	"github.com/vrpcore/localsearch/vrperr"
)

// Matrix is a square, row-major int64 matrix used for distance and duration
// lookups. One instance exists per (profile, distance|duration) pair.
type Matrix struct {
	n    int       // matrix dimension (n x n)
	data []int64   // flat backing storage, length == n*n
}

// NewMatrix creates an n x n Matrix initialized to zero.
// Complexity: O(n^2) time and memory.
func NewMatrix(n int) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("segment: %w: matrix dimension must be > 0", vrperr.ErrDimensionMismatch)
	}
	return &Matrix{n: n, data: make([]int64, n*n)}, nil
}

// NewMatrixFromRows builds a Matrix from a square slice-of-slices, validating
// shape and a zero diagonal.
// Complexity: O(n^2).
func NewMatrixFromRows(rows [][]int64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("segment: %w: empty matrix", vrperr.ErrDimensionMismatch)
	}
	m, err := NewMatrix(n)
	if err != nil {
		return nil, err
	}
	var i, j int
	for i = 0; i < n; i++ {
		if len(rows[i]) != n {
			return nil, fmt.Errorf("segment: %w: row %d has length %d, want %d", vrperr.ErrNonSquareMatrix, i, len(rows[i]), n)
		}
		for j = 0; j < n; j++ {
			if i == j && rows[i][j] != 0 {
				return nil, fmt.Errorf("segment: non-zero diagonal at %d: %w", i, vrperr.ErrNegativeValue)
			}
			if rows[i][j] < 0 {
				return nil, fmt.Errorf("segment: negative entry at (%d,%d): %w", i, j, vrperr.ErrNegativeValue)
			}
			m.data[i*n+j] = rows[i][j]
		}
	}
	return m, nil
}

// N returns the matrix dimension.
func (m *Matrix) N() int { return m.n }

// At returns the entry at (row, col), or ErrOutOfRange if out of bounds.
// Complexity: O(1).
func (m *Matrix) At(row, col int) (int64, error) {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return 0, vrperr.ErrOutOfRange
	}
	return m.data[row*m.n+col], nil
}

// Set writes v at (row, col), or ErrOutOfRange if out of bounds.
// Complexity: O(1).
func (m *Matrix) Set(row, col int, v int64) error {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return vrperr.ErrOutOfRange
	}
	m.data[row*m.n+col] = v
	return nil
}
