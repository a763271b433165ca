// github.com/seehuhn-go/docengine - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package matrix implements the 2-D affine transforms used by the PDF
// graphics and text state: row vectors times a 3x3 matrix whose third
// column is always (0, 0, 1), written as [a b c d e f].
package matrix

// Matrix is [a b; c d; e f], representing the affine map
//
//	(x, y) -> (a*x + c*y + e, b*x + d*y + f)
type Matrix [6]float64

// Identity is the identity transform.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translate returns a matrix that translates by (dx, dy).
func Translate(dx, dy float64) Matrix {
	return Matrix{1, 0, 0, 1, dx, dy}
}

// Mul returns the matrix product A*B, i.e. the transform that applies A
// first, then B.
func (A Matrix) Mul(B Matrix) Matrix {
	return Matrix{
		A[0]*B[0] + A[1]*B[2],
		A[0]*B[1] + A[1]*B[3],
		A[2]*B[0] + A[3]*B[2],
		A[2]*B[1] + A[3]*B[3],
		A[4]*B[0] + A[5]*B[2] + B[4],
		A[4]*B[1] + A[5]*B[3] + B[5],
	}
}

// Apply transforms the point (x, y) by A.
func (A Matrix) Apply(x, y float64) (float64, float64) {
	return A[0]*x + A[2]*y + A[4], A[1]*x + A[3]*y + A[5]
}

// ApplyDirection transforms the vector (x, y) by the linear (rotation and
// scale) part of A only, ignoring translation.
func (A Matrix) ApplyDirection(x, y float64) (float64, float64) {
	return A[0]*x + A[2]*y, A[1]*x + A[3]*y
}
