package encode

import "fmt"

// Tensor is a dense row-major float32 matrix. The layout matches a
// channels-first (rows, width, 1) model input, so Data can be copied into
// a runtime buffer as is.
type Tensor struct {
	Rows int
	Cols int
	Data []float32
}

// NewTensor allocates a zeroed rows×cols tensor.
func NewTensor(rows, cols int) Tensor {
	return Tensor{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

func (t Tensor) At(r, c int) float32 { return t.Data[r*t.Cols+c] }

func (t Tensor) Set(r, c int, v float32) { t.Data[r*t.Cols+c] = v }

// Row returns row r as a slice aliasing Data.
func (t Tensor) Row(r int) []float32 { return t.Data[r*t.Cols : (r+1)*t.Cols] }

// Len is the number of scalars.
func (t Tensor) Len() int { return len(t.Data) }

func (t Tensor) String() string { return fmt.Sprintf("tensor[%d,%d]", t.Rows, t.Cols) }
