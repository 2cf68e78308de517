package transcoder

import (
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/transcoder/internal/abi"
)

// DecodeSparse converts a sparse foreign matrix to CSC form.
//
// The stored-entry count is Jc[cols]. Planes are allocated for Nzmax
// entries, which may exceed it, and only the stored entries are copied.
// A count above Nzmax is clamped with a warning.
func DecodeSparse(arr mx.Array) (host.Value, error) {
	kind, err := ToHostKind(arr.ClassID())
	if err != nil {
		return nil, err
	}
	dims := host.Shape(arr.Dimensions())
	if len(dims) == 0 || len(dims) > 2 {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
			"sparse matrix reports %d dimensions", len(dims))
	}
	rows, cols := dims.Rows(), dims.Cols()
	if rows < 0 || cols < 0 {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "invalid sparse shape %v", []int(dims))
	}
	nzmax := arr.Nzmax()

	jcMem, err := arr.Jc()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindResource, err, "column pointers")
	}
	colPtr, err := readIndices(jcMem, cols+1, "column pointer")
	if err != nil {
		return nil, err
	}

	nnz := colPtr[cols]
	if nnz > nzmax {
		Logger().Warn("sparse entry count exceeds capacity, clamping",
			zap.Int("nnz", nnz), zap.Int("nzmax", nzmax))
		nnz = nzmax
	}
	for j := 0; j <= cols; j++ {
		if colPtr[j] > nnz {
			colPtr[j] = nnz
		}
		if j > 0 && colPtr[j] < colPtr[j-1] {
			return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
				"column pointer decreases at column %d", j-1)
		}
	}
	if colPtr[0] != 0 {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "column pointer starts at %d", colPtr[0])
	}

	var rowIndex []int
	re := host.MakePlane(kind, 0)
	var im any
	if arr.IsComplex() {
		im = host.MakePlane(kind, 0)
	}

	if nnz > 0 {
		irMem, err := arr.Ir()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindResource, err, "row indices")
		}
		if rowIndex, err = readIndices(irMem, nnz, "row index"); err != nil {
			return nil, err
		}
		reMem, err := arr.RealData()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindResource, err, "real plane")
		}
		if re, err = readPlane(reMem, kind, nnz, false, "real"); err != nil {
			return nil, err
		}
		if arr.IsComplex() {
			imMem, err := arr.ImagData()
			if err != nil {
				return nil, errors.Wrap(errors.PhaseDecode, errors.KindResource, err, "imaginary plane")
			}
			if im, err = readPlane(imMem, kind, nnz, false, "imaginary"); err != nil {
				return nil, err
			}
		}
	} else {
		rowIndex = []int{}
	}

	s, err := host.SparseFromPlanes(rows, cols, rowIndex, colPtr, re, im)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindShapeMismatch, err, "sparse layout")
	}
	return s, nil
}

// EncodeSparse is an extension point; sparse matrices cannot be sent yet.
func EncodeSparse(f mx.Factory, s *host.Sparse) (mx.Array, error) {
	return nil, errors.NotImplemented(errors.PhaseEncode, "sparse matrices")
}

func readIndices(mem mx.Memory, n int, plane string) ([]int, error) {
	size, ok := abi.PlaneBytes(n, mx.IndexSize)
	if !ok {
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil, "%s plane of %d entries exceeds limits", plane, n)
	}
	if mem == nil || mem.Size() < size {
		got := uint32(0)
		if mem != nil {
			got = mem.Size()
		}
		return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
			"%s plane holds %d bytes, need %d", plane, got, size)
	}
	idx := make([]int, n)
	for i := range idx {
		v, err := mem.ReadU64(uint32(i * mx.IndexSize))
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindShapeMismatch, err, "read "+plane+" plane")
		}
		if v > math.MaxInt32 {
			return nil, errors.ShapeMismatch(errors.PhaseDecode, nil,
				"%s index %d at position %d out of range", plane, v, i)
		}
		idx[i] = int(v)
	}
	return idx, nil
}
