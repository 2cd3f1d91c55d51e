// Package streams implements the on-disk formats of spec.md §6: the
// white-noise binary cache, the two-column and seven-column (CAMB)
// transfer-function table files, and the fortran-style length-prefixed
// particle stream writer. None of the pack's example repos carry a
// general serialization library (even xtaci-kcptun's own wire framing
// is hand-rolled encoding/binary), so these readers/writers are stdlib
// by convention, not by gap.
package streams

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/icgen/cosmicic/errs"
)

// WriteWhiteNoiseFile writes one refinement level's white-noise field
// in spec.md §6's layout: int32 nx,ny,nz followed by nx*ny*nz float64
// values in row-major (i,j,k) order, no padding.
func WriteWhiteNoiseFile(path string, nx, ny, nz int, data []float64) error {
	if len(data) != nx*ny*nz {
		return errs.New(errs.WhiteNoiseShapeMismatch, "streams: data has %d elements, want %d for %dx%dx%d", len(data), nx*ny*nz, nx, ny, nz)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.New(errs.IOFailure, "streams: create %s: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	dims := [3]int32{int32(nx), int32(ny), int32(nz)}
	if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
		return errs.New(errs.IOFailure, "streams: write header %s: %v", path, err)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return errs.New(errs.IOFailure, "streams: write payload %s: %v", path, err)
	}
	if err := w.Flush(); err != nil {
		return errs.New(errs.IOFailure, "streams: flush %s: %v", path, err)
	}
	return nil
}

// ReadWhiteNoiseFile reads a cache written by WriteWhiteNoiseFile and
// validates its shape against the caller's expected resolution.
func ReadWhiteNoiseFile(path string, wantNx, wantNy, wantNz int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.IOFailure, "streams: open %s: %v", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var dims [3]int32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, errs.New(errs.IOFailure, "streams: read header %s: %v", path, err)
	}
	nx, ny, nz := int(dims[0]), int(dims[1]), int(dims[2])
	if nx != wantNx || ny != wantNy || nz != wantNz {
		return nil, errs.New(errs.WhiteNoiseShapeMismatch, "streams: %s has shape %dx%dx%d, want %dx%dx%d", path, nx, ny, nz, wantNx, wantNy, wantNz)
	}

	data := make([]float64, nx*ny*nz)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, errs.New(errs.IOFailure, "streams: read payload %s: %v", path, err)
	}
	return data, nil
}
