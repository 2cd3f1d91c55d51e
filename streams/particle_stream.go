package streams

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/icgen/cosmicic/errs"
)

// FieldID identifies which physical quantity a particle stream file
// carries, per spec.md §6.
type FieldID int

const (
	DMMass  FieldID = 1
	DMVel   FieldID = 2
	DMPos   FieldID = 3
	GasVel  FieldID = 4
	GasRho  FieldID = 5
	GasTemp FieldID = 6
	GasPos  FieldID = 7
)

// StreamName builds the temp particle stream's file name from its
// field and coordinate index (0..2), per spec.md §6's
// field-id*100+coord convention: ___ic_temp_NNNNN.bin.
func StreamName(field FieldID, coord int) string {
	return fmt.Sprintf("___ic_temp_%05d.bin", int(field)*100+coord)
}

// WriteParticleStream writes data as a fortran-style length-prefixed
// record: an 8-byte total-byte-count, the payload, then the same
// count repeated, matching spec.md §6's `size_t total_bytes; T[N];
// size_t total_bytes;` layout.
func WriteParticleStream(dir string, field FieldID, coord int, data []float32) error {
	path := dir + string(os.PathSeparator) + StreamName(field, coord)
	f, err := os.Create(path)
	if err != nil {
		return errs.New(errs.IOFailure, "streams: create %s: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	nbytes := uint64(len(data) * 4)
	if err := binary.Write(w, binary.LittleEndian, nbytes); err != nil {
		return errs.New(errs.IOFailure, "streams: write leading length %s: %v", path, err)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return errs.New(errs.IOFailure, "streams: write payload %s: %v", path, err)
	}
	if err := binary.Write(w, binary.LittleEndian, nbytes); err != nil {
		return errs.New(errs.IOFailure, "streams: write trailing length %s: %v", path, err)
	}
	return w.Flush()
}

// ReadParticleStream reads back a file written by WriteParticleStream,
// validating that the leading and trailing length markers agree.
func ReadParticleStream(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.IOFailure, "streams: open %s: %v", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var lead uint64
	if err := binary.Read(r, binary.LittleEndian, &lead); err != nil {
		return nil, errs.New(errs.IOFailure, "streams: read leading length %s: %v", path, err)
	}
	if lead%4 != 0 {
		return nil, errs.New(errs.IOFailure, "streams: %s leading length %d is not a multiple of 4", path, lead)
	}
	data := make([]float32, lead/4)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, errs.New(errs.IOFailure, "streams: read payload %s: %v", path, err)
	}
	var trail uint64
	if err := binary.Read(r, binary.LittleEndian, &trail); err != nil {
		return nil, errs.New(errs.IOFailure, "streams: read trailing length %s: %v", path, err)
	}
	if trail != lead {
		return nil, errs.New(errs.IOFailure, "streams: %s length markers disagree (%d vs %d)", path, lead, trail)
	}
	return data, nil
}
