package streams

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/icgen/cosmicic/errs"
)

// ReadTFTable reads spec.md §6's two-column ASCII transfer-function
// table: whitespace-separated (k, T) pairs, one per line, monotone in
// k; lines that do not start with a numeric character are skipped.
func ReadTFTable(path string) (k, t []float64, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, nil, errs.New(errs.IOFailure, "streams: open %s: %v", path, openErr)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !looksNumeric(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kv, errK := strconv.ParseFloat(fields[0], 64)
		tv, errT := strconv.ParseFloat(fields[1], 64)
		if errK != nil || errT != nil {
			continue
		}
		k = append(k, kv)
		t = append(t, tv)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errs.New(errs.IOFailure, "streams: scan %s: %v", path, err)
	}
	if len(k) < 2 {
		return nil, nil, errs.New(errs.BadTable, "streams: %s has fewer than 2 usable rows", path)
	}
	return k, t, nil
}

// ReadCAMBTable reads spec.md §6's seven-column CAMB-style transfer
// function file: (k, T_c, T_b, T_gamma, T_r, T_nu, T_tot) per row.
// Only the three columns the repo's transfer.CAMBTable consumes
// (total, CDM, baryon) are returned; T_gamma/T_r/T_nu are parsed for
// validation but discarded, since no component needs them.
func ReadCAMBTable(path string) (k, total, cdm, baryon []float64, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, nil, nil, nil, errs.New(errs.IOFailure, "streams: open %s: %v", path, openErr)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !looksNumeric(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 7 {
			continue
		}
		vals := make([]float64, 7)
		ok := true
		for i := 0; i < 7; i++ {
			v, perr := strconv.ParseFloat(fields[i], 64)
			if perr != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		k = append(k, vals[0])
		cdm = append(cdm, vals[1])
		baryon = append(baryon, vals[2])
		total = append(total, vals[6])
	}
	if err := sc.Err(); err != nil {
		return nil, nil, nil, nil, errs.New(errs.IOFailure, "streams: scan %s: %v", path, err)
	}
	if len(k) < 2 {
		return nil, nil, nil, nil, errs.New(errs.BadTable, "streams: %s has fewer than 2 usable rows", path)
	}
	return k, total, cdm, baryon, nil
}

// looksNumeric reports whether line begins with a character that
// could start a number (digit, sign, or decimal point), spec.md §6's
// "lines starting with non-numeric characters are skipped" rule.
func looksNumeric(line string) bool {
	if line == "" {
		return false
	}
	c := line[0]
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}
