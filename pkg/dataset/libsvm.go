package dataset

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"k3l.io/go-hinge/pkg/sparse"
)

// ReadLibSVM reads instances in LIBSVM text format:
// one "label index:value ..." line per instance,
// with 1-based, strictly ascending feature indices.
// Blank lines and lines starting with '#' are skipped;
// trailing "# ..." comments are ignored.  Every instance has unit weight.
//
// If numFeatures is positive, indices above it are errors;
// otherwise the dimension is inferred from the largest index seen.
// ReadLibSVM returns the instances and their feature dimension.
func ReadLibSVM(r io.Reader, numFeatures int) ([]Instance, int, error) {
	type parsed struct {
		label   float64
		entries []sparse.Entry
	}
	var rows []parsed
	maxIndex := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		label, entries, last, err := parseLibSVMFields(fields)
		if err != nil {
			return nil, 0, ParseError{Line: line, Err: err}
		}
		if numFeatures > 0 && last > numFeatures {
			return nil, 0, ParseError{Line: line, Err: errors.Errorf(
				"feature index %d exceeds %d features", last, numFeatures)}
		}
		maxIndex = max(maxIndex, last)
		rows = append(rows, parsed{label, entries})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "cannot read LIBSVM input")
	}
	if numFeatures <= 0 {
		numFeatures = maxIndex
	}
	instances := make([]Instance, len(rows))
	for i, row := range rows {
		instances[i] = Instance{
			Label:    row.label,
			Weight:   1,
			Features: &sparse.Vector{Dim: numFeatures, Entries: row.entries},
		}
	}
	return instances, numFeatures, nil
}

// parseLibSVMFields parses one instance line.
// It also returns the largest (1-based) index, including zero-valued ones.
func parseLibSVMFields(
	fields []string,
) (label float64, entries []sparse.Entry, last int, err error) {
	label, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, nil, 0, errors.Wrapf(err, "invalid label %#v", fields[0])
	}
	if label, err = NormalizeLabel(label); err != nil {
		return 0, nil, 0, err
	}
	entries = make([]sparse.Entry, 0, len(fields)-1)
	for _, field := range fields[1:] {
		indexStr, valueStr, ok := strings.Cut(field, ":")
		if !ok {
			return 0, nil, 0, errors.Errorf("invalid feature %#v", field)
		}
		index, err := strconv.Atoi(indexStr)
		switch {
		case err != nil:
			return 0, nil, 0, errors.Wrapf(err, "invalid index %#v", indexStr)
		case index <= last:
			return 0, nil, 0, errors.Errorf(
				"index %d not above previous index %d", index, last)
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return 0, nil, 0, errors.Wrapf(err, "invalid value %#v", valueStr)
		}
		last = index
		if value != 0 {
			entries = append(entries, sparse.Entry{Index: index - 1, Value: value})
		}
	}
	return label, entries, last, nil
}
