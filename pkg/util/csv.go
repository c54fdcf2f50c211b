package util

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// CSVFieldExtractor picks named fields out of CSV records,
// using the column positions found in the header record.
type CSVFieldExtractor struct {
	Indices []int
}

// NewCSVFieldExtractor locates the given field names in the header.
// Every name must be present.
func NewCSVFieldExtractor(
	header []string, names ...string,
) (*CSVFieldExtractor, error) {
	indices := Map(names, func(name string) int {
		return slices.Index(header, name)
	})
	if x := slices.Index(indices, -1); x != -1 {
		return nil, fmt.Errorf("field %#v not in CSV header %#v",
			names[x], header)
	}
	return &CSVFieldExtractor{Indices: indices}, nil
}

// NewCSVComplementExtractor extracts every header column
// except the named ones, in header order.
func NewCSVComplementExtractor(
	header []string, excluded ...string,
) *CSVFieldExtractor {
	var indices []int
	for i, name := range header {
		if !slices.Contains(excluded, name) {
			indices = append(indices, i)
		}
	}
	return &CSVFieldExtractor{Indices: indices}
}

func wrapOOB(fields []string, err error) error {
	if errors.Is(err, IndexOutOfBoundsError{}) {
		err = fmt.Errorf("too few fields in CSV record %#v: %w", fields, err)
	}
	return err
}

// Len returns the number of extracted fields.
func (s *CSVFieldExtractor) Len() int { return len(s.Indices) }

// ExtractAll returns all extracted fields of the given record.
func (s *CSVFieldExtractor) ExtractAll(fields []string) ([]string, error) {
	extracted, err := MapWithErr(s.Indices,
		ElementAtWithErrFn(fields))
	return extracted, wrapOOB(fields, err)
}

// Extract returns the index-th extracted field of the given record.
func (s *CSVFieldExtractor) Extract(
	index int, fields []string,
) (string, error) {
	column, err := ElementAtWithErr(s.Indices, index)
	if err != nil {
		return "", err
	}
	extracted, err := ElementAtWithErr(fields, column)
	return extracted, wrapOOB(fields, err)
}

// ExtractFloats returns all extracted fields parsed as float64.
func (s *CSVFieldExtractor) ExtractFloats(fields []string) ([]float64, error) {
	extracted, err := s.ExtractAll(fields)
	if err != nil {
		return nil, err
	}
	return MapWithErr(extracted, func(field string) (float64, error) {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %#v: %w", field, err)
		}
		return value, nil
	})
}

// CSVReader reads from a CSV file.
type CSVReader interface {
	Read() (fields []string, err error)
}

// CSVWriter writes into a CSV file.
type CSVWriter interface {
	Write(fields []string) error
}
