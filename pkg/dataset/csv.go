package dataset

import (
	"io"
	"strconv"

	"github.com/go-faster/errors"
	"k3l.io/go-hinge/pkg/sparse"
	"k3l.io/go-hinge/pkg/util"
)

// CSVOptions names the special columns of a CSV dataset.
type CSVOptions struct {
	// LabelColumn is the label column name; "label" if empty.
	LabelColumn string

	// WeightColumn is the weight column name; if empty,
	// every instance has unit weight.
	WeightColumn string
}

// ReadCSV reads dense instances from a CSV file.
//
// The first record is the header.  Every column other than the label
// and weight columns is a feature, in header order.
// ReadCSV returns the instances and their feature dimension.
func ReadCSV(r util.CSVReader, o CSVOptions) ([]Instance, int, error) {
	if o.LabelColumn == "" {
		o.LabelColumn = "label"
	}
	header, err := r.Read()
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot read CSV header")
	}
	special := []string{o.LabelColumn}
	if o.WeightColumn != "" {
		special = append(special, o.WeightColumn)
	}
	specialFields, err := util.NewCSVFieldExtractor(header, special...)
	if err != nil {
		return nil, 0, err
	}
	featureFields := util.NewCSVComplementExtractor(header, special...)
	numFeatures := featureFields.Len()
	if numFeatures == 0 {
		return nil, 0, errors.New("no feature columns in CSV header")
	}
	var instances []Instance
	line := 1
	fields, err := r.Read()
	for ; err == nil; fields, err = r.Read() {
		line++
		inst, err := parseCSVRecord(fields, specialFields, featureFields)
		if err != nil {
			return nil, 0, ParseError{Line: line, Err: err}
		}
		instances = append(instances, inst)
	}
	if err != io.EOF {
		return nil, 0, errors.Wrapf(err, "cannot read CSV record #%d", line)
	}
	return instances, numFeatures, nil
}

func parseCSVRecord(
	fields []string, specialFields, featureFields *util.CSVFieldExtractor,
) (Instance, error) {
	inst := Instance{Weight: 1}
	labelStr, err := specialFields.Extract(0, fields)
	if err != nil {
		return inst, err
	}
	label, err := strconv.ParseFloat(labelStr, 64)
	if err != nil {
		return inst, errors.Wrapf(err, "invalid label %#v", labelStr)
	}
	if inst.Label, err = NormalizeLabel(label); err != nil {
		return inst, err
	}
	if specialFields.Len() > 1 {
		weightStr, err := specialFields.Extract(1, fields)
		if err != nil {
			return inst, err
		}
		if inst.Weight, err = strconv.ParseFloat(weightStr, 64); err != nil {
			return inst, errors.Wrapf(err, "invalid weight %#v", weightStr)
		}
	}
	values, err := featureFields.ExtractFloats(fields)
	if err != nil {
		return inst, err
	}
	inst.Features = sparse.Dense(values)
	return inst, nil
}
