package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCoefficients(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []float64
		wantErr bool
	}{
		{"Simple", `[1, -1, 0.5]`, []float64{1, -1, 0.5}, false},
		{"Exponent", ` [ 1e-3 ] `, []float64{1e-3}, false},
		{"Empty", `[]`, []float64{}, false},
		{"NotArray", `{"a": 1}`, nil, true},
		{"NotNumber", `[1, "x"]`, nil, true},
		{"Truncated", `[1, 2`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readCoefficients(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type evalResult struct {
	Loss      float64   `json:"loss"`
	Gradient  []float64 `json:"gradient"`
	LossSum   float64   `json:"lossSum"`
	WeightSum float64   `json:"weightSum"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunEval(t *testing.T) {
	dir := t.TempDir()
	libsvm := writeFile(t, dir, "data.libsvm", `# two instances
1 1:2 2:0.5
0 1:0.1 2:0.2
`)
	csvData := writeFile(t, dir, "data.csv", `x1,label,x2,w
2,1,0.5,1
0.1,0,0.2,1
`)
	coefficients := writeFile(t, dir, "coef.json", `[1, -1]`)
	tests := []struct {
		name string
		cfg  evalConfig
	}{
		{"LibSVM", evalConfig{dataURI: libsvm}},
		{"LibSVMBlocks", evalConfig{dataURI: libsvm, blockRows: 1, partitions: 2}},
		{"LibSVMBlockMem", evalConfig{dataURI: "file://" + libsvm, blockMem: 1024}},
		{"CSV", evalConfig{dataURI: csvData, weightColumn: "w"}},
		{"CSVExplicitFormat", evalConfig{
			dataURI: csvData, format: "csv", labelColumn: "label",
			weightColumn: "w", numFeatures: 2, workers: 1, treeDepth: 1,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.coefficientsURI = coefficients
			cfg.output = filepath.Join(t.TempDir(), "out.json")
			cfg.gradientCSV = filepath.Join(t.TempDir(), "gradient.csv")
			require.NoError(t, runEval(context.Background(), cfg))

			data, err := os.ReadFile(cfg.output)
			require.NoError(t, err)
			var result evalResult
			require.NoError(t, json.Unmarshal(data, &result))
			assert.InDelta(t, 0.45, result.Loss, 1e-12)
			assert.InDelta(t, 0.9, result.LossSum, 1e-12)
			assert.Equal(t, 2.0, result.WeightSum)
			assert.InDeltaSlice(t, []float64{0.05, 0.1}, result.Gradient, 1e-12)

			data, err = os.ReadFile(cfg.gradientCSV)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			require.Len(t, lines, 2)
			assert.True(t, strings.HasPrefix(lines[0], "0,0.05"), lines[0])
			assert.True(t, strings.HasPrefix(lines[1], "1,0.1"), lines[1])
		})
	}
}

func TestRunEval_Errors(t *testing.T) {
	dir := t.TempDir()
	libsvm := writeFile(t, dir, "data.libsvm", "1 1:2 3:0.5\n")
	coefficients := writeFile(t, dir, "coef.json", `[1, -1]`)
	nanWeight := writeFile(t, dir, "nan.csv", "x1,label,x2,w\n2,1,0.5,NaN\n")
	tests := []struct {
		name string
		cfg  evalConfig
	}{
		{"NaNWeight", evalConfig{
			dataURI: nanWeight, coefficientsURI: coefficients,
			weightColumn: "w",
		}},
		{"NaNWeightBlocks", evalConfig{
			dataURI: nanWeight, coefficientsURI: coefficients,
			weightColumn: "w", blockRows: 1,
		}},
		{"BlockOptionsExclusive", evalConfig{
			dataURI: libsvm, coefficientsURI: coefficients,
			blockRows: 1, blockMem: 1,
		}},
		{"NoCoefficients", evalConfig{dataURI: libsvm}},
		{"FeatureOutOfRange", evalConfig{
			dataURI: libsvm, coefficientsURI: coefficients,
		}},
		{"BadFormat", evalConfig{
			dataURI: libsvm, coefficientsURI: coefficients, format: "parquet",
		}},
		{"MissingData", evalConfig{
			dataURI: filepath.Join(dir, "missing"), coefficientsURI: coefficients,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.output = ""
			assert.Error(t, runEval(context.Background(), cfg))
		})
	}
}
