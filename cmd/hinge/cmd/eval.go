package cmd

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k3l.io/go-hinge/pkg/dataset"
	"k3l.io/go-hinge/pkg/hinge"
	"k3l.io/go-hinge/pkg/sparse"
	"k3l.io/go-hinge/pkg/storage"
	"k3l.io/go-hinge/pkg/util"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the hinge loss over a dataset",
	Long: `Evaluate the mean hinge loss and its gradient
of the given coefficients over a LIBSVM or CSV dataset.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := util.SetLoggerInContext(cmd.Context(), logger)
		return runEval(ctx, evalConfigFromViper())
	},
}

type evalConfig struct {
	dataURI         string
	format          string
	labelColumn     string
	weightColumn    string
	coefficientsURI string
	numFeatures     int
	fitIntercept    bool
	partitions      int
	blockRows       int
	blockMem        int64
	workers         int
	treeDepth       int
	output          string
	gradientCSV     string
}

func evalConfigFromViper() evalConfig {
	return evalConfig{
		dataURI:         viper.GetString("data"),
		format:          viper.GetString("format"),
		labelColumn:     viper.GetString("label-column"),
		weightColumn:    viper.GetString("weight-column"),
		coefficientsURI: viper.GetString("coefficients"),
		numFeatures:     viper.GetInt("num-features"),
		fitIntercept:    viper.GetBool("fit-intercept"),
		partitions:      viper.GetInt("partitions"),
		blockRows:       viper.GetInt("block-rows"),
		blockMem:        viper.GetInt64("block-mem"),
		workers:         viper.GetInt("workers"),
		treeDepth:       viper.GetInt("tree-depth"),
		output:          viper.GetString("output"),
		gradientCSV:     viper.GetString("gradient-csv"),
	}
}

func runEval(ctx context.Context, cfg evalConfig) error {
	if cfg.blockRows > 0 && cfg.blockMem > 0 {
		return errors.New("--block-rows and --block-mem are mutually exclusive")
	}
	tm := util.NewWallTimeLogger(logger)
	coefficients, err := loadCoefficients(ctx, cfg.coefficientsURI)
	if err != nil {
		return errors.Wrap(err, "cannot load coefficients")
	}
	numFeatures := cfg.numFeatures
	if numFeatures <= 0 {
		numFeatures = len(coefficients)
		if cfg.fitIntercept {
			numFeatures--
		}
	}
	instances, err := loadInstances(ctx, cfg, numFeatures)
	if err != nil {
		return errors.Wrap(err, "cannot load dataset")
	}
	tm.Log("load")
	partitions, err := makePartitions(instances, numFeatures, cfg)
	if err != nil {
		return errors.Wrap(err, "cannot partition dataset")
	}
	tm.Log("partition")
	var stats hinge.Stats
	opts := []hinge.EvaluateOpt{hinge.WithStats(&stats)}
	if cfg.workers > 0 {
		opts = append(opts, hinge.WithNumWorkers(cfg.workers))
	}
	if cfg.treeDepth > 0 {
		opts = append(opts, hinge.WithTreeDepth(cfg.treeDepth))
	}
	agg, err := hinge.Evaluate(ctx, numFeatures, cfg.fitIntercept,
		sparse.Dense(coefficients), partitions, opts...)
	if err != nil {
		return errors.Wrap(err, "cannot evaluate")
	}
	tm.Log("evaluate")
	logger.Info().
		Int("numInstances", len(instances)).
		Int("numFeatures", numFeatures).
		Int64("rows", stats.Rows).
		Int64("blocks", stats.Blocks).
		Int64("shortCircuitedBlocks", stats.ShortCircuitedBlocks).
		Msg("evaluated")
	if err = writeResult(agg, cfg.output); err != nil {
		return errors.Wrap(err, "cannot write output file")
	}
	if err = writeGradientCSV(agg, cfg.gradientCSV); err != nil {
		return errors.Wrap(err, "cannot write gradient CSV file")
	}
	return nil
}

// readCoefficients parses a JSON array of numbers.
func readCoefficients(r io.Reader) ([]float64, error) {
	coefficients := []float64{}
	err := jx.Decode(r, 4096).Arr(func(d *jx.Decoder) error {
		v, err := d.Float64()
		if err != nil {
			return errors.Wrapf(err, "coefficient #%d", len(coefficients))
		}
		coefficients = append(coefficients, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coefficients, nil
}

func loadCoefficients(ctx context.Context, uri string) ([]float64, error) {
	if uri == "" {
		return nil, errors.New("no coefficients given")
	}
	rc, err := storage.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer util.Close(rc)
	return readCoefficients(rc)
}

func loadInstances(
	ctx context.Context, cfg evalConfig, numFeatures int,
) ([]dataset.Instance, error) {
	rc, err := storage.Open(ctx, cfg.dataURI)
	if err != nil {
		return nil, err
	}
	defer util.Close(rc)
	format := cfg.format
	if format == "" {
		format = "libsvm"
		if strings.EqualFold(filepath.Ext(cfg.dataURI), ".csv") {
			format = "csv"
		}
	}
	var (
		instances []dataset.Instance
		dim       int
	)
	switch format {
	case "libsvm":
		instances, dim, err = dataset.ReadLibSVM(rc, numFeatures)
	case "csv":
		instances, dim, err = dataset.ReadCSV(csv.NewReader(rc),
			dataset.CSVOptions{
				LabelColumn:  cfg.labelColumn,
				WeightColumn: cfg.weightColumn,
			})
	default:
		return nil, errors.Errorf("invalid dataset format %#v", format)
	}
	if err != nil {
		return nil, err
	}
	if err = sparse.CheckDim(numFeatures, dim); err != nil {
		return nil, errors.Wrap(err, "dataset features")
	}
	return instances, nil
}

func makePartitions(
	instances []dataset.Instance, numFeatures int, cfg evalConfig,
) ([]hinge.Partition, error) {
	parts := dataset.Partition(instances, max(cfg.partitions, 1))
	partitions := make([]hinge.Partition, 0, len(parts))
	for _, part := range parts {
		var (
			blocks []*dataset.Block
			err    error
		)
		switch {
		case len(part) == 0:
		case cfg.blockRows > 0:
			blocks, err = dataset.Blockify(part, numFeatures, cfg.blockRows)
		case cfg.blockMem > 0:
			blocks, err = dataset.BlockifyWithMaxMemUsage(
				part, numFeatures, cfg.blockMem)
		default:
			partitions = append(partitions, hinge.Partition{Instances: part})
			continue
		}
		if err != nil {
			return nil, err
		}
		partitions = append(partitions, hinge.Partition{Blocks: blocks})
	}
	return partitions, nil
}

func encodeResult(e *jx.Encoder, agg *hinge.Aggregator) error {
	loss, err := agg.Loss()
	if err != nil {
		return err
	}
	gradient, err := agg.Gradient()
	if err != nil {
		return err
	}
	e.Obj(func(e *jx.Encoder) {
		e.Field("loss", func(e *jx.Encoder) { e.Float64(loss) })
		e.Field("gradient", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, v := range gradient {
					e.Float64(v)
				}
			})
		})
		e.Field("lossSum", func(e *jx.Encoder) { e.Float64(agg.LossSum()) })
		e.Field("weightSum", func(e *jx.Encoder) { e.Float64(agg.WeightSum()) })
	})
	return nil
}

func writeResult(agg *hinge.Aggregator, filename string) error {
	var e jx.Encoder
	if err := encodeResult(&e, agg); err != nil {
		return err
	}
	e.RawStr("\n")
	file, err := util.OpenOutputFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot open output file")
	}
	defer util.Close(file)
	if _, err = e.WriteTo(file); err != nil {
		return err
	}
	return nil
}

func writeGradient(w util.CSVWriter, gradient []float64) error {
	for i, v := range gradient {
		if err := w.Write([]string{
			strconv.Itoa(i),
			strconv.FormatFloat(v, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeGradientCSV(agg *hinge.Aggregator, filename string) error {
	if filename == "" {
		return nil
	}
	gradient, err := agg.Gradient()
	if err != nil {
		return err
	}
	file, err := util.OpenOutputFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot open gradient CSV file")
	}
	defer util.Close(file)
	csvWriter := csv.NewWriter(file)
	if err = writeGradient(csvWriter, gradient); err != nil {
		return err
	}
	csvWriter.Flush()
	if err = csvWriter.Error(); err != nil {
		return errors.Wrap(err, "cannot flush gradient CSV file")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("data", "d", "-",
		`Dataset URI: a local path, file: URI, s3://bucket/key,
or "-" (default) for standard input.`)
	evalCmd.Flags().StringP("format", "f", "",
		`Dataset format, libsvm or csv.
Default: csv for .csv files, libsvm otherwise.`)
	evalCmd.Flags().String("label-column", "label",
		"CSV label column name")
	evalCmd.Flags().String("weight-column", "",
		`CSV weight column name.  "" (default) gives every instance unit weight.`)
	evalCmd.Flags().StringP("coefficients", "c", "",
		"Coefficients URI, a JSON array of numbers (intercept last)")
	evalCmd.Flags().IntP("num-features", "n", 0,
		"Number of features.  0 (default) infers it from the coefficients.")
	evalCmd.Flags().Bool("fit-intercept", false,
		"Coefficients end with an intercept")
	evalCmd.Flags().IntP("partitions", "p", 1,
		"Number of partitions to evaluate concurrently")
	evalCmd.Flags().Int("block-rows", 0,
		"Pack partitions into blocks of at most this many rows")
	evalCmd.Flags().Int64("block-mem", 0,
		"Pack partitions into blocks of at most this many bytes")
	evalCmd.Flags().Int("workers", 0,
		"Maximum partitions evaluated at once.  0 (default) uses GOMAXPROCS.")
	evalCmd.Flags().Int("tree-depth", 2,
		"Depth of the partition merge tree; 1 merges linearly")
	evalCmd.Flags().StringP("output", "o", "-",
		`Output file name.
"" suppresses output; "-" (default) uses standard output`)
	evalCmd.Flags().String("gradient-csv", "",
		`Gradient CSV output file name (index,gradient rows).
"" (default) suppresses output; "-" uses standard output`)
}
