package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k3l.io/go-hinge/pkg/hinge"
)

var (
	rootCmd = &cobra.Command{
		Use:   "hinge",
		Short: "Hinge loss CLI",
		Long: `Hinge loss CLI evaluates the hinge loss and its gradient
of a linear classifier over a dataset,
locally or as an HTTP server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			var logWriter io.Writer
			switch logFile := viper.GetString("log-file"); logFile {
			case "-":
				logWriter = os.Stdout
			case "":
				logWriter = zerolog.NewConsoleWriter(
					func(w *zerolog.ConsoleWriter) {
						w.Out = os.Stderr
						w.TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"
					})
			default:
				w, err := os.OpenFile(logFile,
					os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o0666)
				if err != nil {
					return errors.Wrap(err, "cannot open log file")
				}
				logWriter = w
			}
			level, err := zerolog.ParseLevel(viper.GetString("log-level"))
			if err != nil {
				return errors.Wrap(err, "invalid log level")
			}
			logger = zerolog.New(logWriter).Level(level).
				With().Timestamp().Logger()
			zerolog.DefaultContextLogger = &logger
			hinge.SetLogger(logger)
			return nil
		},
		SilenceUsage: true,
	}
	cfgFile string
	logger  = zerolog.Nop()
)

func Execute() {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000000000Z07:00"
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// initConfig reads the config file and HINGE_* environment variables
// into viper, below command-line flags in precedence.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hinge")
	}
	viper.SetEnvPrefix("HINGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return errors.Wrap(err, "cannot read config file")
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.hinge.yaml)")
	rootCmd.PersistentFlags().String("log-file", "",
		"log file (- means stdout; default: colorized stderr)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (trace, debug, info, warn, error)")
	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
}
