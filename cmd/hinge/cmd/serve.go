package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k3l.io/go-hinge/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the hinge loss API",
	Long:  `Serve the hinge loss evaluation API.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		e := server.NewEcho(logger)
		svr := server.NewServer(logger)
		svr.NumWorkers = viper.GetInt("workers")
		svr.Register(e.Group(server.BaseURL))
		listenAddress := viper.GetString("listen-address")
		tls := viper.GetBool("tls")
		if listenAddress == "" {
			port := 80
			if tls {
				port = 443
			}
			if os.Geteuid() != 0 {
				port += 8000
			}
			listenAddress = fmt.Sprintf(":%d", port)
		}
		var err error
		if tls {
			err = e.StartTLS(listenAddress,
				viper.GetString("tls-cert"), viper.GetString("tls-key"))
		} else {
			err = e.Start(listenAddress)
		}
		if err != nil {
			logger.Err(err).Msg("server did not start or shut down gracefully")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen-address", "",
		`server listen address to bind to
(default: automatically choose based upon --tls and effective user ID)`)
	serveCmd.Flags().Bool("tls", false, "serve over TLS")
	serveCmd.Flags().String("tls-cert", "server.crt",
		"TLS server certificate pathname")
	serveCmd.Flags().String("tls-key", "server.key",
		"TLS server private key pathname")
	serveCmd.Flags().Int("workers", 0,
		"maximum partitions evaluated at once per request (0: GOMAXPROCS)")
}
