package cmd

import (
	"github.com/carousell/ct-go/pkg/logger/log"
	"github.com/scanbridge/scanbridge/internal/app"
	"github.com/scanbridge/scanbridge/internal/bots"
	"github.com/scanbridge/scanbridge/internal/kafka"
	"github.com/scanbridge/scanbridge/internal/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "scanbridge",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
			kafka.StartScanConsumer,
			bots.StartBots,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
