// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/url2md/internal/reader"
	"github.com/pdiddy/url2md/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over HTTP",
	Long: `Serve starts an HTTP endpoint. GET /convert?url=<page> responds with the
page's markdown rendering as a file download; invalid URLs get a 400 and
conversion failures a 502, both with a JSON {"error": "..."} body.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := server.New(cfg.Serve, reader.New(cfg.Reader), cfg.Reader.BaseURL)
		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr)")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
