package main

import (
	"crypto/tls"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/scadenziario/internal/api"
	"github.com/Veraticus/scadenziario/internal/certs"
	"github.com/Veraticus/scadenziario/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve suggestions and deadlines over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("tls-host", nil, "extra host names or IPs for the certificate")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	useTLS, _ := cmd.Flags().GetBool("tls")
	tlsHosts, _ := cmd.Flags().GetStringSlice("tls-host")
	ctx := cmd.Context()

	var tlsConfig *tls.Config
	if useTLS {
		var err error
		tlsConfig, err = certs.NewFileManager(filepath.Join(config.ConfigDir(), "certs"), tlsHosts...).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
	}

	if a.settings.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	planner, cleanup, err := a.initPlanner(ctx, store, true)
	if err != nil {
		return err
	}
	defer cleanup()

	return api.NewServer(store, planner, a.settings.Companies).Run(ctx, a.settings.ServerAddr, tlsConfig)
}
