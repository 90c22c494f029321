package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/salin/mcpserver"
	"github.com/ZaguanLabs/salin/server"
)

func newServeCmd(g *globals) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP translation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := g.openApp(ctx, routeProbe)
			if err != nil {
				return err
			}
			defer a.Close()

			if listen == "" {
				listen = a.cfg.Server.Listen
			}
			srv := server.New(a.resolver, server.Options{
				Listen:         listen,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
				Logger:         a.log,
			})
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (default from config, \":8080\")")
	return cmd
}

func newMCPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve translation tools over the Model Context Protocol on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(context.Background(), routeProbe)
			if err != nil {
				return err
			}
			defer a.Close()

			a.log.Infof("mcp: serving %d memory entries on stdio", a.memory.Len())
			return mcpserver.Serve(a.resolver)
		},
	}
}
