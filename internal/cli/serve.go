package cli

import (
	"github.com/spf13/cobra"

	"github.com/brickforge/brickmap/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP API",
		Long: `Run the brickmap HTTP API.

The API accepts heightmap uploads (or procedural terrain requests) on
POST /v1/convert and responds with the encoded save file. Conversions
share the same cache as the convert command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.newCache(noCache)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Addr:   addr,
				Cache:  backend,
				Logger: c.Logger,
			})
			defer srv.Close()

			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}
