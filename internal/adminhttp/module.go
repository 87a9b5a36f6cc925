package adminhttp

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"github.com/duskforge/voxelcore/internal/adminws"
	"github.com/duskforge/voxelcore/internal/domain/registry"
)

// Addr is the listen address for the admin HTTP server.
type Addr string

// Module wires the admin HTTP server, its websocket lifecycle feed, and
// the http.Server lifecycle hook.
var Module = fx.Module("adminhttp",
	fx.Provide(
		adminws.NewFeed,
		NewServer,
	),

	fx.Invoke(func(lc fx.Lifecycle, addr Addr, s *Server, feed *adminws.Feed, reg *registry.Registry) {
		reg.AddObserver(feed)

		httpServer := &http.Server{Addr: string(addr), Handler: s.Router()}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go httpServer.ListenAndServe()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return httpServer.Shutdown(ctx)
			},
		})
	}),
)
