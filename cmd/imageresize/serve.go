package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-resize/pkg/imageresize"
	"github.com/tendant/simple-resize/pkg/imageresize/api"
	fsstorage "github.com/tendant/simple-resize/pkg/imageresize/storage/fs"
)

// ServeConfig holds settings of the HTTP server beyond the resize service
type ServeConfig struct {
	MountStorage bool `env:"SERVE_STORAGE" env-default:"true"`
	WatchStorage bool `env:"WATCH_STORAGE" env-default:"true"`
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve derivative URLs over HTTP",
		Long: `Start an HTTP server exposing

  GET /resize?path=&w=&h=&action=&mode=url|path
  GET /r/{action}/{width}x{height}/{path}

When the primary storage is a local directory with a path-only public URL,
its files are served under that path and changes to them evict cached
timestamps.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	var serveCfg ServeConfig
	if err := cleanenv.ReadEnv(&serveCfg); err != nil {
		return fmt.Errorf("failed to read server configuration: %w", err)
	}

	logger := newLogger()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := buildRuntime(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	handler := api.NewHandler(rt.Service, logger)
	server.R.Mount("/", handler.Routes())

	if local, ok := rt.Primary.(*fsstorage.Backend); ok {
		if serveCfg.MountStorage {
			mountStorage(server.R, local, logger)
		}
		if serveCfg.WatchStorage {
			go watchStorage(ctx, local, rt.Cache, logger)
		}
	}

	server.Run()
	return nil
}

// mountStorage serves the backend directory under the path of its public base URL
func mountStorage(r chi.Router, local *fsstorage.Backend, logger *slog.Logger) {
	u, err := url.Parse(local.PublicBaseURL())
	if err != nil {
		logger.Warn("invalid public base URL, not serving storage", "url", local.PublicBaseURL(), "err", err)
		return
	}
	if u.Host != "" {
		return
	}
	base := "/" + strings.Trim(u.Path, "/")
	if base == "/" {
		logger.Warn("public base URL is the root path, not serving storage")
		return
	}

	files := http.StripPrefix(base, http.FileServer(http.Dir(local.BaseDir())))
	r.Handle(base+"/*", files)
	logger.Info("serving storage", "path", base, "dir", local.BaseDir())
}

// watchStorage evicts cached timestamps of files that change on disk
func watchStorage(ctx context.Context, local *fsstorage.Backend, cache imageresize.Cache, logger *slog.Logger) {
	err := local.Watch(ctx, func(key string) {
		if err := cache.Delete(ctx, key); err != nil {
			logger.Warn("failed to evict cached timestamp", "key", key, "err", err)
		}
	})
	if err != nil {
		logger.Error("storage watcher stopped", "dir", local.BaseDir(), "err", err)
	}
}
