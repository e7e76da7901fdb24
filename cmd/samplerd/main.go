// Command samplerd binds to a live chat application page and serves its
// sampler controls as MCP tools.
//
// By default it speaks stdio, which is what desktop MCP clients spawn. Set
// SAMPLERD_HTTP_ADDR to serve the streaming HTTP transport instead; in that
// mode SAMPLERD_TOKEN guards the endpoint with a static bearer token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ggoodman/mcp-server-go/auth"
	"github.com/ggoodman/mcp-server-go/mcpservice"
	"github.com/ggoodman/mcp-server-go/sessions/memoryhost"
	"github.com/ggoodman/mcp-server-go/stdio"
	"github.com/ggoodman/mcp-server-go/streaminghttp"
	"github.com/joeshaw/envdecode"

	"samplerctl/controls"
	"samplerctl/rodsource"
	"samplerctl/server"
)

var version = "0.1.0"

const httpShutdownTimeout = 10 * time.Second

type appConfig struct {
	// PageURL is the chat application page carrying the settings panel.
	PageURL string `env:"SAMPLERD_PAGE_URL,required"`

	// BrowserURL is the DevTools websocket of an already-running browser.
	// Leave empty to launch one.
	BrowserURL string `env:"SAMPLERD_BROWSER_URL"`

	// Headless applies only to a launched browser.
	Headless bool `env:"SAMPLERD_HEADLESS,default=true"`

	// RootSelector scopes page snapshots.
	RootSelector string `env:"SAMPLERD_ROOT_SELECTOR,default=body"`

	// SchemaPath points at a YAML file overriding the built-in panel schema.
	// The file is watched and reloaded on change.
	SchemaPath string `env:"SAMPLERD_SCHEMA"`

	// HTTPAddr switches on the streaming HTTP transport when set.
	HTTPAddr string `env:"SAMPLERD_HTTP_ADDR"`

	// PublicEndpoint is the externally visible MCP URL. Defaults to
	// http://<HTTPAddr>/mcp.
	PublicEndpoint string `env:"SAMPLERD_PUBLIC_ENDPOINT"`

	// Token is the static bearer token for the HTTP transport. Empty accepts
	// any caller; only do that on loopback.
	Token string `env:"SAMPLERD_TOKEN"`

	LogLevel string `env:"SAMPLERD_LOG_LEVEL,default=info"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "samplerd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	lv := new(slog.LevelVar)
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("config: SAMPLERD_LOG_LEVEL: %w", err)
	}
	lv.Set(lvl)
	// stdout carries the stdio transport, so logs always go to stderr.
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))

	schema := controls.DefaultSchema()
	if cfg.SchemaPath != "" {
		loaded, err := controls.LoadSchema(cfg.SchemaPath)
		if err != nil {
			return fmt.Errorf("schema %s: %w", cfg.SchemaPath, err)
		}
		schema = loaded
	}

	src, err := rodsource.New(ctx, rodsource.Config{
		PageURL:      cfg.PageURL,
		ControlURL:   cfg.BrowserURL,
		Headless:     cfg.Headless,
		RootSelector: cfg.RootSelector,
	}, rodsource.WithLogger(log))
	if err != nil {
		return err
	}
	defer src.Close()

	svc := controls.NewService(src, controls.WithSchema(schema), controls.WithLogger(log))

	if cfg.SchemaPath != "" {
		stopWatch, err := watchSchema(ctx, cfg.SchemaPath, svc, log)
		if err != nil {
			return fmt.Errorf("schema watch: %w", err)
		}
		defer stopWatch()
	}

	srv := server.New(svc,
		server.WithVersion(version),
		server.WithLogLevelVar(lv),
	)

	if cfg.HTTPAddr != "" {
		return serveHTTP(ctx, cfg, srv, log)
	}

	log.Info("serving stdio transport", slog.String("page_url", cfg.PageURL))
	h := stdio.NewHandler(srv, stdio.WithLogger(log))
	if err := h.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveHTTP(ctx context.Context, cfg appConfig, srv mcpservice.ServerCapabilities, log *slog.Logger) error {
	endpoint := cfg.PublicEndpoint
	if endpoint == "" {
		endpoint = "http://" + cfg.HTTPAddr + "/mcp"
	}
	host := memoryhost.New()

	h, err := streaminghttp.New(ctx, endpoint, host, srv,
		&staticTokenAuth{token: cfg.Token},
		streaminghttp.WithServerName("samplerctl"),
		streaminghttp.WithLogger(log),
	)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: h}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info("serving http transport",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("endpoint", endpoint),
		slog.Bool("token_required", cfg.Token != ""),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// watchSchema reloads the panel schema whenever the file changes. Editors
// commonly replace files on save, so the parent directory is watched and
// events are filtered by name.
func watchSchema(ctx context.Context, path string, svc *controls.Service, log *slog.Logger) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	base := filepath.Base(path)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base || !ev.Op.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				schema, err := controls.LoadSchema(path)
				if err != nil {
					log.Warn("schema reload failed", slog.String("path", path), slog.String("err", err.Error()))
					continue
				}
				svc.SetSchema(schema)
				log.Info("schema reloaded", slog.String("path", path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("schema watcher error", slog.String("err", err.Error()))
			}
		}
	}()
	return func() { _ = w.Close() }, nil
}

// staticTokenAuth admits callers presenting the configured bearer token. An
// empty token admits everyone.
type staticTokenAuth struct {
	token string
}

var _ auth.Authenticator = (*staticTokenAuth)(nil)

func (a *staticTokenAuth) CheckAuthentication(_ context.Context, tok string) (auth.UserInfo, error) {
	if a.token != "" && tok != a.token {
		return nil, auth.ErrUnauthorized
	}
	return &staticUser{}, nil
}

type staticUser struct{}

func (u *staticUser) UserID() string     { return "local-operator" }
func (u *staticUser) Claims(_ any) error { return nil }
