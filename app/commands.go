package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/go-shade/shade/app/server"
	"github.com/go-shade/shade/app/store"
	"github.com/go-shade/shade/app/sysscheme"
)

// ServerCmd implements the server subcommand
type ServerCmd struct {
	DB string `short:"d" long:"db" env:"SHADE_DB" default:"shade.db" description:"database URL (sqlite file or postgres://...)"`

	Server struct {
		Address     string        `long:"address" env:"ADDRESS" default:":8080" description:"server listen address"`
		ReadTimeout time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"5s" description:"read timeout"`
		BaseURL     string        `long:"base-url" env:"BASE_URL" description:"base URL path for reverse proxy (e.g., /shade)"`
	} `group:"server" namespace:"server" env-namespace:"SHADE_SERVER"`

	Auth struct {
		PasswordHash string `long:"password-hash" env:"PASSWORD_HASH" description:"bcrypt hash for admin password (enables admin endpoints)"`
	} `group:"auth" namespace:"auth" env-namespace:"SHADE_AUTH"`

	Theme struct {
		HostFallback bool          `long:"host-fallback" env:"HOST_FALLBACK" description:"use the server host's color scheme when the client sends no hint"`
		PollInterval time.Duration `long:"poll-interval" env:"POLL_INTERVAL" default:"5s" description:"host color scheme poll interval"`
	} `group:"theme" namespace:"theme" env-namespace:"SHADE_THEME"`

	Cache struct {
		MaxKeys int `long:"max-keys" env:"MAX_KEYS" default:"1000" description:"max cached preference entries"`
	} `group:"cache" namespace:"cache" env-namespace:"SHADE_CACHE"`

	Debug bool `long:"dbg" env:"DEBUG" description:"debug mode"`

	ctx    context.Context
	cancel context.CancelFunc
}

// Execute runs the server command
func (s *ServerCmd) Execute(_ []string) error {
	setupLogs(s.Debug)

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	if s.ctx == nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
		signals(s.cancel)
	}

	return s.run(s.ctx)
}

func (s *ServerCmd) run(ctx context.Context) error {
	baseURL, err := validateBaseURL(s.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	log.Printf("[INFO] starting shade server on %s", s.Server.Address)
	if baseURL != "" {
		log.Printf("[INFO] base URL: %s", baseURL)
	}
	if s.Auth.PasswordHash != "" {
		log.Printf("[INFO] admin endpoints enabled")
	}

	// initialize storage with read-through cache
	prefStore, err := store.New(s.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	cached, err := store.NewCached(prefStore, s.Cache.MaxKeys)
	if err != nil {
		_ = prefStore.Close()
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer cached.Close()

	// optional host color scheme fallback for hint-less clients
	var host server.HostScheme
	if s.Theme.HostFallback {
		host = sysscheme.New(s.Theme.PollInterval)
		log.Printf("[INFO] host color scheme fallback enabled")
	}

	// initialize and start HTTP server
	srv, err := server.New(cached, host, server.Config{
		Address:      s.Server.Address,
		ReadTimeout:  s.Server.ReadTimeout,
		Version:      revision,
		BaseURL:      baseURL,
		PasswordHash: s.Auth.PasswordHash,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// DetectCmd implements the detect subcommand
type DetectCmd struct {
	Watch    bool          `short:"w" long:"watch" description:"keep watching for scheme changes until interrupted"`
	Interval time.Duration `long:"interval" default:"5s" description:"poll interval in watch mode"`

	Debug bool `long:"dbg" env:"DEBUG" description:"debug mode"`

	ctx    context.Context
	cancel context.CancelFunc
}

// Execute runs the detect command
func (d *DetectCmd) Execute(_ []string) error {
	setupLogs(d.Debug)

	if d.ctx == nil {
		d.ctx, d.cancel = context.WithCancel(context.Background())
		signals(d.cancel)
	}

	provider := sysscheme.New(d.Interval)
	fmt.Println(schemeName(provider.PrefersDark()))

	if !d.Watch {
		return nil
	}

	unsub := provider.Subscribe(func(dark bool) {
		fmt.Println(schemeName(dark))
	})
	defer unsub()

	<-d.ctx.Done()
	return nil
}

func schemeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
