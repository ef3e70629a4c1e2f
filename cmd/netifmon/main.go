package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgomezch/netifmon/internal/config"
	"github.com/mgomezch/netifmon/internal/differ"
	"github.com/mgomezch/netifmon/internal/handler"
	"github.com/mgomezch/netifmon/internal/hub"
	"github.com/mgomezch/netifmon/internal/ifsource"
	"github.com/mgomezch/netifmon/internal/metrics"
	"github.com/mgomezch/netifmon/internal/persist"
	"github.com/mgomezch/netifmon/internal/scheduler"
	"github.com/mgomezch/netifmon/internal/service"
	"github.com/mgomezch/netifmon/internal/store"

	"github.com/mgomezch/netifmon/internal/repository/sqlite"
)

func main() {
	// Command line flags; any flag set explicitly overrides the config file.
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address")
	iface := flag.String("interface", "", "Interface watched by the default differ")
	prefixLen := flag.Int("prefix-length", 0, "IPv6 prefix length for the default differ")
	pollingInterval := flag.Int("polling-interval", 0, "Refresh interval in seconds")
	stateFile := flag.String("state-file", "", "Snapshot persistence file (empty string in config disables)")
	dbPath := flag.String("db", "", "SQLite refresh-history database path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting netifmon...")

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path != "" {
		log.Printf("Config loaded: %s", path)
	} else {
		log.Println("No config file found, using defaults")
	}

	// Flag overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Listen = *addr
		case "interface":
			cfg.Interface = *iface
		case "prefix-length":
			cfg.PrefixLength = *prefixLen
		case "polling-interval":
			cfg.PollingIntervalSec = *pollingInterval
		case "state-file":
			cfg.StateFile = *stateFile
		case "db":
			cfg.HistoryDB = *dbPath
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Configuration: %s", cfg.Summary())

	// Prometheus registry and the default differ
	m := metrics.New()
	differs := []differ.Differ{
		differ.NewIPv6Prefix(m, cfg.Interface, cfg.PrefixLength),
	}

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go sseHub.Run(hubCtx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case <-hubCtx.Done():
				return
			case event := <-eventChan:
				sseHub.Broadcast(event)
			}
		}
	}()

	// Build the state store
	opts := []store.Option{store.WithEvents(eventBus)}
	var repo *sqlite.Repository
	if cfg.HistoryDB != "" {
		repo, err = sqlite.New(cfg.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer repo.Close()
		log.Printf("History database opened: %s", cfg.HistoryDB)
		opts = append(opts, store.WithHistory(repo))
	}

	st := store.New(ifsource.SystemSource{}, differs, persist.NewFile(cfg.StateFile), opts...)

	// Refresh loop; the first cycle runs immediately on Start.
	sched := scheduler.New(cfg.PollingInterval(), st.Refresh)
	sched.Start(context.Background())

	// Initialize HTTP handlers
	stateHandler := handler.NewStateHandler(st)
	if repo != nil {
		stateHandler.SetHistory(repo)
	}
	stateHandler.SetRefreshKicker(sched)

	// Setup routes
	mux := http.NewServeMux()
	stateHandler.AddRoutes(mux)

	// Prometheus metrics endpoint
	mux.Handle("GET /metrics", m.Handler())

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	// Create server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Stop the refresh loop; waits for an in-flight cycle to finish.
	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
