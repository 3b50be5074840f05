package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/cliparse"
	"github.com/danielhkuo/propose/db"
	"github.com/danielhkuo/propose/editor"
	"github.com/danielhkuo/propose/metrics"
	"github.com/danielhkuo/propose/middleware"
	"github.com/danielhkuo/propose/router"
	"github.com/danielhkuo/propose/store"
	"github.com/danielhkuo/propose/wizard"
)

func main() {
	var err error

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	// "propose token <user-id>" prints a session token for local testing
	if len(os.Args) == 3 && os.Args[1] == "token" {
		salt := os.Getenv("SESSION_SALT")
		if salt == "" {
			slog.Error("SESSION_SALT is required to sign tokens")
			os.Exit(1)
		}
		fmt.Println(auth.GenerateSessionToken(os.Args[2], salt))
		return
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	steps := wizard.DefaultSteps()
	if cfg.StepsFile != "" {
		steps, err = wizard.LoadStepsFile(cfg.StepsFile)
		if err != nil {
			slog.Error("failed to load wizard steps", "file", cfg.StepsFile, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("wizard steps loaded", "steps", len(steps))

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	m := metrics.New()
	editors := editor.NewManager(editor.Config{
		Proposals: store.NewRecords(dbConn),
		Answers:   store.NewAnswers(dbConn),
		Steps:     steps,
		Delay:     cfg.AutosaveDelay,
		Metrics:   m,
	})

	// Create router
	mux := router.NewRouter(dbConn, cfg, editors, m)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// Tear down edit sessions nobody has touched for a while
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go sweepIdleSessions(bgCtx, editors, cfg.SessionIdleTimeout)

	// Pick up edits to the steps file without a restart
	if cfg.StepsFile != "" {
		err := wizard.WatchStepsFile(bgCtx, cfg.StepsFile, func(steps []wizard.Step) {
			if err := editors.SetSteps(steps); err != nil {
				slog.Warn("rejected reloaded steps", "error", err)
			}
		})
		if err != nil {
			slog.Warn("steps file will not be reloaded", "file", cfg.StepsFile, "error", err)
		}
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		// Wait for Ctrl-C signal
		<-ctrlc
		stopBackground()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
		slog.Info("edit sessions closed", "count", editors.CloseAll())
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "autosave_delay", cfg.AutosaveDelay)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		<-stopped
		slog.Info("Server closed", "error", err)
	}
}

func sweepIdleSessions(ctx context.Context, editors *editor.Manager, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(max(idle/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := editors.Sweep(idle); n > 0 {
				slog.Info("idle edit sessions closed", "count", n)
			}
		}
	}
}
