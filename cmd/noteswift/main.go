package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noteswift/internal/auth"
	"noteswift/internal/config"
	"noteswift/internal/db"
	httpx "noteswift/internal/http"
	"noteswift/internal/note"
	"noteswift/internal/notify"
	"noteswift/internal/reminder"
	"noteswift/internal/summary"
)

func main() {
	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.MigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)

	var summarizer summary.Summarizer
	if cfg.OpenAIAPIKey != "" {
		summarizer = summary.NewOpenAI(cfg.OpenAIAPIKey, cfg.SummaryModel)
	} else {
		log.Println("OPENAI_API_KEY not set, note summaries disabled")
	}

	var transport notify.Transport = notify.LogTransport{}
	if cfg.EmailJSServiceID != "" {
		transport = notify.NewEmailJS(cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey)
	}

	noteSvc := &note.Service{DB: gdb, Summarizer: summarizer}
	r := httpx.NewRouter(cfg, gdb, jwtSvc, noteSvc)

	sched := &reminder.Scheduler{
		DB:        gdb,
		Transport: transport,
		Interval:  cfg.ReminderInterval,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sched.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
