package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"chatbot/internal/chunker"
	"chatbot/internal/config"
	"chatbot/internal/corpus"
	"chatbot/internal/embedding/tfidf"
	"chatbot/internal/server"
	"chatbot/internal/service"
	"chatbot/internal/summarizer"
	"chatbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var useTUI bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/chatbot/config.yaml if not provided)")
	flag.BoolVar(&useTUI, "tui", false, "Chat in the terminal instead of serving HTTP")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if flag.NArg() > 0 {
		cfg.Knowledge.Path = flag.Arg(0)
	}

	// Assemble components
	opts := tfidf.DefaultOptions()
	opts.NgramMin, opts.NgramMax = cfg.Vectorizer.NgramMin, cfg.Vectorizer.NgramMax
	seg, err := chunker.NewSentenceSegmenter()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	builder := corpus.NewBuilder(seg, opts)
	sum := summarizer.NewFrequencySummarizer(tfidf.EnglishStopWords())

	svc, err := service.NewChatbotService(builder, sum, cfg.Summarizer.MaxSentences, cfg.Knowledge.Path, cfg.EngineSettings())
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	if useTUI {
		if _, err := tea.NewProgram(tui.New(svc, svc.Summary())).Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(svc, svc.Units, server.Config{
		Addr:         cfg.Server.Addr,
		AllowOrigin:  cfg.Server.AllowOrigin,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
