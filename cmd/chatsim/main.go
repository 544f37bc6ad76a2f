// Package main is a local demo harness for the messaging core. It wires the
// conversation service, the simulated responder, and the presence store
// behind a small stdin REPL; there is no server boundary.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linkup-app/messaging-core/internal/chat"
	"github.com/linkup-app/messaging-core/internal/config"
	"github.com/linkup-app/messaging-core/internal/model"
	"github.com/linkup-app/messaging-core/internal/presence"
	"github.com/linkup-app/messaging-core/internal/responder"
	"github.com/linkup-app/messaging-core/pkg/logger"
	"github.com/linkup-app/messaging-core/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting chat simulator")

	ctx := context.Background()

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "messaging-core", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Optional metrics listener
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Warn("metrics listener stopped")
			}
		}()
	}

	// Open presence storage
	statusStore, err := presence.NewSQLiteStore(cfg.PresenceDBPath)
	if err != nil {
		log.Error("failed to open presence store")
		os.Exit(1)
	}
	defer statusStore.Close()

	// Initialize the conversation core
	svc := chat.NewService(log)

	gen, err := responder.NewGenerator(responder.Provider(cfg.ResponderProvider), cfg.OpenAIAPIKey)
	if err != nil {
		log.Error("failed to create reply generator")
		os.Exit(1)
	}

	pipeline := responder.NewPipeline(svc.Mutator(), svc, gen, log,
		responder.WithDelayBounds(cfg.ResponderMinDelay, cfg.ResponderMaxDelay))
	svc.SetResponder(pipeline)

	seedConversations(ctx, svc)

	// REPL input
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("commands: list | open <counterpart-id> [name] | send <text> | read | status [value [message]] | quit")

	var current model.Conversation

loop:
	for {
		fmt.Print("> ")
		select {
		case <-quit:
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if done := handle(ctx, svc, statusStore, &current, line); done {
				break loop
			}
		}
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pipeline.Shutdown(shutdownCtx); err != nil {
		log.Warn("responder shutdown timed out")
	}

	log.Info("stopped")
}

func handle(ctx context.Context, svc *chat.Service, store presence.Store, current *model.Conversation, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	now := time.Now()

	switch fields[0] {
	case "quit", "exit":
		return true

	case "list":
		for _, conv := range svc.ListConversations(ctx) {
			marker := " "
			if conv.HasUnread {
				marker = "*"
			}
			if svc.Responding(conv.ID) {
				marker = "…"
			}
			fmt.Printf("%s %-20s %-10s %s\n", marker, conv.CounterpartName, conv.LastActivityLabel(now), conv.LastMessagePreview)
		}

	case "open":
		if len(fields) < 2 {
			fmt.Println("usage: open <counterpart-id> [name]")
			return false
		}
		info := chat.CounterpartInfo{}
		if len(fields) > 2 {
			info.Name = strings.Join(fields[2:], " ")
		}
		conv, err := svc.ResolveOrCreateConversation(ctx, fields[1], info)
		if err != nil {
			fmt.Println("error:", err)
			return false
		}
		*current = conv
		for _, msg := range svc.ListMessages(ctx, conv.ID) {
			author := conv.CounterpartName
			if msg.FromLocal() {
				author = "you"
			}
			fmt.Printf("[%s] %s: %s\n", msg.TimestampLabel(now), author, msg.Text)
		}
		if err := svc.MarkRead(ctx, conv.ID); err != nil {
			fmt.Println("error:", err)
		}

	case "send":
		if current.ID == "" {
			fmt.Println("open a conversation first")
			return false
		}
		if len(fields) < 2 {
			fmt.Println("usage: send <text>")
			return false
		}
		if _, err := svc.SendMessage(ctx, current.ID, strings.Join(fields[1:], " ")); err != nil {
			fmt.Println("error:", err)
		}

	case "read":
		if current.ID == "" {
			fmt.Println("open a conversation first")
			return false
		}
		if err := svc.MarkRead(ctx, current.ID); err != nil {
			fmt.Println("error:", err)
		}

	case "status":
		if len(fields) == 1 {
			rec, err := store.Get(ctx)
			if err != nil {
				fmt.Println("error:", err)
				return false
			}
			fmt.Printf("%s %s\n", rec.Status, rec.CustomMessage)
			return false
		}
		rec := presence.Record{
			Status:      presence.Status(fields[1]),
			LastUpdated: now,
		}
		if len(fields) > 2 {
			rec.CustomMessage = strings.Join(fields[2:], " ")
		}
		if err := store.Set(ctx, rec); err != nil {
			fmt.Println("error:", err)
		}

	default:
		fmt.Println("unknown command:", fields[0])
	}

	return false
}

// seedConversations loads the demo fixtures the app ships with.
func seedConversations(ctx context.Context, svc *chat.Service) {
	now := time.Now()

	svc.SeedConversation(ctx, "u1", chat.CounterpartInfo{Name: "Nejmo Serraoui", Connected: true}, []chat.SeedMessage{
		{AuthorID: "u1", Text: "Hi! Thanks for connecting. I saw your background in software engineering and would love to chat about potential collaboration opportunities.", SentAt: now.Add(-30 * time.Minute)},
		{AuthorID: model.AuthorLocal, Text: "Hi Nejmo! Great to connect with you too. I'd be happy to discuss tech projects. What kind of collaboration were you thinking about?", SentAt: now.Add(-28 * time.Minute)},
		{AuthorID: "u1", Text: "Thanks for connecting! I'd love to chat about product strategy sometime.", SentAt: now.Add(-2 * time.Minute)},
	})

	svc.SeedConversation(ctx, "u2", chat.CounterpartInfo{Name: "Marcus Rodriguez", Connected: true}, []chat.SeedMessage{
		{AuthorID: "u2", Text: "Hey! I noticed we have similar interests in machine learning. Would love to connect and maybe collaborate on some open source projects.", SentAt: now.Add(-25 * time.Hour)},
		{AuthorID: "u2", Text: "The React project sounds interesting. When can we discuss it?", SentAt: now.Add(-1 * time.Hour)},
	})

	svc.SeedConversation(ctx, "u3", chat.CounterpartInfo{Name: "Emily Johnson", Connected: true}, []chat.SeedMessage{
		{AuthorID: "u3", Text: "Hi! Great to connect with you. I saw your work and would love to discuss some design collaboration opportunities.", SentAt: now.Add(-3 * time.Hour)},
		{AuthorID: model.AuthorLocal, Text: "Hi Emily! Thanks for reaching out. I'd be interested in hearing more about the design projects you're working on.", SentAt: now.Add(-3 * time.Hour)},
	})
}
