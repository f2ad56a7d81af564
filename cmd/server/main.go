// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/jason-s-yu/gofish/internal/deck"
	"github.com/jason-s-yu/gofish/internal/game"
	"github.com/jason-s-yu/gofish/internal/handlers"
	"github.com/jason-s-yu/gofish/internal/journal"
	"github.com/jason-s-yu/gofish/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	// The deck definition is loaded once before accepting connections;
	// anything wrong with it is fatal.
	deckFile := getEnv("DECK_FILE", "public/deck.json")
	def, err := deck.LoadDefinition(deckFile)
	if err != nil {
		logger.Fatalf("deck load failed: %v", err)
	}
	d := deck.NewDeck(def)
	logger.Infof("Loaded deck: %d suits x %d ranks = %d cards", len(d.Suits), len(d.Ranks), d.Size())

	session := game.NewSession(d)
	hub := handlers.NewHub(logger)
	session.BroadcastFn = hub.BroadcastAll

	var rec journal.Recorder = journal.Nop{}
	if os.Getenv("REDIS_ADDR") != "" {
		r, err := journal.ConnectRedis()
		if err != nil {
			logger.Fatalf("journal connect failed: %v", err)
		}
		rec = r
		logger.Info("Event journal enabled")
	} else {
		logger.Info("REDIS_ADDR not set; event journal disabled")
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, session, hub, rec),
	)))
	mux.Handle("/", http.FileServer(http.Dir(getEnv("STATIC_DIR", "public"))))

	addr := ":" + getEnv("PORT", "3000")
	logger.Infof("Server listening at %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
