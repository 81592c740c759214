package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"neftit_waitlist/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type row struct {
	DisplayRank   string `json:"display_rank"`
	Name          string `json:"name"`
	ReferralCount int    `json:"referral_count"`
	JoinedAt      string `json:"joined_at"`
	IsYou         bool   `json:"is_you"`
}

type frame struct {
	Type         string    `json:"type"`
	Entries      []row     `json:"entries"`
	TotalEntries int       `json:"total_entries"`
	RefreshedAt  time.Time `json:"refreshed_at"`
}

func main() {
	url := flag.String("url", "ws://localhost:8080/api/v1/leaderboard/ws", "leaderboard stream URL")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	if err := logger.Initialize(logger.Configuration{Level: *level, Encoding: "console"}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		zapLogger.Fatal("Failed to dial leaderboard stream", zap.String("url", *url), zap.Error(err))
	}
	defer conn.Close()
	zapLogger.Info("Connected", zap.String("url", *url))

	frames := make(chan []byte)

	go func() {
		defer close(frames)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				zapLogger.Warn("Read failed", zap.Error(err))
				return
			}
			frames <- p
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	for {
		select {
		case p, ok := <-frames:
			if !ok {
				return
			}
			if err := render(os.Stdout, p); err != nil {
				zapLogger.Error("Failed to decode frame", zap.Error(err))
			}
		case <-interrupt:
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				zapLogger.Warn("Failed to close stream", zap.Error(err))
			}
			return
		}
	}
}

func render(w io.Writer, p []byte) error {
	var f frame
	if err := json.Unmarshal(p, &f); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d entries, refreshed %s\n", f.Type, f.TotalEntries, f.RefreshedAt.Format(time.Kitchen))
	for _, r := range f.Entries {
		marker := ""
		if r.IsYou {
			marker = " <- you"
		}
		fmt.Fprintf(w, "%5s  %-24s %4d  %s%s\n", r.DisplayRank, r.Name, r.ReferralCount, r.JoinedAt, marker)
	}
	return nil
}
