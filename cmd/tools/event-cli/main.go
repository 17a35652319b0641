package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	nats "github.com/nats-io/nats.go"

	"github.com/annel0/solar-sim/internal/eventbus"
)

const defaultNATSURL = "nats://localhost:4222"

// event-cli — утилита для наблюдения за событиями симуляции через NATS.
//
// Примеры:
//
//	event-cli -cmd tail
//	event-cli -cmd tail -types system_generated,body_skipped
//	event-cli -cmd types
func main() {
	var (
		natsURL    = flag.String("nats", defaultNATSURL, "NATS server URL")
		command    = flag.String("cmd", "tail", "Command: tail, types")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		raw        = flag.Bool("raw", false, "Print raw JSON envelopes")
	)
	flag.Parse()

	switch *command {
	case "types":
		printTypes()
	case "tail":
		tailEvents(*natsURL, *eventTypes, *raw)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *command)
		os.Exit(1)
	}
}

// printTypes выводит известные типы событий.
func printTypes() {
	fmt.Println("Известные типы событий:")
	fmt.Printf("  %s\n", eventbus.EventSystemGenerated)
	fmt.Printf("  %s\n", eventbus.EventBodySkipped)
	fmt.Printf("  %s\n", eventbus.EventMeshRegenerated)
}

// tailEvents подписывается на solar.* и печатает события до Ctrl+C.
func tailEvents(url, typesFilter string, raw bool) {
	nc, err := nats.Connect(url)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к NATS %s: %v", url, err)
	}
	defer nc.Drain()

	wanted := map[string]bool{}
	for _, t := range strings.Split(typesFilter, ",") {
		if t = strings.TrimSpace(t); t != "" {
			wanted[t] = true
		}
	}

	_, err = nc.Subscribe("solar.*", func(msg *nats.Msg) {
		var ev eventbus.Envelope
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Printf("⚠️ Нечитаемое событие на %s: %v", msg.Subject, err)
			return
		}

		if len(wanted) > 0 && !wanted[ev.EventType] {
			return
		}

		if raw {
			fmt.Printf("%s\n", msg.Data)
			return
		}

		fmt.Printf("[%s] %-18s src=%s id=%s payload=%s\n",
			ev.Timestamp.Format(time.RFC3339),
			ev.EventType, ev.Source, ev.ID, ev.Payload)
	})
	if err != nil {
		log.Fatalf("❌ Подписка не удалась: %v", err)
	}

	fmt.Printf("📡 Слушаем события на %s (Ctrl+C для выхода)...\n", url)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
