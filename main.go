package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"DrawingApp/internal/config"
	drawnet "DrawingApp/internal/net"
	"DrawingApp/internal/state"
	"DrawingApp/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	switch mode {
	case "discover":
		runDiscover()
	case "serve":
		runServe(cfg)
	case "":
		runHost(cfg)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [serve|discover]\n", os.Args[0])
		os.Exit(2)
	}
}

func newPlane(cfg *config.Config) *state.Plane {
	factory := state.NewFactory(state.NewRandom(cfg.Seed), cfg.Canvas)
	return state.NewPlane(factory, cfg.AlphaStep)
}

// startFeed serves the live feed in the background and advertises it. The
// returned stop function shuts both down.
func startFeed(ctx context.Context, cfg *config.Config, plane *state.Plane) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	hub := drawnet.NewHub(plane)
	sub := plane.Subscribe(hub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := drawnet.ListenAndServe(ctx, cfg.FeedAddr(), hub.Handler()); err != nil {
			log.Printf("[FEED] %v", err)
		}
	}()

	var shutdownMDNS func() error
	if cfg.MDNS {
		server, err := drawnet.Advertise(cfg.FeedPort, plane.Session())
		if err != nil {
			log.Printf("[MDNS] %v", err)
		} else {
			shutdownMDNS = server.Shutdown
		}
	}

	return func() {
		cancel()
		<-done
		plane.Unsubscribe(sub)
		hub.Close()
		if shutdownMDNS != nil {
			if err := shutdownMDNS(); err != nil {
				log.Printf("[MDNS] shutdown: %v", err)
			}
		}
	}
}

func runHost(cfg *config.Config) {
	log.Println("Starting DrawingApp")
	plane := newPlane(cfg)
	stop := startFeed(context.Background(), cfg, plane)
	defer stop()

	ui.RunApp(plane, cfg.Canvas, drawnet.FeedURL(cfg.FeedPort))
}

// runServe runs the plane with only the live feed as presentation.
func runServe(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	plane := newPlane(cfg)
	stop := startFeed(ctx, cfg, plane)
	log.Printf("Serving headless plane %s at %s", plane.Session(), drawnet.FeedURL(cfg.FeedPort))
	<-ctx.Done()
	stop()
}

func runDiscover() {
	log.Println("Looking for drawing feeds on the local network...")
	found := 0
	err := drawnet.Browse(func(url string) {
		found++
		fmt.Println(url)
	})
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if found == 0 {
		log.Println("No feeds found")
	}
}
