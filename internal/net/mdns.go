package net

import (
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_drawingapp._tcp"

// Advertise announces the feed on port over mDNS. Call Shutdown on the
// returned server when done.
func Advertise(port int, session string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"DrawingApp", "session=" + session, "path=/feed"}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[MDNS] advertising %s on port %d", serviceType, port)
	return server, nil
}

// Browse looks up feeds on the LAN and calls found with each feed URL.
// It returns once the lookup window has passed.
func Browse(found func(url string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("ws://%s:%d/feed", e.AddrV4, e.Port))
		}
	}()

	err := mdns.Lookup(serviceType, entries)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mDNS lookup: %w", err)
	}
	return nil
}
