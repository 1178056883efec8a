package net

import (
	"fmt"
	"log"
	"net"
)

// GetOutgoingIP finds the local address other machines on the LAN can reach.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet; fall back to the interfaces.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("list interface addresses: %w", err)
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	log.Println("[NET] no LAN address found, share link uses loopback")
	return "127.0.0.1", nil
}

// FeedURL is the link viewers use to join the live feed.
func FeedURL(port int) string {
	ip, err := GetOutgoingIP()
	if err != nil {
		log.Printf("[NET] %v", err)
		ip = "127.0.0.1"
	}
	return fmt.Sprintf("ws://%s/feed", net.JoinHostPort(ip, fmt.Sprint(port)))
}
