package net

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_paintboard._tcp"

var ErrNoBoard = errors.New("no shared board found on the local network")

// Advertise announces a shared board on port over mDNS. Shut the returned
// server down to withdraw it.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"PaintBoard"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover browses for a shared board for up to timeout and returns the
// host:port of the first one that answers.
func Discover(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	if err := mdns.Query(params); err != nil {
		return "", fmt.Errorf("mDNS query: %w", err)
	}
	close(entries)

	for e := range entries {
		if e.AddrV4 == nil || e.Port == 0 {
			continue
		}
		return fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port), nil
	}
	return "", ErrNoBoard
}
