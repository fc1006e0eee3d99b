package net

import (
	"log"
	"net"
)

// OutgoingIP returns the address other machines on the LAN most likely reach
// this one on. Nothing is sent; dialing UDP only selects a route.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return firstIPv4().String()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// firstIPv4 is used on networks without a default route.
func firstIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("[HUB] Listing interfaces: %v", err)
		return net.IPv4(127, 0, 0, 1)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	log.Println("[HUB] No suitable local IP found, the share link will only work locally")
	return net.IPv4(127, 0, 0, 1)
}
