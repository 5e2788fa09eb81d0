package util

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ValidateAddress checks that s is a well-formed dotted-quad IPv4
// literal.  Hostnames and IPv6 addresses are rejected, never resolved.
func ValidateAddress(s string) error {
	if strings.Count(s, ".") != 3 || strings.Contains(s, ":") {
		return fmt.Errorf("invalid IP address: %s", s)
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("invalid IP address: %s", s)
	}
	return nil
}

// ValidatePort parses s as a TCP port number in [1, 65535].
func ValidatePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port: %s", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
