package tts

import (
	"net"
	"time"
)

// edgeHost is the Edge speech service endpoint, doubling as the
// connectivity probe target.
const edgeHost = "speech.platform.bing.com"

// probeTimeout bounds the reachability check.
const probeTimeout = 3 * time.Second

// Reachable reports whether the cloud speech endpoint accepts a TCP
// connection. It is a connectivity probe only, not a guarantee the
// speech service itself will answer.
func Reachable() bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(edgeHost, "443"), probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
