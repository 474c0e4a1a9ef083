// Package udp implements the chain's broadcast transport over UDP
// datagrams on a single shared port. Delivery is best effort, exactly as
// the chain expects: packets can drop, reorder, or duplicate.
package udp

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// receivePoll bounds how long a Receive call waits for a datagram. The
// chain treats Receive as non-blocking; a short deadline keeps the event
// loop responsive without spinning.
const receivePoll = time.Millisecond

// maxDatagram bounds a received datagram. Protocol transactions are a
// fraction of this; anything longer is truncated and will fail to decode.
const maxDatagram = 1024

// Transport is a broadcast transport over a single UDP socket.
type Transport struct {
	conn   *net.UDPConn
	bcast  *net.UDPAddr
	port   int
	locals map[string]struct{}
}

// New constructs a transport listening on the specified port on all
// interfaces. Broadcasts go to the IPv4 broadcast address on the same port.
func New(port int) (*Transport, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("listen udp port %d: %w", port, err)
	}

	// A node's own broadcasts loop back through the network stack. Collect
	// the local interface addresses so Receive can drop them.
	locals := make(map[string]struct{})
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("list interface addresses: %w", err)
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok {
			locals[ipNet.IP.String()] = struct{}{}
		}
	}

	t := Transport{
		conn:   conn,
		bcast:  &net.UDPAddr{IP: net.IPv4bcast, Port: port},
		port:   port,
		locals: locals,
	}

	return &t, nil
}

// Close releases the socket.
func (t *Transport) Close() error {
	return t.conn.Close()
}

// Send delivers a datagram to a single peer address.
func (t *Transport) Send(data []byte, addr string) bool {
	ua, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return false
	}

	n, err := t.conn.WriteToUDP(data, ua)
	return err == nil && n == len(data)
}

// Broadcast delivers a datagram to every node on the local network segment.
func (t *Transport) Broadcast(data []byte) bool {
	n, err := t.conn.WriteToUDP(data, t.bcast)
	return err == nil && n == len(data)
}

// Receive returns the next queued datagram and its sender, or reports empty
// after a short poll. The node's own looped-back broadcasts are dropped.
func (t *Transport) Receive() ([]byte, string, bool) {
	buf := make([]byte, maxDatagram)

	deadline := time.Now().Add(receivePoll)
	for {
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			return nil, "", false
		}

		n, sender, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			return nil, "", false
		}

		if t.isSelf(sender) {
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		return data, sender.String(), true
	}
}

// isSelf reports whether a datagram source is this node's own socket.
func (t *Transport) isSelf(sender *net.UDPAddr) bool {
	if sender.Port != t.port {
		return false
	}

	_, local := t.locals[sender.IP.String()]
	return local
}

// LocalAddr returns the socket address for logging.
func (t *Transport) LocalAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(t.port))
}
