// network/udp.go
package network

import (
	"errors"
	"net"
	"os"
	"time"
)

const maxDatagramSize = 4096

// Transport sends and receives framed messages. It exists so the engine
// and dispatcher can run against a recording fake in tests.
type Transport interface {
	Read(timeout time.Duration) ([]byte, net.Addr, error)
	Send(addr *net.UDPAddr, msgType string, payload interface{}) error
	LocalAddr() string
	Close() error
}

// UDPTransport is the live datagram transport. One socket carries traffic
// to and from both peers.
type UDPTransport struct {
	conn *net.UDPConn
	buf  []byte
}

func NewUDPTransport(listenAddr string) (*UDPTransport, error) {
	addr, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	return &UDPTransport{
		conn: conn,
		buf:  make([]byte, maxDatagramSize),
	}, nil
}

// Read blocks for at most timeout waiting for one datagram. A timeout is
// reported as os.ErrDeadlineExceeded so the receiver loop can poll its
// shutdown channel between reads.
func (t *UDPTransport) Read(timeout time.Duration) ([]byte, net.Addr, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, nil, err
	}
	n, addr, err := t.conn.ReadFromUDP(t.buf)
	if err != nil {
		return nil, nil, err
	}
	data := make([]byte, n)
	copy(data, t.buf[:n])
	return data, addr, nil
}

func (t *UDPTransport) Send(addr *net.UDPAddr, msgType string, payload interface{}) error {
	data, err := Encode(msgType, payload)
	if err != nil {
		return err
	}
	_, err = t.conn.WriteToUDP(data, addr)
	return err
}

func (t *UDPTransport) LocalAddr() string {
	return t.conn.LocalAddr().String()
}

func (t *UDPTransport) Close() error {
	return t.conn.Close()
}

// IsTimeout reports whether a read error is the poll deadline expiring.
func IsTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// IsClosed reports whether a read error means the socket was torn down.
func IsClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
