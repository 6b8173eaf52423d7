package zmqtransport

import (
	"context"
	"fmt"

	"github.com/go-zeromq/zmq4"
)

// Pull implements ports.Puller over a ZMQ PULL socket connected to a
// collector's bound PUSH endpoint (Terminus's intake stage, one per
// configured collector port).
type Pull struct {
	sock zmq4.Socket
}

// NewPull creates an unconnected PULL socket.
func NewPull(ctx context.Context) *Pull {
	return &Pull{sock: zmq4.NewPull(ctx)}
}

func (p *Pull) Connect(addr string) error {
	if err := p.sock.Dial(addr); err != nil {
		return fmt.Errorf("zmqtransport: pull connect %s: %w", addr, err)
	}
	return nil
}

// Recv blocks until a frame arrives or ctx is canceled. zmq4 sockets are
// constructed with their owning context, so a PULL socket built from a
// cancelable ctx unblocks Recv on cancellation.
func (p *Pull) Recv(ctx context.Context) ([]byte, error) {
	msg, err := p.sock.Recv()
	if err != nil {
		return nil, fmt.Errorf("zmqtransport: pull recv: %w", err)
	}
	return msg.Bytes(), nil
}

func (p *Pull) Close() error {
	return p.sock.Close()
}
