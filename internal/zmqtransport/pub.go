package zmqtransport

import (
	"context"
	"fmt"

	"github.com/go-zeromq/zmq4"
)

// Pub implements ports.Publisher over a ZMQ PUB socket. Mercury binds one
// per collector instance to broadcast HealthSnapshots.
type Pub struct {
	sock zmq4.Socket
}

// NewPub creates an unbound PUB socket.
func NewPub(ctx context.Context) *Pub {
	return &Pub{sock: zmq4.NewPub(ctx)}
}

func (p *Pub) Bind(addr string) error {
	if err := p.sock.Listen(addr); err != nil {
		return fmt.Errorf("zmqtransport: pub bind %s: %w", addr, err)
	}
	return nil
}

// Send publishes payload as a single frame with no topic prefix; the
// empty-topic SUB filter every monitor subscribes with matches it.
func (p *Pub) Send(ctx context.Context, payload []byte) error {
	if err := p.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return fmt.Errorf("zmqtransport: pub send: %w", err)
	}
	return nil
}

func (p *Pub) Close() error {
	return p.sock.Close()
}
