// Package zmqtransport wraps the pure-Go zmq4 library behind the small
// port interfaces the rest of the system depends on (§4.4, §4.5, §4.6):
// PUSH/PULL for load-balanced point-to-point fan-out, PUB/SUB for
// broadcast telemetry.
package zmqtransport

import (
	"context"
	"fmt"

	"github.com/go-zeromq/zmq4"
)

// Push implements ports.Pusher over a ZMQ PUSH socket bound by the caller
// (Mercury binds one and all its pusher workers share it).
type Push struct {
	sock zmq4.Socket
}

// NewPush creates an unbound PUSH socket.
func NewPush(ctx context.Context) *Push {
	return &Push{sock: zmq4.NewPush(ctx)}
}

func (p *Push) Bind(addr string) error {
	if err := p.sock.Listen(addr); err != nil {
		return fmt.Errorf("zmqtransport: push bind %s: %w", addr, err)
	}
	return nil
}

func (p *Push) Send(ctx context.Context, payload []byte) error {
	if err := p.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return fmt.Errorf("zmqtransport: push send: %w", err)
	}
	return nil
}

func (p *Push) Close() error {
	return p.sock.Close()
}
