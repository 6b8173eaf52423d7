package zmqtransport

import (
	"context"
	"fmt"

	"github.com/go-zeromq/zmq4"
)

// Sub implements ports.Subscriber over a ZMQ SUB socket. Salus opens one
// per monitored collector, subscribed with an empty-topic filter so every
// message (there is only ever one topic) is received.
type Sub struct {
	sock zmq4.Socket
}

// NewSub creates an unconnected SUB socket.
func NewSub(ctx context.Context) *Sub {
	return &Sub{sock: zmq4.NewSub(ctx)}
}

func (s *Sub) Connect(addr string) error {
	if err := s.sock.Dial(addr); err != nil {
		return fmt.Errorf("zmqtransport: sub connect %s: %w", addr, err)
	}
	return nil
}

func (s *Sub) SetFilter(topic string) error {
	if err := s.sock.SetOption(zmq4.OptionSubscribe, topic); err != nil {
		return fmt.Errorf("zmqtransport: sub filter %q: %w", topic, err)
	}
	return nil
}

func (s *Sub) Recv(ctx context.Context) ([]byte, error) {
	msg, err := s.sock.Recv()
	if err != nil {
		return nil, fmt.Errorf("zmqtransport: sub recv: %w", err)
	}
	return msg.Bytes(), nil
}

func (s *Sub) Close() error {
	return s.sock.Close()
}
