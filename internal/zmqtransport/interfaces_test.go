package zmqtransport

import "github.com/declanomara/tidepool/internal/ports"

var (
	_ ports.Pusher     = (*Push)(nil)
	_ ports.Puller     = (*Pull)(nil)
	_ ports.Publisher  = (*Pub)(nil)
	_ ports.Subscriber = (*Sub)(nil)
)
