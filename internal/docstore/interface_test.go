package docstore

import "github.com/declanomara/tidepool/internal/ports"

var _ ports.DocumentStore = (*Client)(nil)
