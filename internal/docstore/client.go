// Package docstore wraps the document store (§6: database "tidepool")
// behind ports.DocumentStore.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// serverSelectionTimeout matches §5's "1 s server-selection timeout on the
// document store".
const serverSelectionTimeout = time.Second

const databaseName = "tidepool"

// Client implements ports.DocumentStore over the official MongoDB driver.
// Each recorder worker (§4.5 Stage S4) owns one Client for its lifetime.
type Client struct {
	mongo *mongo.Client
	db    *mongo.Database
}

// Dial connects to host:port, optionally authenticating with user/pass
// (either may be empty, matching the optional dbUser/dbPass config
// fields).
func Dial(ctx context.Context, host string, port int, user, pass string) (*Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%d", host, port)
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(serverSelectionTimeout)
	if user != "" {
		opts = opts.SetAuth(options.Credential{Username: user, Password: pass})
	}

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("docstore: connect %s: %w", uri, err)
	}
	return &Client{mongo: mc, db: mc.Database(databaseName)}, nil
}

// InsertOne inserts doc into the named collection.
func (c *Client) InsertOne(ctx context.Context, collection string, doc any) error {
	_, err := c.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("docstore: insert into %s: %w", collection, err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.mongo.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("docstore: ping: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	if err := c.mongo.Disconnect(ctx); err != nil {
		return fmt.Errorf("docstore: disconnect: %w", err)
	}
	return nil
}
