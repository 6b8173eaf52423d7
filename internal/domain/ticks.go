// Package domain contains the core data types exchanged between pipeline
// stages (§3).
package domain

import "time"

// RawTick is one line read verbatim from the upstream stream. It is opaque
// bytes until the validator or sink's processor parses it.
type RawTick struct {
	Bytes []byte
}

// String returns the tick as a string without copying semantics beyond the
// conversion itself.
func (r RawTick) String() string {
	return string(r.Bytes)
}

// FrameType names the two upstream envelope kinds the validator recognizes.
type FrameType string

const (
	FramePrice     FrameType = "PRICE"
	FrameHeartbeat FrameType = "HEARTBEAT"
)

// ValidatedTick is a RawTick that the validator has confirmed carries a
// recognized type and all required fields for that type. Its bytes are
// forwarded byte-identical to the sink.
type ValidatedTick struct {
	Type  FrameType
	Bytes []byte
}

// DerivedTick is produced by the sink's processor from a PRICE RawTick and
// written to the per-instrument collection named by Instrument.
type DerivedTick struct {
	Time       time.Time `json:"time" bson:"time"`
	Bid        string    `json:"bid" bson:"bid"`
	Ask        string    `json:"ask" bson:"ask"`
	Status     string    `json:"status" bson:"status"`
	Tradeable  bool      `json:"tradeable" bson:"tradeable"`
	Instrument string    `json:"instrument" bson:"instrument"`
}

// RawRecord wraps a RawTick with its ingest timestamp. It is always written
// to the "raw" collection.
type RawRecord struct {
	Time time.Time `json:"time" bson:"time"`
	Data string    `json:"data" bson:"data"`
}

// DBPacket is the transient envelope moving between the sink's processor,
// deduplicator, and recorder stages. Dest names the target collection; Data
// is the document to insert.
//
// Equality of two DBPackets is tested structurally by the deduplicator, so
// Data must hold comparable concrete values (RawRecord or DerivedTick), not
// pointers or maps.
type DBPacket struct {
	Dest string
	Data any
}
