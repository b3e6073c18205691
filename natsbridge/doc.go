// Package natsbridge adapts a NATS JetStream pull consumer to the
// Publisher/Subscriber protocol of this module.
//
// The bridge maps subscriber demand directly onto the broker's pull
// protocol: every Request(n) raises an internal demand counter, and the
// delivery loop fetches at most min(demand, batch size) messages per pull.
// Backpressure therefore propagates all the way to the JetStream server
// instead of being absorbed by a local buffer.
//
// Messages are acknowledged after delivery. An optional deduplication
// window skips (and acks) redelivered messages whose subject and payload
// hash was seen recently.
package natsbridge
