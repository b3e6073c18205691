// Package testing provides test utilities for the my-flux library.
//
// It offers helpers for setting up test environments, particularly an
// embedded NATS server with JetStream for exercising the bridge publisher
// end to end without external processes. It follows Go's convention of a
// dedicated testing package, similar to net/http/httptest.
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server with JetStream
//   - CreateStream: Convenience wrapper for stream creation
//   - PublishMessages: Seed a subject with test payloads
//   - NewTestLogger: types.Logger writing through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    fluxtest "github.com/dquaner/my-flux/testing"
//	)
//
//	func TestBridge(t *testing.T) {
//	    _, nc := fluxtest.StartEmbeddedNATS(t)
//	    fluxtest.CreateStream(t, nc, "EVENTS", "events.>")
//	    // ...
//	}
package testing
