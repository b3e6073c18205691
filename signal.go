package flux

// SignalType names the reactive-streams signals of a subscription lifecycle.
// It is handed to the Finally hook so the hook can tell which terminal event
// (cancel, onError, onComplete) ended the sequence.
type SignalType int

const (
	// SignalOnSubscribe is the initial handshake signal.
	SignalOnSubscribe SignalType = iota

	// SignalRequest is a demand signal from consumer to producer.
	SignalRequest

	// SignalCancel is the consumer-initiated terminal event.
	SignalCancel

	// SignalOnNext is a value delivery signal.
	SignalOnNext

	// SignalOnError is the failure terminal event.
	SignalOnError

	// SignalOnComplete is the successful terminal event.
	SignalOnComplete
)

// String returns the protocol name of the signal.
func (s SignalType) String() string {
	switch s {
	case SignalOnSubscribe:
		return "onSubscribe"
	case SignalRequest:
		return "request"
	case SignalCancel:
		return "cancel"
	case SignalOnNext:
		return "onNext"
	case SignalOnError:
		return "onError"
	case SignalOnComplete:
		return "onComplete"
	default:
		return "unknown"
	}
}
