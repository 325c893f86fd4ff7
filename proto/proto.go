package proto

// Handle identifies one outstanding asynchronous request.
//
// Handles are chosen by the guest and only need to be unique among requests
// that are still pending.
type Handle int32

// Kind identifies the request type carried by a RequestType.
type Kind uint8

const (
	KindGetEvent Kind = iota + 1
	KindSleep
	KindPlaySound
	KindKeyA
	KindAfter
	KindAt
)

func (k Kind) String() string {
	switch k {
	case KindGetEvent:
		return "getevent"
	case KindSleep:
		return "sleep"
	case KindPlaySound:
		return "playsound"
	case KindKeyA:
		return "keya"
	case KindAfter:
		return "after"
	case KindAt:
		return "at"
	default:
		return "unknown"
	}
}

// Kinds lists every request kind a session is expected to serve.
var Kinds = []Kind{KindGetEvent, KindSleep, KindPlaySound, KindKeyA, KindAfter, KindAt}
