package pipemsg

import "fmt"

// State is the connection lifecycle position of an Endpoint.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

type event string

const (
	eventDial        event = "dial"
	eventEstablished event = "established"
	eventDialFailed  event = "dial-failed"
	eventDisconnect  event = "disconnect"
)

func transition(current State, ev event) (State, error) {
	if ev == eventDisconnect {
		return StateDisconnected, nil
	}

	switch current {
	case StateDisconnected:
		switch ev {
		case eventDial:
			return StateConnecting, nil
		default:
			return current, invalidTransition(current, ev)
		}
	case StateConnecting:
		switch ev {
		case eventEstablished:
			return StateConnected, nil
		case eventDialFailed:
			return StateDisconnected, nil
		default:
			return current, invalidTransition(current, ev)
		}
	case StateConnected:
		return current, invalidTransition(current, ev)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, ev event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, ev)
}
