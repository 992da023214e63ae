package session

type State int

const (
	AwaitingInput State = iota
	Processing
	AutoContinue
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Processing:
		return "processing"
	case AutoContinue:
		return "auto_continue"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
