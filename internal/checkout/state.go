package checkout

type State uint8

const (
	StateIdle State = iota
	StateValidating
	StateDecrementingStock
	StatePersisting
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateValidating:
		return "VALIDATING"
	case StateDecrementingStock:
		return "DECREMENTING_STOCK"
	case StatePersisting:
		return "PERSISTING"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}
