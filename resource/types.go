package resource

// Handle is an opaque reference to a live foreign array in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a handle lifecycle transition.
type EventType uint8

const (
	EventAcquired EventType = iota
	EventReleased
)

func (t EventType) String() string {
	switch t {
	case EventAcquired:
		return "acquired"
	case EventReleased:
		return "released"
	}
	return "unknown"
}

// Event represents a handle lifecycle event. TypeID carries the foreign
// class tag of the value.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism for handles.
type Backend interface {
	// Create stores a value and returns a handle.
	Create(typeID uint32, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Drop forgets a handle and returns its value so the caller can
	// destroy it. Returns (nil, false) if the handle is invalid.
	Drop(handle Handle) (any, bool)

	// Close releases all values held by the backend.
	Close() error
}

// Destroyer is implemented by values that own foreign memory. Foreign
// array handles satisfy it.
type Destroyer interface {
	Destroy()
}
