package store

// Entity identifies which table a change touched.
type Entity string

const (
	// EntityEvent marks changes to cached event rows.
	EntityEvent Entity = "event"
	// EntityContact marks changes to contact rows.
	EntityContact Entity = "contact"
)

// Op identifies the kind of mutation.
type Op string

const (
	OpInsert  Op = "insert"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpReplace Op = "replace" // bulk replace of an owner's cached events
)

// Change describes a single committed mutation of the local store.
// Live query subscriptions use it to decide whether to re-emit a snapshot.
type Change struct {
	Entity   Entity `json:"entity"`
	Op       Op     `json:"op"`
	OwnerID  string `json:"owner_id,omitempty"`  // set for event changes
	EventKey int64  `json:"event_key,omitempty"` // set for contact changes
}

// ChangeEmitter receives change notifications after each committed write.
// Implementations must not block; the store calls Emit on the write path.
type ChangeEmitter interface {
	Emit(change Change)
}

// NoopEmitter is a no-op implementation of ChangeEmitter for testing.
type NoopEmitter struct{}

func (NoopEmitter) Emit(_ Change) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() ChangeEmitter { return NoopEmitter{} }
