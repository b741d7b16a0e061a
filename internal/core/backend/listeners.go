package backend

import (
	"slices"

	"github.com/google/uuid"
)

// ListenerID identifies a registered callback.
type ListenerID uuid.UUID

func (id ListenerID) String() string { return uuid.UUID(id).String() }

type listener struct {
	id ListenerID
	fn func()
}

// listeners is an ordered callback list. Removing an unknown id is a no-op.
type listeners struct {
	items []listener
}

func (l *listeners) add(fn func()) ListenerID {
	id := ListenerID(uuid.New())
	if fn == nil {
		return id
	}
	l.items = append(l.items, listener{id: id, fn: fn})
	return id
}

func (l *listeners) remove(id ListenerID) bool {
	i := slices.IndexFunc(l.items, func(it listener) bool { return it.id == id })
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

// fire calls every listener registered at the time of the call. Listeners
// may add or remove listeners while being called.
func (l *listeners) fire() {
	for _, it := range slices.Clone(l.items) {
		it.fn()
	}
}

func (l *listeners) len() int { return len(l.items) }
