package core

import (
	"fmt"
	"sync"
)

// Identifiers hands out small reusable numeric IDs. Released slots are
// reused before the table grows.
type Identifiers struct {
	mu     sync.Mutex
	owners []interface{}
}

var defaultIdentifiers = &Identifiers{}

func NewIdentifiers(capacity int) *Identifiers {
	return &Identifiers{owners: make([]interface{}, 0, capacity)}
}

// Acquire returns the first free ID and assigns it to owner.
func (ids *Identifiers) Acquire(owner interface{}) uint32 {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	for i, o := range ids.owners {
		// Existing free spot. Take it.
		if o == nil {
			ids.owners[i] = owner
			return uint32(i)
		}
	}

	ids.owners = append(ids.owners, owner)
	return uint32(len(ids.owners) - 1)
}

// Release frees the ID so it can be handed out again.
func (ids *Identifiers) Release(id uint32) error {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	if len(ids.owners) == 0 {
		return fmt.Errorf("identifier release called before any id was acquired. Nothing was done")
	}
	if int(id) >= len(ids.owners) {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, len(ids.owners)-1)
	}
	ids.owners[id] = nil
	return nil
}

// Owner returns the owner of id, or nil when the slot is free.
func (ids *Identifiers) Owner(id uint32) interface{} {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	if int(id) >= len(ids.owners) {
		return nil
	}
	return ids.owners[id]
}

func IdentifierAcquireNewID(owner interface{}) uint32 {
	return defaultIdentifiers.Acquire(owner)
}

func IdentifierReleaseID(id uint32) error {
	return defaultIdentifiers.Release(id)
}
