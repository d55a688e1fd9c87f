// Package selection holds the cross-screen selection set and the active
// bulk-action descriptor. Exactly one screen owns the pair at a time; every
// mutating call carries the caller's owner token so a late unmount cleanup
// cannot clobber a successor screen's state.
package selection

import (
	"sync"

	"github.com/google/uuid"
)

// Item is one selected record, carried to the bulk-action handler.
type Item struct {
	ID     string
	Record any
}

// Action is the bulk-action descriptor a screen contributes while mounted.
type Action struct {
	Label   string
	Handler func(selected []Item)
}

// Registry is the injectable selection/bulk-action store. The zero value is
// not usable; construct with NewRegistry.
type Registry struct {
	mu          sync.Mutex
	owner       string
	ids         map[string]Item
	order       []string // selection order, for stable handler input
	action      Action
	actionOwner string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]Item)}
}

// NewOwnerToken mints a token a screen holds for its mounted lifetime.
func NewOwnerToken() string { return uuid.NewString() }

// Activate makes owner the selection owner. A change of owner drops the
// previous screen's selection; reactivating the same owner is a no-op.
func (r *Registry) Activate(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner == owner {
		return
	}
	r.owner = owner
	r.ids = make(map[string]Item)
	r.order = nil
}

// Toggle flips id in or out of the selection. Calls from a non-owning screen
// are ignored.
func (r *Registry) Toggle(owner, id string, record any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != owner {
		return
	}
	if _, ok := r.ids[id]; ok {
		delete(r.ids, id)
		for i, existing := range r.order {
			if existing == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		return
	}
	r.ids[id] = Item{ID: id, Record: record}
	r.order = append(r.order, id)
}

// ClearSelection empties the selection if owner owns it.
func (r *Registry) ClearSelection(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != owner {
		return
	}
	r.ids = make(map[string]Item)
	r.order = nil
}

// Prune drops selected ids absent from the latest snapshot. Records for
// surviving ids are refreshed from the snapshot so the handler never sees a
// superseded record.
func (r *Registry) Prune(alive map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.order[:0]
	for _, id := range r.order {
		record, ok := alive[id]
		if !ok {
			delete(r.ids, id)
			continue
		}
		r.ids[id] = Item{ID: id, Record: record}
		kept = append(kept, id)
	}
	r.order = kept
}

// IsSelected reports whether id is in the selection.
func (r *Registry) IsSelected(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[id]
	return ok
}

// Count returns the selection size.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

// Selected returns the selected items in selection order.
func (r *Registry) Selected() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.ids[id])
	}
	return out
}

// InstallAction replaces the active bulk-action descriptor. The swap is
// atomic: there is never a moment with two descriptors active.
func (r *Registry) InstallAction(owner string, a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.action = a
	r.actionOwner = owner
}

// ClearAction removes the descriptor only when owner still owns it, so an
// unmounting screen's deferred cleanup cannot clear a newly mounted screen's
// action.
func (r *Registry) ClearAction(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.actionOwner != owner {
		return
	}
	r.action = Action{}
	r.actionOwner = ""
}

// ActiveAction returns the current descriptor, if any.
func (r *Registry) ActiveAction() (Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.action, r.actionOwner != ""
}

// Invoke calls the active handler with the current selection. The handler
// runs even when nothing is selected; an empty selection is the screen's
// call, not an engine error. Returns false when no action is installed.
func (r *Registry) Invoke() bool {
	r.mu.Lock()
	action := r.action
	installed := r.actionOwner != ""
	items := make([]Item, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.ids[id])
	}
	r.mu.Unlock()

	if !installed || action.Handler == nil {
		return false
	}
	action.Handler(items)
	return true
}
