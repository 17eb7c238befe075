// Package events provides a small post-commit hook registry. Repositories
// fire an event after a mutation commits; reactors (the notifier) subscribe
// per entity type. Hooks run synchronously on the request goroutine and any
// failure inside a hook stays inside the hook: the committed write is never
// affected.
package events

// EntityType identifies which kind of record was mutated.
type EntityType string

const (
	EntityProject EntityType = "project"
	EntityTask    EntityType = "task"
	EntityComment EntityType = "comment"
)

// HookFunc receives the committed entity and whether the commit created it
// (as opposed to updating an existing record). The entity is the fully
// loaded model (*models.Project, *models.Task or *models.Comment).
type HookFunc func(entity any, created bool)

// Hub holds registered hooks. Register everything during startup; Fire is
// safe for concurrent use only once registration has finished.
type Hub struct {
	hooks map[EntityType][]HookFunc
}

func NewHub() *Hub {
	return &Hub{hooks: make(map[EntityType][]HookFunc)}
}

// Register appends a hook for the given entity type.
func (h *Hub) Register(entityType EntityType, fn HookFunc) {
	h.hooks[entityType] = append(h.hooks[entityType], fn)
}

// Fire invokes every hook registered for the entity type, in registration
// order. A nil Hub is a no-op so repositories can run without wiring.
func (h *Hub) Fire(entityType EntityType, entity any, created bool) {
	if h == nil {
		return
	}
	for _, fn := range h.hooks[entityType] {
		fn(entity, created)
	}
}
