package handler

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/andikahilman/studentbook/internal/utils"
)

// Operation names one of the seven route targets. The set is fixed; routes
// are always registered for all of them and degrade individually when a
// handler is missing.
type Operation string

const (
	OpList     Operation = "list"
	OpGetByID  Operation = "getById"
	OpAddForm  Operation = "addForm"
	OpAdd      Operation = "add"
	OpEditForm Operation = "editForm"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

// Operations lists every expected operation in route-table order.
func Operations() []Operation {
	return []Operation{OpList, OpGetByID, OpAddForm, OpAdd, OpEditForm, OpUpdate, OpDelete}
}

// Registry maps operations to their handlers. Slots may be empty: the route
// stays registered and answers 500 naming the operation, so one missing
// handler degrades one route instead of preventing startup.
type Registry struct {
	mu     sync.RWMutex
	slots  map[Operation]fiber.Handler
	logger zerolog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		slots:  make(map[Operation]fiber.Handler, len(Operations())),
		logger: logger.With().Str("component", "handler_registry").Logger(),
	}
}

// Bind assigns (or replaces) the handler for an operation. A nil handler
// clears the slot.
func (r *Registry) Bind(op Operation, h fiber.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		delete(r.slots, op)
		return
	}
	r.slots[op] = h
}

// Missing returns the operations that have no handler bound.
func (r *Registry) Missing() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []Operation
	for _, op := range Operations() {
		if _, ok := r.slots[op]; !ok {
			missing = append(missing, op)
		}
	}
	return missing
}

// WarnMissing logs a startup warning for each unbound operation. Startup
// proceeds regardless.
func (r *Registry) WarnMissing() {
	for _, op := range r.Missing() {
		r.logger.Warn().Str("operation", string(op)).Msg("no handler bound for operation")
	}
}

// Resolve returns the route handler for an operation. The lookup happens per
// request, not at registration, so rebinding is observable on the next
// request. A panic inside the handler is recovered into the central error
// responder; an empty slot answers 500 naming the operation.
func (r *Registry) Resolve(op Operation) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		r.mu.RLock()
		h, ok := r.slots[op]
		r.mu.RUnlock()

		if !ok {
			r.logger.Warn().Str("operation", string(op)).Msg("missing handler for operation")
			return utils.MissingHandler(c, string(op))
		}

		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error().Str("operation", string(op)).Interface("panic", rec).Msg("handler panicked")
				err = utils.Internal(c)
			}
		}()

		return h(c)
	}
}
