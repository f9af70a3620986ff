package availability

import (
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
)

type Buffers struct {
	Before time.Duration
	After  time.Duration
}

// Catalog is a snapshot of the event type and workflow status reference
// data. Statuses are resolved to their StatusKind once, when the snapshot
// is built.
type Catalog struct {
	eventTypes map[uint]models.EventType
	statuses   map[uint]models.WorkflowStatus
	byKind     map[models.StatusKind]uint
	defaultID  uint
	maxBuffers Buffers
}

func NewCatalog(eventTypes []models.EventType, statuses []models.WorkflowStatus) *Catalog {
	c := &Catalog{
		eventTypes: make(map[uint]models.EventType, len(eventTypes)),
		statuses:   make(map[uint]models.WorkflowStatus, len(statuses)),
		byKind:     make(map[models.StatusKind]uint),
	}

	for _, et := range eventTypes {
		c.eventTypes[et.ID] = et
		if b := et.BufferBefore(); b > c.maxBuffers.Before {
			c.maxBuffers.Before = b
		}
		if a := et.BufferAfter(); a > c.maxBuffers.After {
			c.maxBuffers.After = a
		}
	}

	for _, st := range statuses {
		c.statuses[st.ID] = st
		if k := st.Kind(); k != models.StatusCustom {
			c.byKind[k] = st.ID
		}
		if st.IsDefault && c.defaultID == 0 {
			c.defaultID = st.ID
		}
	}

	return c
}

func (c *Catalog) EventType(id uint) (models.EventType, bool) {
	et, ok := c.eventTypes[id]
	return et, ok
}

// EventTypes returns the catalog's event types in no particular order.
func (c *Catalog) EventTypes() []models.EventType {
	out := make([]models.EventType, 0, len(c.eventTypes))
	for _, et := range c.eventTypes {
		out = append(out, et)
	}
	return out
}

// Buffers returns zero buffers for a nil or unknown event type.
func (c *Catalog) Buffers(eventTypeID *uint) Buffers {
	if eventTypeID == nil {
		return Buffers{}
	}
	et, ok := c.eventTypes[*eventTypeID]
	if !ok {
		return Buffers{}
	}
	return Buffers{Before: et.BufferBefore(), After: et.BufferAfter()}
}

// MaxBuffers is the largest before and after buffer across all event types.
func (c *Catalog) MaxBuffers() Buffers {
	return c.maxBuffers
}

func (c *Catalog) Status(id uint) (models.WorkflowStatus, bool) {
	st, ok := c.statuses[id]
	return st, ok
}

func (c *Catalog) StatusOfKind(k models.StatusKind) (models.WorkflowStatus, bool) {
	id, ok := c.byKind[k]
	if !ok {
		return models.WorkflowStatus{}, false
	}
	return c.statuses[id], true
}

func (c *Catalog) DefaultStatus() (models.WorkflowStatus, bool) {
	if c.defaultID == 0 {
		return models.WorkflowStatus{}, false
	}
	return c.statuses[c.defaultID], true
}

// Blocks reports whether bookings in the given status occupy their slot.
// Active statuses block, except pending; an unknown status does not.
func (c *Catalog) Blocks(statusID uint) bool {
	st, ok := c.statuses[statusID]
	if !ok || !st.IsActive {
		return false
	}
	return st.Kind() != models.StatusPending
}

// BlockingStatusIDs lists every status for which Blocks is true.
func (c *Catalog) BlockingStatusIDs() []uint {
	ids := make([]uint, 0, len(c.statuses))
	for id := range c.statuses {
		if c.Blocks(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
