package domain

// Change describes a mutation applied to a record during a transaction.
// Before is nil for creates and After is nil for deletes. Fields lists the
// patch keys present on updates and is empty otherwise.
type Change struct {
	Entity EntityType
	Action Action
	ID     string
	Fields []string
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions.
const (
	// ActionCreate indicates a record was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates a record was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// HasField reports whether the change carried any of the named fields.
func (c Change) HasField(names ...string) bool {
	for _, f := range c.Fields {
		for _, n := range names {
			if f == n {
				return true
			}
		}
	}
	return false
}

// Result summarises a committed transaction: the changes applied and the
// notifications the policy synthesised from them.
type Result struct {
	Changes       []Change
	Notifications []NotificationItem
}

// Merge folds other into r.
func (r *Result) Merge(other Result) {
	r.Changes = append(r.Changes, other.Changes...)
	r.Notifications = append(r.Notifications, other.Notifications...)
}

// Empty reports whether nothing changed.
func (r Result) Empty() bool {
	return len(r.Changes) == 0 && len(r.Notifications) == 0
}
