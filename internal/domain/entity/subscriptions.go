package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Subscriptions holds the named opt-in flags for a contact.
// Stored as a jsonb column so new subscription types can be added
// without a schema migration.
type Subscriptions struct {
	Newsletter bool `json:"newsletter"`
	Events     bool `json:"events"`
	Blkouthub  bool `json:"blkouthub"`
	Volunteer  bool `json:"volunteer"`
}

// Merge returns the union of the receiver and other. A flag that is
// already true is never cleared by a later signup.
func (s Subscriptions) Merge(other Subscriptions) Subscriptions {
	return Subscriptions{
		Newsletter: s.Newsletter || other.Newsletter,
		Events:     s.Events || other.Events,
		Blkouthub:  s.Blkouthub || other.Blkouthub,
		Volunteer:  s.Volunteer || other.Volunteer,
	}
}

// None reports whether no subscription flag is set.
func (s Subscriptions) None() bool {
	return !s.Newsletter && !s.Events && !s.Blkouthub && !s.Volunteer
}

// Value implements driver.Valuer for the jsonb column.
func (s Subscriptions) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the jsonb column.
func (s *Subscriptions) Scan(value interface{}) error {
	if value == nil {
		*s = Subscriptions{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into Subscriptions", value)
	}
}
