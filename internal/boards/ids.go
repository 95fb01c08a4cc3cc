package boards

import (
	"github.com/google/uuid"
)

// IDGenerator produces candidate ids for new boards and contacts.
type IDGenerator interface {
	New() string
}

// TimeOrderedIDs produces UUIDv7 strings. They sort by creation time and
// stay distinct when several are generated within the same millisecond.
type TimeOrderedIDs struct{}

func (TimeOrderedIDs) New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does
		return uuid.NewString()
	}
	return id.String()
}

// uniqueID draws from gen until the id is not taken.
func uniqueID(gen IDGenerator, taken func(string) bool) string {
	for {
		id := gen.New()
		if id != "" && !taken(id) {
			return id
		}
	}
}
