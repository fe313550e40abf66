package uid

import "github.com/google/uuid"

// UUID produces time-ordered (v7) identifiers, used for correlation ids and
// token ids.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate falls back to a random v4 when a v7 cannot be produced.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}

	return uuid.NewString()
}
