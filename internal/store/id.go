package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered identifier. Ids from consecutive calls sort in
// creation order and never repeat, even within the same millisecond.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.NewString())
	}
	return id.String()
}
