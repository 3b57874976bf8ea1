package memory

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh record id. Uniqueness only matters within one
// collection.
type IDGenerator func() string

const (
	shortIDLen      = 9
	shortIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ShortID returns a 9 character lower-case base36 token. It is not
// cryptographically random and collisions are not checked.
func ShortID() string {
	b := make([]byte, shortIDLen)
	for i := range b {
		b[i] = shortIDAlphabet[rand.IntN(len(shortIDAlphabet))]
	}
	return string(b)
}

// UUIDv7 returns a time-ordered UUID string.
func UUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ... which
// keeps test fixtures deterministic.
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// IDStrategy resolves a configured strategy name to a generator.
func IDStrategy(name string) (IDGenerator, error) {
	switch name {
	case "", "short":
		return ShortID, nil
	case "uuid":
		return UUIDv7, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", name)
	}
}
