package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// TimeOrdered returns UUIDv7 identifiers. The leading 48 bits carry the
// creation time in unix milliseconds, so ids sort by creation.
type TimeOrdered struct {
	Prefix string
}

func (g TimeOrdered) New() string {
	v, err := uuid.NewV7()
	if err != nil {
		return g.Prefix + uuid.NewString()
	}
	return g.Prefix + v.String()
}
