package tasklist

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	IDGeneratorCounter = "counter"
	IDGeneratorUUID    = "uuid"
)

type IDGenerator interface {
	NewID() string
}

// CounterGenerator hands out "1", "2", ... in order.
type CounterGenerator struct {
	next atomic.Int64
}

func NewCounterGenerator() *CounterGenerator {
	return &CounterGenerator{}
}

func (g *CounterGenerator) NewID() string {
	return strconv.FormatInt(g.next.Add(1), 10)
}

// UUIDGenerator produces time-ordered UUIDv7 ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func NewIDGenerator(kind string) (IDGenerator, error) {
	switch kind {
	case IDGeneratorCounter:
		return NewCounterGenerator(), nil
	case IDGeneratorUUID, "":
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIDGenerator, kind)
	}
}
