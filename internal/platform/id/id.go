package id

import (
	"fmt"

	"github.com/google/uuid"

	"flowmodoro/internal/platform/clock"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// Provisional builds timestamp-derived ids for records the server has not
// acknowledged yet. The uuid suffix keeps two records finalized within the
// same millisecond apart.
type Provisional struct {
	Clock clock.Clock
}

func (p Provisional) New() string {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return fmt.Sprintf("local-%d-%s", clk.Now().UnixMilli(), uuid.NewString()[:8])
}
