package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/reelspin/reel"
)

// Round is the record of one completed spin
type Round struct {
	ID            uuid.UUID
	Number        int
	Symbols       []string
	Payout        Payout
	Price         int
	Win           int
	BalanceBefore int
	BalanceAfter  int
	Stop          reel.StopKind
	CompletedAt   time.Time
}

// Net returns the balance change over the round
func (r Round) Net() int {
	return r.BalanceAfter - r.BalanceBefore
}
