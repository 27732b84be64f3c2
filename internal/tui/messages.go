package tui

import (
	"time"

	"github.com/agbru/stockbot/internal/orchestration"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/sysmon"
)

// StatusMsg carries a status transition into the event loop.
type StatusMsg struct {
	Snapshot status.Snapshot
}

// submittedMsg reports the result of a Submit issued for generation.
type submittedMsg struct {
	generation uint64
	run        *orchestration.Run
	err        error
}

// settledMsg reports that the run of generation has settled.
type settledMsg struct {
	generation uint64
	outcome    orchestration.Outcome
	elapsed    time.Duration
}

// hostStatsMsg carries a host usage sample.
type hostStatsMsg struct {
	stats sysmon.Stats
}
