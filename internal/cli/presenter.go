package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/ui"
)

// StatusPresenter renders status transitions for line-oriented output. It
// shows a spinner while a request is Loading and prints notices once.
type StatusPresenter struct {
	out   io.Writer
	quiet bool

	mu         sync.Mutex
	spinner    Spinner
	spinning   bool
	lastNotice string
}

// Verify that StatusPresenter is a status observer.
var _ status.Observer = (*StatusPresenter)(nil)

// NewStatusPresenter creates a presenter writing to out. In quiet mode it
// shows neither spinner nor notices.
func NewStatusPresenter(out io.Writer, quiet bool) *StatusPresenter {
	return &StatusPresenter{out: out, quiet: quiet, spinner: newSpinner(out)}
}

// OnStatus implements status.Observer. It never blocks, since it runs on the
// goroutine that made the transition.
func (p *StatusPresenter) OnStatus(s status.Snapshot) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.Status == status.Loading {
		suffix := " " + s.Toast
		if s.Toast == "" {
			suffix = " Waiting for the back end..."
		}
		p.spinner.UpdateSuffix(suffix)
		if !p.spinning {
			p.spinner.Start()
			p.spinning = true
		}
	} else if p.spinning {
		p.spinner.Stop()
		p.spinning = false
	}

	if s.Notice != "" && s.Notice != p.lastNotice {
		fmt.Fprintf(p.out, "%s! %s%s\n", ui.ColorYellow(), s.Notice, ui.ColorReset())
	}
	p.lastNotice = s.Notice
}

// Close stops the spinner if it is still running.
func (p *StatusPresenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinning {
		p.spinner.Stop()
		p.spinning = false
	}
}
