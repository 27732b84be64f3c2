package status

import (
	"sync"
	"time"

	"github.com/agbru/stockbot/internal/prediction"
)

// DefaultToastDuration is how long Loading and Success toasts stay visible.
const DefaultToastDuration = 3 * time.Second

// Controller is the status/notification state machine. The zero value is
// not usable; use NewController.
//
// Loading and Success carry a toast that expires after the toast duration,
// and Success then returns to Idle. Error is a blocking notification: it has
// no timer and stays until Dismiss or the next BeginRequest.
type Controller struct {
	toastDuration time.Duration

	mu        sync.Mutex
	state     Snapshot
	timer     *time.Timer
	armedSeq  uint64
	observers map[int]Observer
	nextObsID int
	pending   []Snapshot

	deliverMu sync.Mutex
}

// NewController creates a Controller in the Idle state. A non-positive
// toastDuration selects DefaultToastDuration.
func NewController(toastDuration time.Duration) *Controller {
	if toastDuration <= 0 {
		toastDuration = DefaultToastDuration
	}
	return &Controller{
		toastDuration: toastDuration,
		observers:     make(map[int]Observer),
	}
}

// Subscribe registers o and returns a function that removes it. The current
// snapshot is not replayed; call Snapshot for it.
func (c *Controller) Subscribe(o Observer) (cancel func()) {
	c.mu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = o
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the request currently in charge of the status.
func (c *Controller) Current() prediction.RequestID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RequestID
}

// BeginRequest makes id current, clears any error and notice, and moves to
// Loading with a transient toast.
func (c *Controller) BeginRequest(id prediction.RequestID) {
	c.update(func(s *Snapshot) bool {
		s.RequestID = id
		s.Status = Loading
		s.Error = nil
		s.Blocking = false
		s.Notice = ""
		s.Toast = ToastLoading
		return true
	}, timerToast)
}

// Succeed moves id's workflow to Success. It is ignored unless id is current.
// An Error or Success already raised for id is kept. A Dismiss while id was
// Loading does not prevent it. Success returns to Idle when the toast expires.
func (c *Controller) Succeed(id prediction.RequestID) bool {
	return c.update(func(s *Snapshot) bool {
		if s.RequestID != id || s.Status == Error || s.Status == Success {
			return false
		}
		s.Status = Success
		s.Toast = ToastSuccess
		return true
	}, timerIdle)
}

// Fail moves id's workflow to Error and raises the blocking notification.
// It is ignored unless id is current.
func (c *Controller) Fail(id prediction.RequestID, step, message string) bool {
	return c.update(func(s *Snapshot) bool {
		if s.RequestID != id {
			return false
		}
		setError(s, step, message)
		return true
	}, timerNone)
}

// Reject reports an error that happened before a request was accepted, such
// as a validation failure. The current request identity is kept.
func (c *Controller) Reject(step, message string) {
	c.update(func(s *Snapshot) bool {
		setError(s, step, message)
		return true
	}, timerNone)
}

// SetNotice attaches a non-fatal message to id. The status is unchanged.
func (c *Controller) SetNotice(id prediction.RequestID, notice string) bool {
	return c.update(func(s *Snapshot) bool {
		if s.RequestID != id || s.Notice == notice {
			return false
		}
		s.Notice = notice
		return true
	}, timerKeep)
}

// Dismiss returns to Idle and clears the error state and toast.
func (c *Controller) Dismiss() {
	c.update(func(s *Snapshot) bool {
		if s.Status == Idle && s.Error == nil && s.Toast == "" && !s.Blocking {
			return false
		}
		s.Status = Idle
		s.Error = nil
		s.Blocking = false
		s.Toast = ""
		return true
	}, timerNone)
}

func setError(s *Snapshot, step, message string) {
	s.Status = Error
	s.Error = &ErrorState{Message: message, Step: step}
	s.Blocking = true
	s.Toast = ""
}

type timerAction int

const (
	// timerNone stops any pending timer.
	timerNone timerAction = iota
	// timerKeep leaves a pending timer alone.
	timerKeep
	// timerToast clears the toast on expiry.
	timerToast
	// timerIdle clears the toast and returns to Idle on expiry.
	timerIdle
)

// update applies mutate under the lock and, when it reports a change,
// queues a snapshot and rearms the timer.
func (c *Controller) update(mutate func(*Snapshot) bool, action timerAction) bool {
	c.mu.Lock()
	if !mutate(&c.state) {
		c.mu.Unlock()
		return false
	}
	c.state.Seq++
	c.pending = append(c.pending, c.state)
	if action != timerKeep {
		if c.timer != nil {
			c.timer.Stop()
			c.timer = nil
			c.armedSeq = 0
		}
		if action == timerToast || action == timerIdle {
			seq := c.state.Seq
			c.armedSeq = seq
			c.timer = time.AfterFunc(c.toastDuration, func() { c.expire(seq, action) })
		}
	}
	c.mu.Unlock()
	c.flush()
	return true
}

// expire runs when a toast window ends. A timer that was stopped or
// replaced after it fired is ignored.
func (c *Controller) expire(seq uint64, action timerAction) {
	c.mu.Lock()
	if c.armedSeq != seq {
		c.mu.Unlock()
		return
	}
	c.armedSeq = 0
	c.timer = nil
	switch {
	case action == timerIdle && c.state.Status == Success:
		c.state.Status = Idle
		c.state.Toast = ""
	case action == timerToast && c.state.Toast == ToastLoading:
		c.state.Toast = ""
	default:
		c.mu.Unlock()
		return
	}
	c.state.Seq++
	c.pending = append(c.pending, c.state)
	c.mu.Unlock()
	c.flush()
}

// flush delivers pending snapshots in order. Only one goroutine delivers at
// a time. A nested call from inside an observer returns immediately and its
// snapshot is delivered by the outer loop.
func (c *Controller) flush() {
	for {
		if !c.deliverMu.TryLock() {
			return
		}
		c.drain()
		c.deliverMu.Unlock()

		c.mu.Lock()
		empty := len(c.pending) == 0
		c.mu.Unlock()
		if empty {
			return
		}
	}
}

func (c *Controller) drain() {
	for {
		c.mu.Lock()
		if len(c.pending) == 0 {
			c.mu.Unlock()
			return
		}
		snap := c.pending[0]
		c.pending = c.pending[1:]
		observers := make([]Observer, 0, len(c.observers))
		for _, o := range c.observers {
			observers = append(observers, o)
		}
		c.mu.Unlock()

		for _, o := range observers {
			o.OnStatus(snap)
		}
	}
}
