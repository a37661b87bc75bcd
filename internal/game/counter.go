package game

import (
	"encoding/json"
	"sync"
)

// Counter is a bounded integer stat such as health or mana. The maximum is not
// stored on the counter; it is derived from level and passed on every call so
// a level change takes effect immediately.
type Counter struct {
	mu    sync.Mutex
	value int
}

// NewCounter creates a counter holding v (negative values are stored as 0).
func NewCounter(v int) *Counter {
	return &Counter{value: max(v, 0)}
}

// Get returns the current value, clamped to limit. A stored value above limit
// happens when the limit shrinks (e.g. on a level-down) and is not rewritten.
func (c *Counter) Get(limit int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(limit)
}

// Set stores v clamped to [0, limit].
func (c *Counter) Set(limit, v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = clamp(v, 0, max(limit, 0))
}

// Add increases the value by amount without exceeding limit.
func (c *Counter) Add(limit, amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(limit, amount)
	return nil
}

// AddPercentOfMax increases the value by pct percent of limit.
func (c *Counter) AddPercentOfMax(limit, pct int) error {
	if pct < 0 {
		return ErrNegativeAmount
	}
	return c.Add(limit, percentOf(max(limit, 0), pct))
}

// AddPercentOfCurrent increases the value by pct percent of the value held
// before the call.
func (c *Counter) AddPercentOfCurrent(limit, pct int) error {
	if pct < 0 {
		return ErrNegativeAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(limit, percentOf(c.current(limit), pct))
	return nil
}

// Remove decreases the value by amount. If the result would fall below 1 the
// counter is set to 0 and ErrDepleted is returned.
func (c *Counter) Remove(limit, amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(limit, amount)
}

// RemovePercentOfMax decreases the value by pct percent of limit.
func (c *Counter) RemovePercentOfMax(limit, pct int) error {
	if pct < 0 {
		return ErrNegativeAmount
	}
	return c.Remove(limit, percentOf(max(limit, 0), pct))
}

// RemovePercentOfCurrent decreases the value by pct percent of the value held
// before the call.
func (c *Counter) RemovePercentOfCurrent(limit, pct int) error {
	if pct < 0 {
		return ErrNegativeAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(limit, percentOf(c.current(limit), pct))
}

func (c *Counter) current(limit int) int {
	return clamp(c.value, 0, max(limit, 0))
}

func (c *Counter) add(limit, amount int) {
	limit = max(limit, 0)
	cur := c.current(limit)
	c.value = cur + min(amount, limit-cur)
}

func (c *Counter) remove(limit, amount int) error {
	next := c.current(limit) - amount
	if next < 1 {
		c.value = 0
		return ErrDepleted
	}
	c.value = next
	return nil
}

func (c *Counter) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.Marshal(c.value)
}

func (c *Counter) UnmarshalJSON(b []byte) error {
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = max(v, 0)
	return nil
}

func percentOf(n, pct int) int {
	return n * pct / 100
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
