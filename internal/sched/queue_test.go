package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceFiresInDueOrder(t *testing.T) {
	q := NewQueue()
	var got []string
	q.After(30*time.Millisecond, func() { got = append(got, "c") })
	q.After(10*time.Millisecond, func() { got = append(got, "a") })
	q.After(20*time.Millisecond, func() { got = append(got, "b") })

	assert.Equal(t, 0, q.Advance(5*time.Millisecond))
	assert.Equal(t, 2, q.Advance(15*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 20*time.Millisecond, q.Now())

	q.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestTiesFireInSchedulingOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.After(time.Second, func() { got = append(got, i) })
	}
	q.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestCancelledTaskDoesNotFire(t *testing.T) {
	q := NewQueue()
	ran := false
	task := q.After(time.Millisecond, func() { ran = true })
	assert.Equal(t, 1, q.Pending())
	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel())
	assert.Equal(t, 0, q.Pending())

	q.Advance(time.Second)
	assert.False(t, ran)
	assert.False(t, task.Fired())
	assert.True(t, task.Cancelled())
}

func TestCancelAfterFireIsNoop(t *testing.T) {
	q := NewQueue()
	task := q.After(0, func() {})
	q.Advance(0)
	assert.True(t, task.Fired())
	assert.False(t, task.Cancel())
}

func TestCallbackSeesItsDueTime(t *testing.T) {
	q := NewQueue()
	var seen time.Duration
	q.After(40*time.Millisecond, func() { seen = q.Now() })
	q.Advance(100 * time.Millisecond)
	assert.Equal(t, 40*time.Millisecond, seen)
	assert.Equal(t, 100*time.Millisecond, q.Now())
}

func TestNestedSchedulingWithinWindow(t *testing.T) {
	q := NewQueue()
	var got []string
	q.After(10*time.Millisecond, func() {
		got = append(got, "outer")
		q.After(10*time.Millisecond, func() { got = append(got, "inner") })
	})
	q.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestClear(t *testing.T) {
	q := NewQueue()
	task := q.After(time.Millisecond, func() { t.Fatal("cleared task fired") })
	q.Clear()
	q.Advance(time.Second)
	assert.True(t, task.Cancelled())
}
