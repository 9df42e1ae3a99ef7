package scheduler

import "time"

// Callback is a unit of scheduled work. didTimeout reports whether the task
// had already expired when it started. Returning a non-nil Callback
// re-queues the same task with the continuation.
type Callback func(didTimeout bool) Callback

// Task is a scheduled callback. It is linked into at most one ring at a time.
type Task struct {
	callback       Callback
	priority       Priority
	startTime      time.Time
	expirationTime time.Time

	next, previous *Task
	ring           *taskRing
	cancelled      bool
}

// Priority returns the priority the task was scheduled with.
func (t *Task) Priority() Priority { return t.priority }

// StartTime returns when the task becomes eligible to run.
func (t *Task) StartTime() time.Time { return t.startTime }

// ExpirationTime returns when the task is considered late.
func (t *Task) ExpirationTime() time.Time { return t.expirationTime }

// Cancelled reports whether CancelCallback was called for the task.
func (t *Task) Cancelled() bool { return t.cancelled }

// taskRing is a sorted circular doubly linked list. head holds the minimum.
type taskRing struct {
	head *Task
	key  func(*Task) time.Time
}

func newStartTimeRing() taskRing {
	return taskRing{key: func(t *Task) time.Time { return t.startTime }}
}

func newExpirationRing() taskRing {
	return taskRing{key: func(t *Task) time.Time { return t.expirationTime }}
}

// insert links t in sort order. Ties go after existing tasks unless
// beforeEqual is set, which lets a continuation keep its place.
func (r *taskRing) insert(t *Task, beforeEqual bool) {
	t.ring = r
	if r.head == nil {
		t.next, t.previous = t, t
		r.head = t
		return
	}

	sortKey := r.key(t)
	var next *Task
	node := r.head
	for {
		k := r.key(node)
		if sortKey.Before(k) || (beforeEqual && sortKey.Equal(k)) {
			next = node
			break
		}
		node = node.next
		if node == r.head {
			break
		}
	}

	if next == nil {
		// Largest key: the slot before head is the tail.
		next = r.head
	} else if next == r.head {
		r.head = t
	}

	previous := next.previous
	previous.next = t
	next.previous = t
	t.previous = previous
	t.next = next
}

// remove unlinks t. It reports false when t is not in this ring.
func (r *taskRing) remove(t *Task) bool {
	if t.ring != r || t.next == nil {
		return false
	}
	if t.next == t {
		r.head = nil
	} else {
		if t == r.head {
			r.head = t.next
		}
		t.previous.next = t.next
		t.next.previous = t.previous
	}
	t.next, t.previous, t.ring = nil, nil, nil
	return true
}

func (r *taskRing) peek() *Task {
	return r.head
}

func (r *taskRing) pop() *Task {
	t := r.head
	if t != nil {
		r.remove(t)
	}
	return t
}

func (r *taskRing) len() int {
	if r.head == nil {
		return 0
	}
	n := 1
	for t := r.head.next; t != r.head; t = t.next {
		n++
	}
	return n
}
