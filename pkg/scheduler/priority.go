package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// Priority is a task priority level. Lower values are more urgent.
type Priority int

const (
	// ImmediatePriority tasks are already expired when scheduled.
	ImmediatePriority Priority = iota
	// UserBlockingPriority is for work responding to user input.
	UserBlockingPriority
	// NormalPriority is the default for render work.
	NormalPriority
	// LowPriority is for work that can wait.
	LowPriority
	// IdlePriority tasks effectively never expire.
	IdlePriority
)

// maxSigned31BitInt milliseconds is the idle timeout, large enough to never expire in practice.
const maxSigned31BitInt = 1<<30 - 1

var defaultTimeouts = [...]time.Duration{
	ImmediatePriority:    -time.Millisecond,
	UserBlockingPriority: 250 * time.Millisecond,
	NormalPriority:       5000 * time.Millisecond,
	LowPriority:          10000 * time.Millisecond,
	IdlePriority:         maxSigned31BitInt * time.Millisecond,
}

// Timeout returns the default relative expiration for the priority.
func (p Priority) Timeout() time.Duration {
	if p < ImmediatePriority || p > IdlePriority {
		return defaultTimeouts[NormalPriority]
	}
	return defaultTimeouts[p]
}

func (p Priority) String() string {
	switch p {
	case ImmediatePriority:
		return "immediate"
	case UserBlockingPriority:
		return "user-blocking"
	case NormalPriority:
		return "normal"
	case LowPriority:
		return "low"
	case IdlePriority:
		return "idle"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority converts a priority name ("immediate", "user-blocking",
// "normal", "low", "idle") into a Priority. Matching ignores case, and
// underscores are accepted in place of dashes.
func ParsePriority(name string) (Priority, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-") {
	case "immediate":
		return ImmediatePriority, nil
	case "user-blocking", "userblocking":
		return UserBlockingPriority, nil
	case "normal", "":
		return NormalPriority, nil
	case "low":
		return LowPriority, nil
	case "idle":
		return IdlePriority, nil
	}
	return NormalPriority, fmt.Errorf("unknown priority %q", name)
}
