package runtime

import "github.com/go-horust/horust/internal/config"

// restartEligible decides whether e should be scheduled to start again
// rather than settle into a terminal status, given the exit it just saw.
// failureForPolicy is true when the exit counts as a failure for restart
// purposes: a non-zero exit code, or dying before ever reaching Running.
func restartEligible(e *entry, failureForPolicy, shuttingDown bool) bool {
	if shuttingDown {
		return false
	}
	switch e.desc.Restart.Strategy {
	case config.RestartAlways:
		// fallthrough to the attempts check below
	case config.RestartOnFailure:
		if !failureForPolicy {
			return false
		}
	default: // RestartNever, or unset
		return false
	}

	attempts := e.desc.Restart.Attempts
	if attempts == 0 {
		return true // unlimited
	}
	return e.attemptsUsed < attempts
}
