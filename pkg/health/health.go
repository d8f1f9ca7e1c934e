package health

import "sync/atomic"

// State reports whether the server is ready to take requests. The zero value
// is unhealthy.
type State struct {
	healthy atomic.Bool
}

func (s *State) SetHealthy() {
	s.healthy.Store(true)
}

func (s *State) SetUnhealthy() {
	s.healthy.Store(false)
}

func (s *State) IsHealthy() bool {
	return s.healthy.Load()
}
