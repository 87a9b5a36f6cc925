package registry

import "sync"

// participantSet is a concurrent-safe set of *model.Participant keyed by
// connection, mirroring the teacher's Hub.cells use of sync.Map for a
// lock-free-reads, snapshot-tolerant membership collection (spec §5:
// "iteration observes a consistent view at the moment iteration begins
// and tolerates additions/removals mid-iteration").
//
// A plain sync.Map is deliberately preferred here over a mutex+map: the
// three sets (config/play/keep-alive) are read far more often (every
// tick, every lookup) than written (join/leave/phase-change), which is
// exactly sync.Map's target workload.
type participantSet struct {
	m sync.Map // key: connKey, value: *model.Participant
}

func (s *participantSet) add(key connKey, p any) {
	s.m.Store(key, p)
}

func (s *participantSet) remove(key connKey) {
	s.m.Delete(key)
}

func (s *participantSet) has(key connKey) bool {
	_, ok := s.m.Load(key)
	return ok
}

func (s *participantSet) len() int {
	n := 0
	s.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// forEach visits every member present at the moment iteration begins,
// tolerating concurrent mutation per sync.Map's own Range contract.
func (s *participantSet) forEach(fn func(key connKey, value any)) {
	s.m.Range(func(k, v any) bool {
		fn(k.(connKey), v)
		return true
	})
}
