package policy

import "errors"

// Drain is the removal loop shared by the bundled shrink policies.
// candidates must already be sorted so that the next victim is at the tail.
//
// While the cache is oversized it pops the tail candidate and evicts it,
// skipping exclude. Each iteration shrinks the candidate list, so Drain
// terminates after at most len(candidates) steps. With fewer than two
// candidates left it stops and emits a ShrinkExhausted warning instead of
// emptying the cache.
func Drain(h Hooks, candidates []Entry, exclude string) {
	for h.Oversized() {
		if len(candidates) < 2 {
			h.Warn(Warning{Kind: ShrinkExhausted, Key: exclude, Err: ErrShrinkExhausted})
			return
		}
		victim := candidates[len(candidates)-1]
		if victim.Key != exclude {
			if err := h.Evict(victim.Key); err != nil && !errors.Is(err, ErrAlreadyRemoved) {
				h.Warn(Warning{Kind: EvictFailed, Key: victim.Key, Err: err})
			}
		}
		candidates = candidates[:len(candidates)-1]
	}
}
