package buffer

// Replacer defines the contract for page replacement policies.
type Replacer interface {
	// Victim picks an unpinned frame to evict. ok is false when every frame
	// is pinned or no candidate was found within the policy's scan bound.
	Victim(frames []Frame) (idx int, ok bool)
	// Hand reports the scan position, for inspection.
	Hand() int
}
