package buffer

// clockSweeps is how many full passes over the frames a victim scan may make.
// One pass can end with every candidate just having lost its reference bit.
const clockSweeps = 2

// ClockReplacer is the second-chance policy. The hand survives between calls.
type ClockReplacer struct {
	nextVictimIdx int
	maxLoop       int
}

func NewClockReplacer() *ClockReplacer {
	return &ClockReplacer{
		nextVictimIdx: 0,
		maxLoop:       clockSweeps,
	}
}

// Victim scans from the hand. Pinned frames are skipped untouched, an
// unpinned frame with its reference bit set loses the bit, and the first
// unpinned frame without the bit is chosen. The hand is left one past it.
func (cr *ClockReplacer) Victim(frames []Frame) (int, bool) {
	poolSize := len(frames)
	if poolSize == 0 {
		return -1, false
	}
	cr.nextVictimIdx %= poolSize

	for i := 0; i < poolSize*cr.maxLoop; i++ {
		victimIdx := cr.nextVictimIdx
		cr.nextVictimIdx = (cr.nextVictimIdx + 1) % poolSize

		frame := &frames[victimIdx]
		if !frame.IsUnpinned() {
			continue
		}
		if frame.IsReferenced() {
			frame.SetReferenced(false)
			continue
		}
		return victimIdx, true
	}

	return -1, false
}

func (cr *ClockReplacer) Hand() int {
	return cr.nextVictimIdx
}
