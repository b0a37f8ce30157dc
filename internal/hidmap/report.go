package hidmap

// Report is an 8-byte USB HID boot keyboard report: modifier bitmap,
// reserved byte, then up to six concurrent usages.
type Report [8]byte

const maxKeys = 6

// Press records a usage as held. Modifier usages set their bit; ordinary
// usages take the first free slot. Pressing a seventh key fills every slot
// with the rollover-error usage, as the boot protocol expects.
func (r *Report) Press(usage byte) {
	if usage >= UsageLeftCtrl && usage <= UsageRightGUI {
		r[0] |= 1 << (usage - UsageLeftCtrl)
		return
	}
	for i := 0; i < maxKeys; i++ {
		if r[2+i] == usage {
			return
		}
	}
	for i := 0; i < maxKeys; i++ {
		if r[2+i] == 0 {
			r[2+i] = usage
			return
		}
	}
	const errRollOver = 0x01
	for i := 0; i < maxKeys; i++ {
		r[2+i] = errRollOver
	}
}

// Release clears a held usage. Releasing during rollover error clears the
// whole key area; the still-held keys re-register on their next report.
func (r *Report) Release(usage byte) {
	if usage >= UsageLeftCtrl && usage <= UsageRightGUI {
		r[0] &^= 1 << (usage - UsageLeftCtrl)
		return
	}
	const errRollOver = 0x01
	if r[2] == errRollOver {
		for i := 0; i < maxKeys; i++ {
			r[2+i] = 0
		}
		return
	}
	for i := 0; i < maxKeys; i++ {
		if r[2+i] == usage {
			// Compact so held keys stay at the front.
			copy(r[2+i:8], r[2+i+1:8])
			r[7] = 0
			return
		}
	}
}

// Zero reports whether nothing is held.
func (r *Report) Zero() bool {
	return *r == Report{}
}
