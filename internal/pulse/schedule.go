package pulse

// At records a pulse emitted at a 0-indexed press offset within a
// periodic schedule. Offsets satisfy 0 <= Offset < period of the
// schedule that owns them.
type At struct {
	Offset int64 `json:"offset"`
	Pulse  Pulse `json:"pulse"`
}

// Before orders events by offset. Ties order High ahead of Low, which
// keeps merged schedules deterministic when two sources coincide.
func (a At) Before(other At) bool {
	if a.Offset != other.Offset {
		return a.Offset < other.Offset
	}
	return a.Pulse == High && other.Pulse == Low
}
