package domain

// State holds the published per-connection flags (camera on, mic muted,
// hand raised, ...). Keys are client-defined; the server never interprets
// them beyond merging and rebroadcasting.
type State map[string]any

// Merge applies patch on top of s: new keys are added, known keys are
// overwritten, unspecified keys are preserved.
func (s State) Merge(patch State) {
	for k, v := range patch {
		s[k] = v
	}
}

// Clone returns a shallow copy safe to hand out of a locked section.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
