package compound

// StateAt samples the pose of an actor at time t, in the document's local
// time. Unknown actors get the default pose. Actors without a timeline, or with
// t outside a timeline's range, hold their nearest authored pose.
func (d *Document) StateAt(id uint32, t float64) ActorState {
	actor, ok := d.actors[id]
	if !ok {
		return DefaultActorState(d.defaultAlpha)
	}
	state := actor.State

	frames, ok := d.timelines[id]
	if !ok || len(frames) == 0 {
		return state
	}

	// prev is the last keyframe at or before t, next the first at or after t.
	prev, next := -1, -1
	for i := range frames {
		if frames[i].Time <= t {
			prev = i
		}
		if frames[i].Time >= t {
			next = i
			break
		}
	}

	switch {
	case prev < 0 && next < 0:
		return state
	case prev < 0:
		return frames[next].State
	case next < 0:
		return frames[prev].State
	case prev == next:
		return frames[prev].State
	}

	a, b := frames[prev], frames[next]
	span := b.Time - a.Time
	if span <= 0 {
		return a.State
	}
	return Interpolate(a.State, b.State, (t-a.Time)/span)
}
