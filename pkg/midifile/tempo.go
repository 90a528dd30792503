package midifile

import "sort"

// tempoPoint is one entry of the tempo map: the seconds elapsed up to
// tick, plus the seconds-per-tick rate effective from tick onward
// until the next tempoPoint (or forever, for the last entry).
type tempoPoint struct {
	tick       int64
	seconds    float64
	secPerTick float64
}

type tempoMap struct {
	points []tempoPoint
}

// DoTimeAnalysis rebuilds the tempo map by walking a joined,
// absolute-tick view of the file, treating each Tempo meta event as a
// piecewise-constant rate change (§4.6). It internally joins and
// restores the file's track/time state, so it is observationally
// transparent to the caller, and stamps every event's computed
// Seconds field along the way.
func (f *MidiFile) DoTimeAnalysis() error {
	origTrackState := f.trackState
	origTimeState := f.timeState

	f.JoinTracks()

	mapPoints := buildTempoMap(f.tracks[0].events, f.TPQ())
	m := tempoMap{points: mapPoints}

	stampSeconds(f.tracks[0].events, m)
	if f.savedTracksValid {
		for t := range f.savedTracks {
			stampSeconds(f.savedTracks[t].events, m)
		}
	}

	if origTrackState == TracksSplit {
		f.SplitTracks()
	}
	if origTimeState == TicksDelta {
		f.ToDeltaTicks()
	}

	f.tempoMap = m
	f.tempoMapValid = true
	return nil
}

func stampSeconds(events []MidiEvent, m tempoMap) {
	for i := range events {
		events[i].SetSeconds(m.secondsAt(events[i].Tick))
	}
}

func buildTempoMap(events []MidiEvent, tpq int) []tempoPoint {
	if tpq <= 0 {
		tpq = DefaultTicksPerQuarterNote
	}
	sorted := append([]MidiEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })

	secPerTick := DefaultMicrosecondsPerQuarter / 1e6 / float64(tpq)

	var points []tempoPoint
	var seconds float64
	var lastTick int64 = -1

	i := 0
	for i < len(sorted) {
		tick := sorted[i].Tick
		if lastTick >= 0 {
			seconds += float64(tick-lastTick) * secPerTick
		}
		j := i
		for j < len(sorted) && sorted[j].Tick == tick {
			if sorted[j].Message.IsTempo() {
				us, _ := sorted[j].Message.GetMicrosecondsPerQuarter()
				secPerTick = float64(us) / 1e6 / float64(tpq)
			}
			j++
		}
		points = append(points, tempoPoint{tick: tick, seconds: seconds, secPerTick: secPerTick})
		lastTick = tick
		i = j
	}
	if len(points) == 0 {
		points = append(points, tempoPoint{tick: 0, seconds: 0, secPerTick: secPerTick})
	}
	return points
}

func (m tempoMap) secondsAt(tick int64) float64 {
	pts := m.points
	idx := sort.Search(len(pts), func(i int) bool { return pts[i].tick >= tick })
	if idx < len(pts) && pts[idx].tick == tick {
		return pts[idx].seconds
	}
	if idx == 0 {
		p := pts[0]
		return p.seconds + float64(tick-p.tick)*p.secPerTick
	}
	p := pts[idx-1]
	return p.seconds + float64(tick-p.tick)*p.secPerTick
}

func (m tempoMap) tickAt(seconds float64) int64 {
	pts := m.points
	idx := sort.Search(len(pts), func(i int) bool { return pts[i].seconds >= seconds })
	if idx < len(pts) && pts[idx].seconds == seconds {
		return pts[idx].tick
	}
	if idx == 0 {
		p := pts[0]
		if p.secPerTick == 0 {
			return p.tick
		}
		return p.tick + int64((seconds-p.seconds)/p.secPerTick)
	}
	p := pts[idx-1]
	if p.secPerTick == 0 {
		return p.tick
	}
	return p.tick + int64((seconds-p.seconds)/p.secPerTick)
}

// TimeInSeconds converts an absolute tick to seconds using the cached
// tempo map. Returns -1 if no tempo map has been built (DoTimeAnalysis
// was never run or has been invalidated) or tick is negative.
func (f *MidiFile) TimeInSeconds(tick int64) float64 {
	if !f.tempoMapValid || tick < 0 {
		return -1
	}
	return f.tempoMap.secondsAt(tick)
}

// TickAtSeconds is TimeInSeconds's inverse. Returns -1 under the same
// conditions.
func (f *MidiFile) TickAtSeconds(seconds float64) int64 {
	if !f.tempoMapValid || seconds < 0 {
		return -1
	}
	return f.tempoMap.tickAt(seconds)
}

// FileDurationInSeconds returns TimeInSeconds(MaxTick()).
func (f *MidiFile) FileDurationInSeconds() float64 {
	return f.TimeInSeconds(f.MaxTick())
}

// TempoMapValid reports whether DoTimeAnalysis has run since the last
// invalidating mutation (§5).
func (f *MidiFile) TempoMapValid() bool { return f.tempoMapValid }
