package appointments

import (
	"sort"
	"time"
)

// Stream is the history of a single patient ordered by start time. Indices point into the
// table the stream was built from, equal start times keep their table order. Starts holds
// the wall clock times of the appointments.
type Stream struct {
	PatientId string
	Indices   []int
	Starts    []time.Time
}

func (s Stream) Len() int {
	return len(s.Indices)
}

// WindowStarts returns, for every position k in the stream, the first position j <= k whose
// start lies in the half open window (Starts[k]-window, Starts[k]]. The window always contains k.
func (s Stream) WindowStarts(window time.Duration) []int {
	result := make([]int, len(s.Starts))
	j := 0
	for k := range s.Starts {
		lower := s.Starts[k].Add(-window)
		for j < k && !s.Starts[j].After(lower) {
			j++
		}
		result[k] = j
	}
	return result
}

// Order returns the row positions sorted by start time. The sort is stable so rows with equal
// start times keep their original order.
func Order(n int, startAt func(i int) time.Time) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return startAt(order[a]).Before(startAt(order[b]))
	})
	return order
}

// WallClock returns the local date and time of t as a UTC timestamp. Durations between wall clock
// times ignore daylight saving changes, so one calendar day is always 24 hours.
func WallClock(t time.Time) time.Time {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()
	return time.Date(year, month, day, hour, minute, second, t.Nanosecond(), time.UTC)
}

// Streams groups n rows into per patient streams. Streams are returned in the order in which
// the patient first appears in start time order.
func Streams(n int, keyAt func(i int) Key) []Stream {
	order := Order(n, func(i int) time.Time { return WallClock(keyAt(i).Start) })

	positions := make(map[string]int)
	streams := make([]Stream, 0)
	for _, i := range order {
		k := keyAt(i)
		pos, ok := positions[k.PatientId]
		if !ok {
			pos = len(streams)
			positions[k.PatientId] = pos
			streams = append(streams, Stream{PatientId: k.PatientId})
		}
		streams[pos].Indices = append(streams[pos].Indices, i)
		streams[pos].Starts = append(streams[pos].Starts, WallClock(k.Start))
	}

	return streams
}

// StreamsOf builds the patient streams of a list of appointments
func StreamsOf(appointments []Appointment) []Stream {
	return Streams(len(appointments), func(i int) Key {
		return appointments[i].Key()
	})
}
