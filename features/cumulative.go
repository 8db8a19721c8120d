package features

import (
	"fmt"
	"time"
)

type Aggregation int

const (
	Sum Aggregation = iota
	Count
)

func (a Aggregation) String() string {
	switch a {
	case Sum:
		return "sum"
	case Count:
		return "count"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

// Cumulative adds output with the per patient aggregate of source over all earlier appointments,
// leaving out the appointments that start within excludeLast of the current one. The excluded
// window is (start-excludeLast, start] and always contains the current appointment, so the
// first appointment of a patient is always 0. The returned table is ordered by start time.
func Cumulative(t *Table, source, output Column, excludeLast time.Duration, aggregation Aggregation) (*Table, error) {
	if aggregation != Sum && aggregation != Count {
		return nil, fmt.Errorf("unsupported aggregation %s", aggregation)
	}
	if err := t.require(source); err != nil {
		return nil, err
	}
	if _, err := lookup(output); err != nil {
		return nil, err
	}

	result := t.sorted()
	for _, stream := range result.streams() {
		windowStarts := stream.WindowStarts(excludeLast)

		// prefix[k] is the aggregate of the first k appointments of the stream
		prefix := make([]float64, stream.Len()+1)
		for k, i := range stream.Indices {
			value := 1.0
			if aggregation == Sum {
				value = result.get(i, source)
			}
			prefix[k+1] = prefix[k] + value
		}

		for k, i := range stream.Indices {
			result.set(i, output, prefix[windowStarts[k]])
		}
	}

	result.markComputed(output)
	return result, nil
}
