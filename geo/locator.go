package geo

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
)

// Locator returns the distance between the location of a postal code and a fixed origin
type Locator struct {
	postalCodes PostalCodes
	origin      Point

	mu  sync.Mutex
	lru *simplelru.LRU
}

func NewLocator(postalCodes PostalCodes, origin Point, cacheSize int) (*Locator, error) {
	lru, err := simplelru.NewLRU(cacheSize, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create distance cache: %w", err)
	}

	return &Locator{
		postalCodes: postalCodes,
		origin:      origin,
		lru:         lru,
	}, nil
}

// Distance returns the distance in kilometers to the origin, ok is false when the postal code is unknown
func (l *Locator) Distance(postalCode int) (distance float64, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, found := l.lru.Get(postalCode); found {
		return cached.(float64), true
	}

	point, found := l.postalCodes[postalCode]
	if !found {
		return 0, false
	}

	distance = Haversine(point, l.origin)
	_ = l.lru.Add(postalCode, distance)
	return distance, true
}
