package calendar

import (
	"sync"
	"time"
)

// Cache keeps filtered holiday records per (year, month) for the process
// lifetime. Calendars are static once published, so entries never expire.
type Cache struct {
	mu   sync.RWMutex
	data map[int]map[time.Month][]HolidayRecord // year → month → records
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		data: make(map[int]map[time.Month][]HolidayRecord),
	}
}

// Get returns a copy of the cached records. An empty, non-nil slice with
// ok=true means the month was fetched and has no holidays.
func (c *Cache) Get(year int, month time.Month) ([]HolidayRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	months, ok := c.data[year]
	if !ok {
		return nil, false
	}
	records, ok := months[month]
	if !ok {
		return nil, false
	}

	out := make([]HolidayRecord, len(records))
	copy(out, records)
	return out, true
}

// Set stores records for the month
func (c *Cache) Set(year int, month time.Month, records []HolidayRecord) {
	stored := make([]HolidayRecord, len(records))
	copy(stored, records)

	c.mu.Lock()
	defer c.mu.Unlock()

	months, ok := c.data[year]
	if !ok {
		months = make(map[time.Month][]HolidayRecord)
		c.data[year] = months
	}
	months[month] = stored
}

// Has reports whether the month has been cached
func (c *Cache) Has(year int, month time.Month) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.data[year][month]
	return ok
}

// Len returns the number of cached months
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, months := range c.data {
		n += len(months)
	}
	return n
}
