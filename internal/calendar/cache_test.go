package calendar

import (
	"testing"
	"time"
)

func TestCache_GetSetHas(t *testing.T) {
	cache := NewCache()

	if cache.Has(2025, time.January) {
		t.Fatal("Has() = true on empty cache")
	}
	if _, ok := cache.Get(2025, time.January); ok {
		t.Fatal("Get() ok = true on empty cache")
	}

	records := []HolidayRecord{
		{Date: "20250101", Weekday: LabelWednesday, Description: "開國紀念日", IsHoliday: true},
	}
	cache.Set(2025, time.January, records)

	if !cache.Has(2025, time.January) {
		t.Error("Has() = false after Set")
	}
	if cache.Has(2025, time.February) {
		t.Error("Has() = true for a month that was never set")
	}

	got, ok := cache.Get(2025, time.January)
	if !ok {
		t.Fatal("Get() ok = false after Set")
	}
	if len(got) != 1 || got[0] != records[0] {
		t.Errorf("Get() = %+v, want %+v", got, records)
	}
}

func TestCache_EmptyMonthIsAHit(t *testing.T) {
	cache := NewCache()
	cache.Set(2025, time.March, []HolidayRecord{})

	got, ok := cache.Get(2025, time.March)
	if !ok {
		t.Fatal("Get() ok = false for cached empty month")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Get() = %#v, want empty non-nil slice", got)
	}
	if !cache.Has(2025, time.March) {
		t.Error("Has() = false for cached empty month")
	}
}

func TestCache_ReturnsCopies(t *testing.T) {
	cache := NewCache()
	records := []HolidayRecord{{Date: "20250101", Description: "元旦", IsHoliday: true}}
	cache.Set(2025, time.January, records)

	// Mutating the input after Set must not affect the cache
	records[0].Description = "changed"

	got, _ := cache.Get(2025, time.January)
	got[0].Description = "also changed"

	again, _ := cache.Get(2025, time.January)
	if again[0].Description != "元旦" {
		t.Errorf("cached description = %q, want 元旦", again[0].Description)
	}
}

func TestCache_Len(t *testing.T) {
	cache := NewCache()
	cache.Set(2025, time.January, nil)
	cache.Set(2025, time.February, nil)
	cache.Set(2026, time.January, nil)

	if got := cache.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}
