// Copyright © 2026 Martin Tournoij <martin@arp242.net>
// This file is part of FrameCount and published under the terms of the EUPL
// v1.2, which can be found in the LICENSE file or at http://eupl12.zgo.at

// Package framecount counts how often pages load the counter iframe.
package framecount

import (
	"strconv"
	"strings"
	"sync"

	"zgo.at/zlog"
)

// Visits maps a referring page to the number of times it loaded the counter.
//
// The referer is used verbatim as the key; "https://a.example" and
// "https://a.example/page" count as two different pages. Entries are never
// evicted, so the table grows with the number of distinct referers.
type Visits struct {
	mu     sync.Mutex
	visits map[string]int
}

func NewVisits() *Visits {
	return &Visits{visits: make(map[string]int)}
}

// Count increments the visit count for this referer and returns the new
// value; a referer that wasn't seen before starts at 1.
func (v *Visits) Count(referer string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visits[referer]++
	return v.visits[referer]
}

// Len reports how many distinct referers are in the table.
func (v *Visits) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visits)
}

// Snapshot returns a copy of the table, so callers can do I/O on it without
// holding the lock.
func (v *Visits) Snapshot() map[string]int {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := make(map[string]int, len(v.visits))
	for ref, n := range v.visits {
		snap[ref] = n
	}
	return snap
}

// encode serializes a snapshot as one "<referer> <count>" line per entry, in
// no particular order.
func encode(visits map[string]int) string {
	b := new(strings.Builder)
	for ref, n := range visits {
		b.WriteString(ref)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(n))
		b.WriteByte('\n')
	}
	return b.String()
}

// decode parses the snapshot format. Lines that don't look like
// "<referer> <count>" are skipped, so a damaged file loads whatever is still
// readable instead of nothing.
func decode(text string) map[string]int {
	visits := make(map[string]int)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}

		s := strings.SplitN(line, " ", 2)
		if len(s) != 2 || s[0] == "" {
			zlog.Module("storage").Field("line", line).Debug("skipping malformed line")
			continue
		}
		n, err := strconv.Atoi(s[1])
		if err != nil || n < 0 {
			zlog.Module("storage").Field("line", line).Debug("skipping malformed line")
			continue
		}
		visits[s[0]] = n
	}
	return visits
}
