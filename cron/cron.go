// Copyright © 2026 Martin Tournoij <martin@arp242.net>
// This file is part of FrameCount and published under the terms of the EUPL
// v1.2, which can be found in the LICENSE file or at http://eupl12.zgo.at

// Package cron saves the visit table to storage in the background.
package cron

import (
	"time"

	"zgo.at/framecount"
	"zgo.at/zlog"
)

var (
	persistInterval = 60 * time.Second
	stop            chan struct{}
	done            chan struct{}
)

// SetPersistInterval sets how often Start saves the table; call it before
// Start.
func SetPersistInterval(d time.Duration) { persistInterval = d }

// Start persisting the visit table every persistInterval.
//
// The table is also persisted once right away, so problems with the storage
// file show up on startup rather than an interval later.
func Start(visits *framecount.Visits, store *framecount.Storage) {
	l := zlog.Module("cron")

	if err := store.Persist(visits); err != nil {
		l.Error(err)
	}

	var (
		stopc = make(chan struct{})
		donec = make(chan struct{})
		ival  = persistInterval
	)
	stop, done = stopc, donec

	go func() {
		defer zlog.Recover()
		defer close(donec)

		for {
			select {
			case <-stopc:
				return
			case <-time.After(ival):
			}

			if err := store.Persist(visits); err != nil {
				l.Error(err)
				continue
			}
			l.Debug("persisted visits")
		}
	}()
}

// Shutdown stops the periodic loop, waits for it to exit (including any
// persist it's in the middle of), and then persists the table once more. An
// error here means the counts since the last periodic persist can't be
// saved, which the caller should treat as fatal.
func Shutdown(visits *framecount.Visits, store *framecount.Storage) error {
	close(stop)
	<-done
	return store.Persist(visits)
}
