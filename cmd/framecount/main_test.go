// Copyright © 2026 Martin Tournoij <martin@arp242.net>
// This file is part of FrameCount and published under the terms of the EUPL
// v1.2, which can be found in the LICENSE file or at http://eupl12.zgo.at

package main

import (
	"bufio"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"zgo.at/framecount"
	"zgo.at/ztest"
)

// Make sure usage doesn't contain tabs, as that will mess up formatting in
// terminals.
func TestUsageTabs(t *testing.T) {
	if strings.Contains(usage, "\t") {
		t.Error("usage contains tabs")
	}
}

// Start with the default settings, count two visits, and make sure the
// shutdown flush wrote them.
func TestServe(t *testing.T) {
	storage := filepath.Join(t.TempDir(), "visits.txt")
	os.Args = []string{"framecount",
		"-listen", "localhost:31287",
		"-storage", storage,
		"-color", "teal",
		"-debug", "all"}

	out, reset := ztest.ReplaceStdStreams()
	defer reset()
	go func() {
		scanner := bufio.NewScanner(out)
		for scanner.Scan() {
			if !strings.Contains(scanner.Text(), "serving on") {
				continue
			}

			for i := 0; i < 2; i++ {
				req, _ := http.NewRequest("GET", "http://localhost:31287/", nil)
				req.Header.Set("Referer", "https://example.com")
				resp, err := http.DefaultClient.Do(req)
				if err == nil {
					resp.Body.Close()
				}
			}

			time.Sleep(100 * time.Millisecond)
			syscall.Kill(syscall.Getpid(), syscall.SIGINT)
			return
		}
	}()

	main()

	store, err := framecount.OpenStorage(storage)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if got := store.Load().Snapshot()["https://example.com"]; got != 2 {
		t.Errorf("count in storage file is %d; wanted 2", got)
	}
}
