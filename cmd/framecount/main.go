// Copyright © 2026 Martin Tournoij <martin@arp242.net>
// This file is part of FrameCount and published under the terms of the EUPL
// v1.2, which can be found in the LICENSE file or at http://eupl12.zgo.at

// Command framecount is a small server which serves an embeddable iframe
// showing how often the embedding page loaded it.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"zgo.at/framecount"
	"zgo.at/framecount/cron"
	"zgo.at/framecount/handlers"
	"zgo.at/zhttp"
	"zgo.at/zli"
	"zgo.at/zlog"
	"zgo.at/zvalidate"
)

var version = "dev"

const usage = `framecount serves an embeddable iframe showing how often the embedding page
loaded it, counted by the Referer header.

Pages are counted by the full referer string; two pages on the same site
count separately. Counts are kept in memory and saved to the storage file
every -store-every seconds and once on shutdown.

Usage: framecount [flags] [template]

  template     Path to the HTML template served in the iframe; the built-in
               template is used if this isn't given. The template must contain
               a {{COLOR}} and a {{VISIT_COUNT}} placeholder; both are replaced
               as plain text.

Flags:

  -listen      Address to listen on. Default: localhost:32069.

  -color       Color of the counter text, as CSS color. Default: white.

  -storage     Path to the file visits are saved to; it's created if it
               doesn't exist. Default: visits.txt.

  -store-every How often to save the visits to the storage file, in seconds.
               Default: 60.

  -debug       Modules to debug, comma-separated or 'all' for all modules.

  -version     Print version and exit.
`

func main() {
	f := zli.NewFlags(os.Args)
	var (
		help        = f.Bool(false, "h", "help")
		showVersion = f.Bool(false, "version")
		listen      = f.String("localhost:32069", "listen")
		color       = f.String("white", "color")
		storagePath = f.String("visits.txt", "storage")
		storeEvery  = f.Int(60, "store-every")
		debug       = f.String("", "debug").Pointer()
	)
	zli.F(f.Parse())

	if help.Bool() {
		fmt.Fprint(zli.Stdout, usage)
		return
	}
	if showVersion.Bool() {
		fmt.Fprintln(zli.Stdout, version)
		return
	}

	zlog.Config.SetDebug(*debug)

	v := zvalidate.New()
	v.Required("-listen", listen.String())
	v.Required("-storage", storagePath.String())
	v.Range("-store-every", int64(storeEvery.Int()), 1, 0)
	if len(f.Args) > 1 {
		zli.Fatalf("more than one template given: %q", f.Args)
	}
	if v.HasErrors() {
		zli.F(v)
	}

	tplPath := ""
	if len(f.Args) == 1 {
		tplPath = f.Args[0]
	}
	tpl, err := framecount.NewTpl(tplPath, color.String())
	zli.F(err)

	store, err := framecount.OpenStorage(storagePath.String())
	zli.F(err)
	defer store.Close()

	visits := store.Load()

	cron.SetPersistInterval(time.Duration(storeEvery.Int()) * time.Second)
	cron.Start(visits, store)

	stop := make(chan struct{})
	ch, err := zhttp.Serve(0, stop, &http.Server{
		Addr:    listen.String(),
		Handler: handlers.New(visits, tpl),
	})
	zli.F(err)

	<-ch // Listener is up.
	zlog.Module("startup").Printf("serving on %q; loaded %d pages from %q",
		listen.String(), visits.Len(), storagePath.String())

	<-ch // Graceful shutdown done.
	err = cron.Shutdown(visits, store)
	if err != nil {
		zli.Fatalf("final save failed, counts since the last periodic save are lost: %s", err)
	}
}
