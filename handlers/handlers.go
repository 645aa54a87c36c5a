// Copyright © 2026 Martin Tournoij <martin@arp242.net>
// This file is part of FrameCount and published under the terms of the EUPL
// v1.2, which can be found in the LICENSE file or at http://eupl12.zgo.at

// Package handlers serves the counter iframe.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"zgo.at/framecount"
	"zgo.at/zhttp"
	"zgo.at/zlog"
)

type backend struct {
	visits *framecount.Visits
	tpl    *framecount.Tpl
}

// New sets up the routes; the counter is served on every path, so embedding
// pages don't need to care about the URL beyond the host.
func New(visits *framecount.Visits, tpl *framecount.Tpl) chi.Router {
	r := chi.NewRouter()
	h := backend{visits: visits, tpl: tpl}
	r.Get("/*", zhttp.Wrap(h.count))
	return r
}

func (h backend) count(w http.ResponseWriter, r *http.Request) error {
	ref := r.Referer()
	if ref == "" {
		// Nothing to count without a referring page.
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}

	zlog.Module("handler").Field("referer", ref).Debug("accepted referer")

	n := h.visits.Count(ref)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return zhttp.String(w, h.tpl.Render(n))
}
