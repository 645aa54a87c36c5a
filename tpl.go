// Copyright © 2026 Martin Tournoij <martin@arp242.net>
// This file is part of FrameCount and published under the terms of the EUPL
// v1.2, which can be found in the LICENSE file or at http://eupl12.zgo.at

package framecount

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"zgo.at/errors"
)

//go:embed tpl/counter.html
var defaultTpl string

// Tpl is the HTML document served in the iframe. Both placeholders are
// replaced as plain text, not as html/template actions: {{COLOR}} once at
// startup with the operator-supplied display color, {{VISIT_COUNT}} on every
// request with the new count.
type Tpl struct {
	html string
}

// NewTpl loads the template from path, or the built-in one if path is empty,
// and fills in the color.
func NewTpl(path, color string) (*Tpl, error) {
	html := defaultTpl
	if path != "" {
		t, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "NewTpl")
		}
		html = string(t)
	}
	return &Tpl{html: strings.ReplaceAll(html, "{{COLOR}}", color)}, nil
}

func (t *Tpl) Render(count int) string {
	return strings.ReplaceAll(t.html, "{{VISIT_COUNT}}", strconv.Itoa(count))
}
