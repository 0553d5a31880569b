// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web provides the embedded browser front-end. It is a single page
// that drives the workspace and collection APIs.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var StaticFS embed.FS

// Static returns the front-end rooted at the static directory, ready to be
// served at the site root.
func Static() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic("web: static directory missing from embed: " + err.Error())
	}
	return sub
}
