// Package web holds the built-in form pages served when PUBLIC_DIR is unset.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var content embed.FS

// Public returns the embedded public directory rooted at its top level, so
// "contact.html" rather than "public/contact.html".
func Public() fs.FS {
	sub, err := fs.Sub(content, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
