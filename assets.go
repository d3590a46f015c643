// Package md2pptx carries the plugin manifest and the built-in themes that ship
// inside the binary.
package md2pptx

import (
	"embed"
	"io/fs"
)

//go:embed manifest.yaml provider/*.yaml tools/*.yaml assets/icon.svg
var manifestFS embed.FS

//go:embed assets/themes/*.yaml
var themesFS embed.FS

// Manifest returns the plugin manifest tree rooted at manifest.yaml.
func Manifest() fs.FS {
	return manifestFS
}

// Themes returns the built-in theme files, one <name>.yaml per theme.
func Themes() fs.FS {
	sub, err := fs.Sub(themesFS, "assets/themes")
	if err != nil {
		panic(err)
	}
	return sub
}
