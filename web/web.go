// Package web ships the default views and public assets. They are used
// whenever the configured directories do not exist on disk, and are the
// source `quiz init` copies from.
package web

import (
	"embed"
	"io/fs"
)

//go:embed quiz.config.yml views public
var files embed.FS

func Files() fs.FS {
	return files
}

func Views() fs.FS {
	return sub("views")
}

func Public() fs.FS {
	return sub("public")
}

func sub(dir string) fs.FS {
	s, err := fs.Sub(files, dir)
	if err != nil {
		panic("web: missing embedded directory " + dir + ": " + err.Error())
	}
	return s
}
