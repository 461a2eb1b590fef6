package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

func staticSub() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}

// FS returns an http.FileSystem over the embedded playground assets.
func FS() http.FileSystem {
	return http.FS(staticSub())
}
