package web

import (
	"io/fs"
	"net/http"
)

// Assets serves files from subdir of fsys under urlPrefix.
func Assets(fsys fs.FS, subdir, urlPrefix string) (http.Handler, error) {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return nil, err
	}
	return http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub))), nil
}
