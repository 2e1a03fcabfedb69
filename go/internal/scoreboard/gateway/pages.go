package gateway

import (
	"net/http"
	"path/filepath"
)

// pages maps the display routes to their HTML files in the public dir.
var pages = map[string]string{
	"/controller": "controller.html",
	"/singlebar":  "singlebar.html",
	"/doublebar":  "doublebar.html",
}

// RegisterPageRoutes serves the controller and display pages plus every other
// file under publicDir.
func RegisterPageRoutes(mux *http.ServeMux, publicDir string) {
	for route, file := range pages {
		path := filepath.Join(publicDir, file)
		mux.HandleFunc("GET "+route, func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, path)
		})
	}

	mux.Handle("GET /", http.FileServer(http.Dir(publicDir)))
}
