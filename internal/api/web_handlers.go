package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// serveStatic serves the browser front-end from the public directory.
// Directory requests fall back to their index.html.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.opts.PublicDir == "" {
		http.NotFound(w, r)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	full := filepath.Join(s.opts.PublicDir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
		if _, err := os.Stat(full); err != nil {
			http.NotFound(w, r)
			return
		}
	}

	if filepath.Ext(full) == ".html" {
		w.Header().Set("Cache-Control", CacheNoStore)
	} else {
		w.Header().Set("Cache-Control", CacheStatic)
	}
	http.ServeFile(w, r, full)
}
