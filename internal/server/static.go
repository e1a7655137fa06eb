package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// staticHandler serves the prebuilt front-end bundle. Paths that do not
// name a file fall back to index.html so client-side routes resolve.
func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if s.staticDir == "" {
			http.NotFound(w, r)
			return
		}

		clean := path.Clean("/" + r.URL.Path)
		target := filepath.Join(s.staticDir, filepath.FromSlash(clean))
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			http.ServeFile(w, r, target)
			return
		}

		index := filepath.Join(s.staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}
