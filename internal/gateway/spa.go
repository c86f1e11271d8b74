package gateway

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// SPAHandler serves the client bundle in dir. Unknown document paths get
// index.html so client side routing can take over, missing assets get a 404.
func SPAHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p)))
		if err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		if IsAsset(p) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}
