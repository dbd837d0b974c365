package static

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed dist
var dist embed.FS

// Handler serves the embedded SPA build. Asset paths are served directly;
// every other path gets index.html so client-side routes (including the
// ?join= and ?mode= entry parameters) resolve without redirects.
func Handler() http.Handler {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		return http.NotFoundHandler()
	}
	fileServer := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/assets/") || hasAssetSuffix(r.URL.Path) {
			fileServer.ServeHTTP(w, r)
			return
		}
		b, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})
}

func hasAssetSuffix(path string) bool {
	for _, suffix := range []string{".js", ".css", ".svg", ".ico", ".png", ".jpg", ".txt", ".map"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
