package api

import (
	"net/http"
	"path"
	"path/filepath"
)

// staticHandler serves files from dir. Paths that name no file get
// dir/index.html so the web client can route on its own.
func staticHandler(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}

		name := path.Clean("/" + r.URL.Path)
		if name != "/" && isFile(root, name) {
			files.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, index)
	})
}

func isFile(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	st, err := f.Stat()
	return err == nil && !st.IsDir()
}
