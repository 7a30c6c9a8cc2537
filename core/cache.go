package core

import (
	"os"
	"path/filepath"
)

func cachedPagePath(config Config, route string) string {
	return filepath.Join(config.OutputDir, "pages", route, "index.html")
}

func GetCachedHTML(config Config, route string) ([]byte, bool) {
	content, err := os.ReadFile(cachedPagePath(config, route))
	if err != nil {
		return nil, false
	}
	return content, true
}

// SaveCachedHTML stores the page and a gzip sibling for front proxies that
// serve precompressed files.
func SaveCachedHTML(config Config, route string, html []byte) error {
	htmlPath := cachedPagePath(config, route)
	if err := os.MkdirAll(filepath.Dir(htmlPath), os.ModePerm); err != nil {
		return err
	}

	if err := writeFileAtomic(htmlPath, html); err != nil {
		return err
	}

	return writeGzip(htmlPath+".gz", html)
}
