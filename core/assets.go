package core

import (
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cast"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

const liveReloadScript = `<script>(function(){var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+"` + LiveReloadPath + `");` +
	`ws.onmessage=function(e){if(e.data==="reload"){location.reload();}};})();</script>`

// MinifyAsset writes a minified copy of a public css or js file to
// <cacheDir>/static and returns its versioned URL. Outside prod, or on any
// failure, the original URL is returned.
func MinifyAsset(env string, public fs.FS, cacheDir, urlPath string) string {
	if env != "prod" {
		return urlPath
	}

	ext := path.Ext(urlPath)
	if ext != ".css" && ext != ".js" {
		return urlPath
	}

	name := strings.TrimSuffix(path.Base(urlPath), ext)
	if strings.HasSuffix(name, ".min") {
		return urlPath
	}

	rel := strings.TrimPrefix(urlPath, "/")
	original, err := fs.ReadFile(public, rel)
	if err != nil {
		return urlPath
	}

	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)

	mediaType := "text/css"
	if ext == ".js" {
		mediaType = "application/javascript"
	}

	var buf bytes.Buffer
	if err := m.Minify(mediaType, &buf, bytes.NewReader(original)); err != nil {
		return urlPath
	}
	minified := buf.Bytes()

	minRel := path.Join(path.Dir(rel), name+".min"+ext)
	minPath := filepath.Join(cacheDir, "static", filepath.FromSlash(minRel))

	if err := os.MkdirAll(filepath.Dir(minPath), os.ModePerm); err != nil {
		return urlPath
	}
	if err := writeFileAtomic(minPath, minified); err != nil {
		return urlPath
	}
	if err := writeGzip(minPath+".gz", minified); err != nil {
		return urlPath
	}

	return fmt.Sprintf("/%s?v=%s", minRel, contentHash(minified))
}

// assetMinifier runs MinifyAsset at most once per URL and hands every later
// render the same versioned path. Files already served are never rewritten.
type assetMinifier struct {
	env      string
	public   fs.FS
	cacheDir string
	urls     sync.Map
}

type minifiedAsset struct {
	once sync.Once
	url  string
}

func (m *assetMinifier) URL(urlPath string) string {
	v, _ := m.urls.LoadOrStore(urlPath, &minifiedAsset{})
	asset := v.(*minifiedAsset)
	asset.once.Do(func() {
		asset.url = MinifyAsset(m.env, m.public, m.cacheDir, urlPath)
	})
	return asset.url
}

func TemplateFuncs(env string, public fs.FS, cacheDir string) template.FuncMap {
	funcs := sprig.FuncMap()
	minifier := &assetMinifier{env: env, public: public, cacheDir: cacheDir}

	funcs["minify"] = minifier.URL
	funcs["props"] = func(values ...interface{}) map[string]interface{} {
		if len(values)%2 != 0 {
			panic("props must be called with even number of arguments")
		}
		m := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, err := cast.ToStringE(values[i])
			if err != nil {
				panic("props keys must be convertible to strings")
			}
			m[key] = values[i+1]
		}
		return m
	}
	funcs["safeHTML"] = func(s interface{}) template.HTML {
		switch val := s.(type) {
		case template.HTML:
			return val
		case string:
			return template.HTML(val)
		default:
			return ""
		}
	}
	funcs["versioned"] = func(urlPath string) string {
		if !strings.HasPrefix(urlPath, "/") {
			return urlPath
		}
		rel := strings.TrimPrefix(urlPath, "/")

		content, err := fs.ReadFile(public, rel)
		if err != nil {
			content, err = os.ReadFile(filepath.Join(cacheDir, "static", filepath.FromSlash(rel)))
		}
		if err != nil {
			return urlPath
		}
		return fmt.Sprintf("/%s?v=%s", rel, contentHash(content))
	}
	funcs["liveReload"] = func() template.HTML {
		if env != "dev" {
			return ""
		}
		return template.HTML(liveReloadScript)
	}

	return funcs
}

func contentHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])[:6]
}

func writeGzip(dst string, data []byte) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return writeFileAtomic(dst, buf.Bytes())
}

// writeFileAtomic writes to a temp file in dst's directory and renames it
// over dst. Readers see the old file or the new one, never a partial write.
func writeFileAtomic(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
