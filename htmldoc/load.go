package htmldoc

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Load reads an HTML document from a file path or an http(s) URL. The
// origin is recorded in Document.SourceURI.
func Load(uri string) (*Document, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return loadURL(uri)
	}
	return loadFile(uri)
}

func loadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.SourceURI = path
	return doc, nil
}

func loadURL(url string) (*Document, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	doc, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	doc.SourceURI = url
	return doc, nil
}
