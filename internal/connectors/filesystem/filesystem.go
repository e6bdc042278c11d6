// Package filesystem turns files on disk into pipeline import items.
// It is the only place the import flow touches the filesystem: the
// pipeline itself consumes fully materialised items and performs no I/O.
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// contentTypes maps file extensions to the declared content type handed
// to the parser registry. Unknown extensions resolve to "", which makes
// the registry probe every parser.
var contentTypes = map[string]string{
	".csv":  "text/csv",
	".ics":  "text/calendar",
	".ical": "text/calendar",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".json": "application/json",
	".txt":  "text/plain",

	// Categories the pipeline gates out. Declaring them here lets the
	// orchestrator count them as skipped instead of probing them.
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
	".zip":  "application/zip",
	".pdf":  "application/pdf",
}

// ContentTypeFor resolves the declared content type for a path from its
// extension. Returns "" for unknown extensions.
func ContentTypeFor(path string) string {
	return contentTypes[strings.ToLower(filepath.Ext(path))]
}

// Item is one file read off disk, ready for the pipeline.
type Item struct {
	// Path is the absolute or caller-relative path the file was read from.
	Path string

	// Name is the base file name.
	Name string

	// ContentType is the extension-resolved content type, "" if unknown.
	ContentType string

	// Data is the file content.
	Data []byte
}

// Collect reads every file named by paths. Directories are walked
// recursively; hidden files and directories (dot-prefixed) are skipped.
// A path that does not exist is an error; unreadable files inside a
// walked directory are skipped silently.
func Collect(paths []string) ([]Item, error) {
	var items []Item

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			item, err := readItem(path)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if hidden(d.Name()) && p != path {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			item, err := readItem(p)
			if err != nil {
				// Files can vanish or lose permissions mid-walk.
				return nil
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}

	return items, nil
}

// readItem reads one file into an Item.
func readItem(path string) (Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Item{}, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	return Item{
		Path:        path,
		Name:        name,
		ContentType: ContentTypeFor(name),
		Data:        data,
	}, nil
}

// hidden reports whether a file or directory name is dot-prefixed.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
