package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MimeEntry is one record of mimetypes.yml.
//
//	image/webp:
//	  extensions: [".webp"]
type MimeEntry struct {
	Extensions []string `yaml:"extensions"`
}

// MimeMap maps MIME types (e.g. "text/csv") to their details.
type MimeMap map[string]MimeEntry

// builtinTypes covers the extensions browsers commonly resolve without
// consulting the OS registry.
var builtinTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".json": "application/json",
	".xml":  "text/xml",
	".pdf":  "application/pdf",
	".zip":  "application/x-zip-compressed",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// MimeTable resolves the MIME type the host reports for a file name.
type MimeTable struct {
	extensionMap map[string]string
}

// NewMimeTable returns a table with the built-in entries.
func NewMimeTable() *MimeTable {
	t := &MimeTable{extensionMap: make(map[string]string, len(builtinTypes))}
	for ext, typ := range builtinTypes {
		t.extensionMap[ext] = typ
	}
	return t
}

// Merge overlays m on the table. Entries in m win.
func (t *MimeTable) Merge(m MimeMap) {
	for typ, entry := range m {
		for _, ext := range entry.Extensions {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			t.extensionMap[ext] = strings.ToLower(typ)
		}
	}
}

// TypeFor returns the lowercased MIME type for name without parameters, or
// "" when the extension is unknown.
func (t *MimeTable) TypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t != nil {
		if typ, ok := t.extensionMap[ext]; ok {
			return typ
		}
	}
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// loadMimeTable builds the table and overlays mimetypes.yml. An explicit
// path must exist; otherwise ~/.config/filesimport and . are searched and a
// missing file is not an error.
func loadMimeTable(path string, log Logger) (*MimeTable, error) {
	table := NewMimeTable()

	if path == "" {
		var configPaths []string
		if home, err := os.UserHomeDir(); err == nil {
			configPaths = append(configPaths, filepath.Join(home, ".config", "filesimport"))
		}
		configPaths = append(configPaths, ".")
		for _, p := range configPaths {
			testPath := filepath.Join(p, "mimetypes.yml")
			if _, err := os.Stat(testPath); err == nil {
				path = testPath
				break
			}
		}
		if path == "" {
			return table, nil
		}
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading mime table %s: %w", path, err)
	}

	var types MimeMap
	if err := yaml.Unmarshal(yamlFile, &types); err != nil {
		return nil, fmt.Errorf("error parsing mime table %s: %w", path, err)
	}
	table.Merge(types)

	log.Debug(context.Background(), "loaded mime table", "path", path, "types", len(types), "extensions", len(table.extensionMap))
	return table, nil
}
