package imageresize

import (
	"path"
	"strconv"
	"strings"
)

// DerivePath maps a source path and transform to the provisional derivative
// path <root>/<source dir>/<action>/<width>x<height>/<basename>. The source
// directory is omitted when the source has none, and a non-positive dimension
// is rendered empty ("x100").
func DerivePath(root, sourcePath, action string, width, height int) string {
	var parts []string
	if r := strings.Trim(root, "/"); r != "" {
		parts = append(parts, r)
	}
	if dir := path.Dir(sourcePath); dir != "." && dir != "/" {
		parts = append(parts, strings.Trim(dir, "/"))
	}
	parts = append(parts, action, dimension(width)+"x"+dimension(height), path.Base(sourcePath))
	return strings.Join(parts, "/")
}

func dimension(v int) string {
	if v < 1 {
		return ""
	}
	return strconv.Itoa(v)
}

// ReplaceExtension substitutes the extension of the basename of p
func ReplaceExtension(p, ext string) string {
	dir, base := path.Split(p)
	if old := path.Ext(base); old != "" {
		base = strings.TrimSuffix(base, old)
	}
	return dir + base + "." + strings.TrimPrefix(ext, ".")
}

// Extension returns the lower-cased extension of p without the dot
func Extension(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}
