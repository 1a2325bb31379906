package naming

import (
	"path/filepath"
)

// rowSuffix names a first-level shelf directory ("カ" → "カ行").
const rowSuffix = "行"

// TargetDir returns the shelf directory for a group code.
//
//	firstDirOnly: <baseDir>/<X>行
//	otherwise:    <baseDir>/<X>行/<code>
//
// X is the first character of code. code must be non-empty; callers check it
// with kana.IsDirectoryCode first.
func TargetDir(baseDir, code string, firstDirOnly bool) string {
	first := []rune(code)[0]
	row := filepath.Join(baseDir, string(first)+rowSuffix)
	if firstDirOnly {
		return row
	}
	return filepath.Join(row, code)
}

// TargetPath returns where filename ends up inside the shelf for code.
func TargetPath(baseDir, code, filename string, firstDirOnly bool) string {
	return filepath.Join(TargetDir(baseDir, code, firstDirOnly), filename)
}
