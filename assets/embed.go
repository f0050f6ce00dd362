// assets/embed.go
//
// Files compiled into the binary:
//   - palettes.txt: built-in symbol palettes (see internal/palette).
//   - sql/*.sql:    schema migrations, applied in lexical order.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed palettes.txt sql/*.sql
var FS embed.FS

// readLines returns the non-blank, non-comment lines of an embedded file.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// PaletteLines returns the palette definitions, one per line.
func PaletteLines() ([]string, error) {
	return readLines("palettes.txt")
}

// Migrations exposes the sql directory as its own root.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
