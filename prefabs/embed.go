package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var FS embed.FS

// Dir is the on-disk directory whose files override the embedded copies.
var Dir = "prefabs"

const scriptDir = "scripts"

// Load returns a tunables file such as "ladder" or "prefabs/ladder.yaml".
func Load(name string) ([]byte, error) {
	return read(resolve(name, "", ".yaml"))
}

// LoadScript returns an input script, e.g. "climb_to_ledge" or
// "scripts/climb_to_ledge.tengo".
func LoadScript(name string) ([]byte, error) {
	return read(resolve(name, scriptDir, ".tengo"))
}

// ScriptNames lists the embedded input scripts without their extension.
func ScriptNames() []string {
	entries, err := fs.ReadDir(FS, scriptDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

func resolve(name, sub, ext string) string {
	s := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	if sub != "" {
		s = sub + "/" + strings.TrimPrefix(s, sub+"/")
	}
	if path.Ext(s) == "" {
		s += ext
	}
	return s
}

func read(clean string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	data, err := fs.ReadFile(FS, clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read %s: %w", clean, err)
	}
	return data, nil
}
