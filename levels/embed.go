package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a static climbing course: a ground plane, a spawn point and a set
// of box volumes.
type Level struct {
	Name    string   `json:"name"`
	GroundY float64  `json:"ground_y"`
	Spawn   Spawn    `json:"spawn"`
	Volumes []Volume `json:"volumes"`
}

type Spawn struct {
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

// Volume is a box centred at Position with full extents Size. Yaw is in
// degrees about +Y. Tag selects how actors react to it.
type Volume struct {
	Tag      string     `json:"tag"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Size     [3]float64 `json:"size"`
	Solid    bool       `json:"solid"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	name = path.Clean(strings.TrimPrefix(name, "levels/"))
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	for i, v := range lvl.Volumes {
		if strings.TrimSpace(v.Tag) == "" {
			return nil, fmt.Errorf("level %q: volume %d has no tag", lvl.Name, i)
		}
	}
	return &lvl, nil
}

// Names lists the embedded levels without extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out
}
