package levels

import (
	"strings"
	"testing"
)

func TestEmbeddedLevels(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatalf("expected embedded levels")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := LoadLevelFromFS(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if lvl.Name != name {
				t.Fatalf("expected level name %q, got %q", name, lvl.Name)
			}
			ladders := 0
			for _, v := range lvl.Volumes {
				if v.Tag == "Ladder" {
					ladders++
				}
				if v.Size[1] <= 0 {
					t.Fatalf("volume %+v has no height", v)
				}
			}
			if ladders == 0 {
				t.Fatalf("expected at least one ladder")
			}
		})
	}
}

func TestLoadLevelNameForms(t *testing.T) {
	for _, name := range []string{"tower", "tower.json", "levels/tower.json"} {
		if _, err := LoadLevelFromFS(name); err != nil {
			t.Fatalf("LoadLevelFromFS(%q): %v", name, err)
		}
	}
	if _, err := LoadLevelFromFS("missing"); err == nil {
		t.Fatalf("expected error for missing level")
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"valid", `{"name":"x","volumes":[{"tag":"Ladder","size":[1,2,1]}]}`, ""},
		{"bad_json", `{"name":`, "unmarshal level"},
		{"untagged_volume", `{"name":"x","volumes":[{"size":[1,2,1]}]}`, "has no tag"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.src))
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("expected error containing %q, got %v", c.wantErr, err)
			}
		})
	}
}
