package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func withDiskDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
	return dir
}

func TestLoadLadderSpecEmbeddedMatchesDefaults(t *testing.T) {
	withDiskDir(t)
	spec, err := LoadLadderSpec()
	if err != nil {
		t.Fatalf("LoadLadderSpec: %v", err)
	}
	if *spec != DefaultLadderSpec() {
		t.Fatalf("embedded ladder.yaml drifted from defaults: %+v", *spec)
	}
}

func TestLoadPlayerSpecEmbedded(t *testing.T) {
	withDiskDir(t)
	spec, err := LoadPlayerSpec()
	if err != nil {
		t.Fatalf("LoadPlayerSpec: %v", err)
	}
	if spec.Height != 1.0 || spec.Timing.FixedStep != 0.02 || spec.Timing.MaxFixedSteps != 8 {
		t.Fatalf("unexpected player spec: %+v", *spec)
	}
}

func TestLoadLadderSpecDiskOverride(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, s *LadderSpec)
	}{
		{
			name: "partial_keeps_defaults",
			body: "regrab_cooldown: 3.0\n",
			check: func(t *testing.T, s *LadderSpec) {
				if s.RegrabCooldown != 3.0 {
					t.Fatalf("expected override 3.0, got %v", s.RegrabCooldown)
				}
				if s.ClimbSpeed != 5.0 {
					t.Fatalf("expected default climb speed, got %v", s.ClimbSpeed)
				}
			},
		},
		{name: "negative_speed", body: "climb_speed: -1\n", wantErr: true},
		{name: "rise_after_approach", body: "rise_duration: 1.0\napproach_duration: 0.5\n", wantErr: true},
		{name: "zero_drop", body: "drop_distance: 0\n", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := withDiskDir(t)
			if err := os.WriteFile(filepath.Join(dir, LadderSpecFile), []byte(c.body), 0o644); err != nil {
				t.Fatal(err)
			}
			spec, err := LoadLadderSpec()
			if c.wantErr {
				if !errors.Is(err, ErrInvalidSpec) {
					t.Fatalf("expected ErrInvalidSpec, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadLadderSpec: %v", err)
			}
			c.check(t, spec)
		})
	}
}

func TestLoadLadderSpecMalformedYAML(t *testing.T) {
	dir := withDiskDir(t)
	if err := os.WriteFile(filepath.Join(dir, LadderSpecFile), []byte("climb_speed: [1, 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadLadderSpec()
	if err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Fatalf("expected unmarshal error, got %v", err)
	}
}

func TestPlayerSpecValidate(t *testing.T) {
	bad := DefaultPlayerSpec()
	bad.Timing.MaxFixedSteps = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
	bad = DefaultPlayerSpec()
	bad.Height = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for zero height, got %v", err)
	}
	if err := DefaultPlayerSpec().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadScriptNames(t *testing.T) {
	withDiskDir(t)
	for _, name := range []string{"climb_to_ledge", "climb_to_ledge.tengo", "scripts/climb_to_ledge.tengo", "prefabs/scripts/climb_to_ledge.tengo"} {
		data, err := LoadScript(name)
		if err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
		if !strings.Contains(string(data), "move_y") {
			t.Fatalf("LoadScript(%q) returned unexpected body", name)
		}
	}
}

func TestWatcherCollapsesSettledWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(50*time.Millisecond, dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, body := range []string{"climb_speed: 6\n", "climb_speed: 7\n"} {
		if err := os.WriteFile(filepath.Join(dir, LadderSpecFile), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case c := <-w.Changes():
		if c.File != LadderSpecFile || c.Kind != ChangeTunables {
			t.Fatalf("expected tunables change for %s, got %+v", LadderSpecFile, c)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no watcher change")
	}

	time.Sleep(200 * time.Millisecond)
	if changes, _ := w.Drain(); len(changes) != 0 {
		t.Fatalf("expected one change per settled burst, got extra %+v", changes)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/ladder.yaml", ChangeTunables, true},
		{"player.YML", ChangeTunables, true},
		{"scripts/drop_off.tengo", ChangeScript, true},
		{"notes.txt", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			kind, ok := classify(tc.path)
			if kind != tc.kind || ok != tc.ok {
				t.Fatalf("classify(%q) = %v, %v; want %v, %v", tc.path, kind, ok, tc.kind, tc.ok)
			}
		})
	}
}

func TestScriptNamesListsEmbeddedScripts(t *testing.T) {
	got := ScriptNames()
	want := []string{"climb_to_ledge", "drop_off", "jump_off"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("ScriptNames() = %v, want %v", got, want)
	}
}
