package menu

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
	"github.com/rightmenu-labs/rightmenu/internal/settings"
)

type countingBoard struct {
	clipboard.Memory
	hasFiles bool
	checks   int
}

func (b *countingBoard) HasFiles() bool {
	b.checks++
	return b.hasFiles
}

func TestBuildDefaultOrder(t *testing.T) {
	board := &countingBoard{hasFiles: true}
	b := NewBuilder(settings.Static{Settings: settings.Defaults()}, board, nil)

	got := Keys(b.Build(Context{Kind: Items, Selection: []string{"/a/x.txt"}}))
	want := []string{"newFile", "copy", "cut", "paste", "copyPath", "openInTerminal"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("menu keys mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildVisibility(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*settings.Settings)
		ctx      Context
		hasFiles bool
		want     []string
	}{
		{
			name: "container hides cut and copy",
			ctx:  Context{Kind: Container, Target: "/a"},
			want: []string{"newFile", "copyPath", "openInTerminal"},
		},
		{
			name: "items without selection hides cut and copy",
			ctx:  Context{Kind: Items},
			want: []string{"newFile", "copyPath", "openInTerminal"},
		},
		{
			name:     "paste needs files on the clipboard",
			ctx:      Context{Kind: Container, Target: "/a"},
			hasFiles: true,
			want:     []string{"newFile", "paste", "copyPath", "openInTerminal"},
		},
		{
			name: "all templates off drops the submenu",
			mutate: func(s *settings.Settings) {
				s.EnableNewTXT, s.EnableNewWord, s.EnableNewExcel, s.EnableNewPPT, s.EnableNewMarkdown = false, false, false, false, false
			},
			ctx:  Context{Kind: Container},
			want: []string{"copyPath", "openInTerminal"},
		},
		{
			name: "custom order with unknown key and missing keys",
			mutate: func(s *settings.Settings) {
				s.MenuOrder = []string{"openInTerminal", "moveToTrash", "cut"}
			},
			ctx:  Context{Kind: Items, Selection: []string{"/a/b"}},
			want: []string{"openInTerminal", "cut", "newFile", "copy", "copyPath"},
		},
		{
			name:   "extension disabled",
			mutate: func(s *settings.Settings) { s.ExtensionEnabled = false },
			ctx:    Context{Kind: Items, Selection: []string{"/a/b"}},
			want:   []string{},
		},
		{
			name: "toolbar is not contextual",
			ctx:  Context{Kind: Toolbar},
			want: []string{},
		},
		{
			name: "sidebar is not contextual",
			ctx:  Context{Kind: Sidebar, Selection: []string{"/a"}},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Defaults()
			if tt.mutate != nil {
				tt.mutate(s)
			}
			b := NewBuilder(settings.Static{Settings: s}, &countingBoard{hasFiles: tt.hasFiles}, nil)
			got := Keys(b.Build(tt.ctx))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("menu keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTemplateSubmenu(t *testing.T) {
	s := settings.Defaults()
	s.EnableNewWord = false
	b := NewBuilder(settings.Static{Settings: s}, nil, nil)

	items := b.Build(Context{Kind: Container})
	if len(items) == 0 || items[0].Key != "newFile" {
		t.Fatalf("first item = %+v, want newFile submenu", items)
	}
	got := Keys(items[0].Children)
	want := []string{"newFile:txt", "newFile:xlsx", "newFile:pptx", "newFile:md"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("template keys mismatch (-want +got):\n%s", diff)
	}
}

func TestClipboardCheckedOnlyWhenPasteEnabled(t *testing.T) {
	s := settings.Defaults()
	s.EnablePaste = false
	board := &countingBoard{hasFiles: true}
	b := NewBuilder(settings.Static{Settings: s}, board, nil)

	for _, k := range Keys(b.Build(Context{Kind: Container})) {
		if k == "paste" {
			t.Fatal("paste shown while disabled")
		}
	}
	if board.checks != 0 {
		t.Errorf("clipboard checked %d times with paste disabled", board.checks)
	}
}

func TestSettingsErrorFallsBackToDefaults(t *testing.T) {
	b := NewBuilder(settings.Static{Err: errors.New("store offline")}, nil, nil)
	got := Keys(b.Build(Context{Kind: Container}))
	want := []string{"newFile", "copyPath", "openInTerminal"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fallback menu mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsReloadedEveryBuild(t *testing.T) {
	src := &sequenceSource{}
	b := NewBuilder(src, nil, nil)

	b.Build(Context{Kind: Container})
	b.Build(Context{Kind: Container})
	if src.calls != 2 {
		t.Errorf("Reload called %d times, want 2", src.calls)
	}
}

type sequenceSource struct{ calls int }

func (s *sequenceSource) Reload() (*settings.Settings, error) {
	s.calls++
	return settings.Defaults(), nil
}

// For any flags and order, the menu is the normalized order filtered to the
// keys that are enabled and applicable.
func TestOrderProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	pool := append([]string{"bogus", "moveToTrash"}, settings.DefaultOrder...)

	for i := 0; i < 300; i++ {
		s := settings.Defaults()
		s.EnableCut = r.Intn(2) == 0
		s.EnableCopy = r.Intn(2) == 0
		s.EnablePaste = r.Intn(2) == 0
		s.EnableCopyPath = r.Intn(2) == 0
		s.EnableOpenInTerminal = r.Intn(2) == 0
		s.EnableNewTXT = r.Intn(3) == 0
		s.EnableNewMarkdown = r.Intn(3) == 0
		s.EnableNewWord, s.EnableNewExcel, s.EnableNewPPT = false, false, false
		s.MenuOrder = nil
		for n := r.Intn(8); n > 0; n-- {
			s.MenuOrder = append(s.MenuOrder, pool[r.Intn(len(pool))])
		}
		hasFiles := r.Intn(2) == 0
		ctx := Context{Kind: Kind(r.Intn(2))}
		if r.Intn(2) == 0 {
			ctx.Selection = []string{"/x"}
		}

		enabled := map[string]bool{
			"newFile":        s.AnyTemplateEnabled(),
			"cut":            s.EnableCut && len(ctx.Selection) > 0 && ctx.Kind == Items,
			"copy":           s.EnableCopy && len(ctx.Selection) > 0 && ctx.Kind == Items,
			"paste":          s.EnablePaste && hasFiles,
			"copyPath":       s.EnableCopyPath,
			"openInTerminal": s.EnableOpenInTerminal,
		}
		want := []string{}
		for _, k := range settings.NormalizeOrder(s.MenuOrder) {
			if enabled[k] {
				want = append(want, k)
			}
		}

		b := NewBuilder(settings.Static{Settings: s}, &countingBoard{hasFiles: hasFiles}, nil)
		got := Keys(b.Build(ctx))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("case %d order %v: mismatch (-want +got):\n%s", i, s.MenuOrder, diff)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"container", "Items", "SIDEBAR", "toolbar"} {
		if _, err := ParseKind(name); err != nil {
			t.Errorf("ParseKind(%q): %v", name, err)
		}
	}
	if _, err := ParseKind("desktop"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRender(t *testing.T) {
	b := NewBuilder(settings.Static{Settings: settings.Defaults()}, nil, nil)
	var buf bytes.Buffer
	if err := Render(&buf, b.Build(Context{Kind: Container})); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"New…", "newFile:md", "Copy Path", "Open in Terminal"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("rendered menu missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Render(&buf, nil); err != nil {
		t.Fatalf("Render empty: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("no menu items")) {
		t.Errorf("empty render = %q", buf.String())
	}
}
