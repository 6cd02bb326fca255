package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrder(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{
			name:  "empty uses default",
			order: nil,
			want:  DefaultOrder,
		},
		{
			name:  "custom order kept, missing appended in default order",
			order: []string{"paste", "newFile"},
			want:  []string{"paste", "newFile", "copy", "cut", "copyPath", "openInTerminal"},
		},
		{
			name:  "unknown keys dropped",
			order: []string{"moveToTrash", "cut", "bogus"},
			want:  []string{"cut", "newFile", "copy", "paste", "copyPath", "openInTerminal"},
		},
		{
			name:  "duplicates collapse to first occurrence",
			order: []string{"copy", "cut", "copy"},
			want:  []string{"copy", "cut", "newFile", "paste", "copyPath", "openInTerminal"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOrder(tt.order))
		})
	}
}

func TestFileSourceMissingFileUsesDefaults(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "settings.yaml"))

	s, err := src.Reload()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestFileSourceReadsFlagsAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`schemaVersion: "1.0.0"
enableCut: false
enableNewWord: false
menuOrder: [paste, copyPath]
`), 0644))

	s, err := NewFileSource(path).Reload()
	require.NoError(t, err)
	assert.False(t, s.EnableCut)
	assert.False(t, s.EnableNewWord)
	assert.True(t, s.EnableCopy, "unset flags keep their default")
	assert.Equal(t, []string{"paste", "copyPath", "newFile", "copy", "cut", "openInTerminal"}, s.Order())
}

func TestFileSourceRereadsEveryReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	src := NewFileSource(path)

	s, err := src.Reload()
	require.NoError(t, err)
	assert.True(t, s.EnablePaste)

	require.NoError(t, Set(path, KeyEnablePaste, "false"))

	s, err = src.Reload()
	require.NoError(t, err)
	assert.False(t, s.EnablePaste)
}

func TestFileSourceMalformedFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menuOrder: [unclosed\n"), 0644))

	s, err := NewFileSource(path).Reload()
	require.Error(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestFileSourceIncompatibleSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemaVersion: \"2.1.0\"\nenableCut: false\n"), 0644))

	s, err := NewFileSource(path).Reload()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleSchema))
	assert.True(t, s.EnableCut, "incompatible file must not be half-applied")
}

func TestCheckCompatible(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"", true},
		{"1.0.0", true},
		{"v1.4.2", true},
		{"2.0.0", false},
		{"0.9.0", false},
		{"banana", false},
	}
	for _, tt := range tests {
		err := CheckCompatible(tt.version)
		assert.Equal(t, tt.ok, err == nil, "CheckCompatible(%q) = %v", tt.version, err)
	}
}

func TestSetAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, Set(path, KeyMenuOrder, "cut, copy ,paste"))
	require.NoError(t, Set(path, KeyEnableOpenInTerminal, "false"))

	s, err := NewFileSource(path).Reload()
	require.NoError(t, err)

	order, err := Get(s, KeyMenuOrder)
	require.NoError(t, err)
	assert.Equal(t, "cut,copy,paste,newFile,copyPath,openInTerminal", order)

	v, err := Get(s, KeyEnableOpenInTerminal)
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "enableOpenInTerminal: false", "camelCase key preserved")
	assert.Contains(t, string(data), "schemaVersion: 1.0.0")
}

func TestSetRejectsUnknownKeyAndBadBool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	assert.Error(t, Set(path, "enableTeleport", "true"))
	assert.Error(t, Set(path, KeyEnableCut, "sometimes"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "failed Set must not create the file")
}

func TestStaticSourceReturnsCopies(t *testing.T) {
	base := Defaults()
	src := Static{Settings: base}

	s, err := src.Reload()
	require.NoError(t, err)
	s.MenuOrder[0] = "mutated"
	assert.Equal(t, ActionNewFile, base.MenuOrder[0])

	_, err = Static{Err: errors.New("store offline")}.Reload()
	assert.Error(t, err)
}

func TestEnabledTemplates(t *testing.T) {
	s := Defaults()
	require.Len(t, s.EnabledTemplates(), 5)

	s.EnableNewWord = false
	s.EnableNewPPT = false
	var ids []string
	for _, tpl := range s.EnabledTemplates() {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{"txt", "xlsx", "md"}, ids)

	tpl, ok := FindTemplate("md")
	require.True(t, ok)
	assert.Equal(t, "Untitled Markdown", tpl.BaseName)
	_, ok = FindTemplate("rtf")
	assert.False(t, ok)
}
