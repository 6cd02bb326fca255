package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rightmenu-labs/rightmenu/internal/heartbeat"
	"github.com/rightmenu-labs/rightmenu/internal/menu"
	"github.com/rightmenu-labs/rightmenu/internal/store"
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

// sandbox points the home directory and the shared store at temp dirs and
// selects the store-backed clipboard.
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RIGHTMENU_STORE", filepath.Join(home, "store"))
	t.Setenv("RIGHTMENU_CLIPBOARD", "store")
	viper.Reset()
	t.Cleanup(viper.Reset)
	resetFlags()
	return home
}

func resetFlags() {
	verbose = false
	onConflict = "ask"
	pasteJSON = false
	menuKind = ""
	menuTarget = "."
	menuJSON = false
	statusJSON = false
	settingsJSON = false
	companionOnce = false
	versionShort, versionJSON = false, false
	checkStore, checkSettings, checkTools, checkPlugin = false, false, false, false
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	resetFlags()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyThenPasteKeepBoth(t *testing.T) {
	home := sandbox(t)
	src := filepath.Join(home, "src", "report.txt")
	dst := filepath.Join(home, "dst")
	writeFile(t, src, "fresh")
	writeFile(t, filepath.Join(dst, "report.txt"), "existing")

	out, err := run(t, "", "copy", src)
	require.NoError(t, err)
	assert.Contains(t, out, "copy: 1 item(s)")

	out, err = run(t, "", "paste", "--on-conflict", "keep-both", "--json", dst)
	require.NoError(t, err)
	var res transfer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Outcomes, 1)
	assert.True(t, res.Outcomes[0].Renamed)
	assert.Equal(t, transfer.KeepBoth, res.Resolution)

	assert.Equal(t, "existing", readFile(t, filepath.Join(dst, "report.txt")))
	assert.Equal(t, "fresh", readFile(t, filepath.Join(dst, "report 1.txt")))
	assert.Equal(t, "fresh", readFile(t, src), "copy leaves the source")
}

func TestCutPasteMovesAndClearsClipboard(t *testing.T) {
	home := sandbox(t)
	src := filepath.Join(home, "src", "a.md")
	dst := filepath.Join(home, "dst")
	writeFile(t, src, "x")
	require.NoError(t, os.MkdirAll(dst, 0o755))

	_, err := run(t, "", "cut", src)
	require.NoError(t, err)
	out, err := run(t, "", "paste", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "1 transferred")

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "x", readFile(t, filepath.Join(dst, "a.md")))

	_, err = run(t, "", "paste", dst)
	assert.ErrorIs(t, err, transfer.ErrNoIntent)
}

func TestPasteAsksOnTerminal(t *testing.T) {
	home := sandbox(t)
	src := filepath.Join(home, "src", "a.txt")
	dst := filepath.Join(home, "dst")
	writeFile(t, src, "new")
	writeFile(t, filepath.Join(dst, "a.txt"), "old")

	_, err := run(t, "", "copy", src)
	require.NoError(t, err)
	out, err := run(t, "1\n", "paste", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "What should happen?")
	assert.Equal(t, "new", readFile(t, filepath.Join(dst, "a.txt")))
}

func TestPasteRejectsUnknownResolution(t *testing.T) {
	sandbox(t)
	_, err := run(t, "", "paste", "--on-conflict", "overwrite-all", ".")
	assert.Error(t, err)
}

func TestMenuFollowsSettings(t *testing.T) {
	home := sandbox(t)
	file := filepath.Join(home, "doc.txt")
	writeFile(t, file, "")

	out, err := run(t, "", "menu", "--json", "--target", home)
	require.NoError(t, err)
	var items []menu.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []string{"newFile", "copyPath", "openInTerminal"}, menu.Keys(items))

	_, err = run(t, "", "copy", file)
	require.NoError(t, err)
	_, err = run(t, "", "settings", "set", "enableCut", "false")
	require.NoError(t, err)

	out, err = run(t, "", "menu", "--json", file)
	require.NoError(t, err)
	items = nil
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []string{"newFile", "copy", "paste", "copyPath", "openInTerminal"}, menu.Keys(items))

	out, err = run(t, "", "menu", "--kind", "toolbar")
	require.NoError(t, err)
	assert.Contains(t, out, "no menu items")
}

func TestNewFileAndCopyPath(t *testing.T) {
	home := sandbox(t)
	dir := filepath.Join(home, "work")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	out, err := run(t, "", "new-file", "md", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Untitled Markdown.md"), strings.TrimSpace(out))
	out, err = run(t, "", "new-file", "md", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Untitled Markdown 1.md"), strings.TrimSpace(out))

	_, err = run(t, "", "new-file", "rtf", dir)
	assert.Error(t, err)

	_, err = run(t, "", "settings", "set", "enableNewMarkdown", "false")
	require.NoError(t, err)
	_, err = run(t, "", "new-file", "md", dir)
	assert.ErrorIs(t, err, transfer.ErrDisabled)

	out, err = run(t, "", "copy-path", filepath.Join(dir, "Untitled Markdown.md"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Untitled Markdown.md"), strings.TrimSpace(out))
	textPath, err := store.ClipboardTextPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Untitled Markdown.md"), readFile(t, textPath))
}

func TestSettingsCommands(t *testing.T) {
	sandbox(t)

	out, err := run(t, "", "settings", "get", "enablePaste")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))

	_, err = run(t, "", "settings", "set", "menuOrder", "paste,cut")
	require.NoError(t, err)
	out, err = run(t, "", "settings", "get", "menuOrder")
	require.NoError(t, err)
	assert.Equal(t, "paste,cut,newFile,copy,copyPath,openInTerminal", strings.TrimSpace(out))

	out, err = run(t, "", "settings", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ]")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, bad, "enableCut: maybe\n")
	out, err = run(t, "", "settings", "validate", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "/enableCut")

	out, err = run(t, "", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "extensionEnabled")

	_, err = run(t, "", "settings", "set", "enableTeleport", "true")
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	sandbox(t)

	out, err := run(t, "", "status", "--json")
	require.NoError(t, err)
	var st pluginStatus
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "unknown", st.Verdict)

	_, err = store.EnsureRoot()
	require.NoError(t, err)
	path, err := store.HeartbeatPath(st.PluginID)
	require.NoError(t, err)
	require.NoError(t, heartbeat.Write(path, heartbeat.Record{PluginID: st.PluginID, PID: 42, At: time.Now()}))

	out, err = run(t, "", "status", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "alive", st.Verdict)
	assert.Equal(t, 42, st.BeatPID)

	require.NoError(t, heartbeat.Write(path, heartbeat.Record{PluginID: st.PluginID, At: time.Now().Add(-12 * time.Second)}))
	out, err = run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "dead")
}

func TestCompanionOnceRevivesStalePlugin(t *testing.T) {
	home := sandbox(t)
	marker := filepath.Join(home, "revived")
	t.Setenv("RIGHTMENU_REVIVE_COMMAND", "touch "+marker)
	t.Setenv("RIGHTMENU_PROCESS_NAME", "rightmenu-test-no-such-process")

	_, err := store.EnsureRoot()
	require.NoError(t, err)
	out, err := run(t, "", "config", "get", "plugin_id")
	require.NoError(t, err)
	path, err := store.HeartbeatPath(strings.TrimSpace(out))
	require.NoError(t, err)
	require.NoError(t, heartbeat.Write(path, heartbeat.Record{At: time.Now().Add(-12 * time.Second)}))

	out, err = run(t, "", "companion", "--once")
	require.NoError(t, err)
	var probe struct {
		Verdict string `json:"verdict"`
		Revived bool   `json:"revived"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &probe))
	assert.Equal(t, "dead", probe.Verdict)
	assert.True(t, probe.Revived)

	// Close waits for the in-flight revival command.
	_, err = os.Stat(marker)
	assert.NoError(t, err, "revive command should have run")
}

func TestCompanionOnceWithoutHeartbeatIsUnknown(t *testing.T) {
	home := sandbox(t)
	marker := filepath.Join(home, "revived")
	t.Setenv("RIGHTMENU_REVIVE_COMMAND", "touch "+marker)
	t.Setenv("RIGHTMENU_PROCESS_NAME", "rightmenu-test-no-such-process")

	out, err := run(t, "", "companion", "--once")
	require.NoError(t, err)
	var got struct {
		Verdict string `json:"verdict"`
		Revived bool   `json:"revived"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "unknown", got.Verdict)
	assert.False(t, got.Revived)

	_, err = os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "nothing to revive before the plugin ever beat")
}

func TestPluginAnswersHelloAndBeats(t *testing.T) {
	sandbox(t)

	out, err := run(t, `{"id":"1","op":"hello"}`+"\n", "plugin")
	require.NoError(t, err)
	var resp struct {
		ID     string `json:"id"`
		OK     bool   `json:"ok"`
		Result struct {
			Name string `json:"name"`
			PID  int    `json:"pid"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.SplitN(out, "\n", 2)[0]), &resp))
	assert.Equal(t, "1", resp.ID)
	assert.True(t, resp.OK)
	assert.Equal(t, os.Getpid(), resp.Result.PID)

	id, err := run(t, "", "config", "get", "plugin_id")
	require.NoError(t, err)
	path, err := store.HeartbeatPath(strings.TrimSpace(id))
	require.NoError(t, err)
	rec, err := heartbeat.Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.PID)
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	sandbox(t)
	_, err := run(t, "", "config", "set", "catalog_url", "x")
	assert.Error(t, err)

	_, err = run(t, "", "config", "set", "poll_interval", "7s")
	require.NoError(t, err)
	out, err := run(t, "", "config", "get", "poll_interval")
	require.NoError(t, err)
	assert.Equal(t, "7s", strings.TrimSpace(out))
}

func TestVersionAndDoctor(t *testing.T) {
	sandbox(t)
	buildVersion = "1.2.3"

	out, err := run(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", strings.TrimSpace(out))

	out, err = run(t, "", "doctor", "--check-store", "--check-settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Store check:")
	assert.Contains(t, out, "not found, defaults apply")
}
