package settings

// CurrentSchemaVersion is written by Set when a settings file is created.
const CurrentSchemaVersion = "1.0.0"

// Action keys as they appear in menuOrder.
const (
	ActionNewFile        = "newFile"
	ActionCopy           = "copy"
	ActionCut            = "cut"
	ActionPaste          = "paste"
	ActionCopyPath       = "copyPath"
	ActionOpenInTerminal = "openInTerminal"
)

// Flag keys as they appear in settings.yaml.
const (
	KeyEnableNewTXT         = "enableNewTXT"
	KeyEnableNewWord        = "enableNewWord"
	KeyEnableNewExcel       = "enableNewExcel"
	KeyEnableNewPPT         = "enableNewPPT"
	KeyEnableNewMarkdown    = "enableNewMarkdown"
	KeyEnableCopyPath       = "enableCopyPath"
	KeyEnableOpenInTerminal = "enableOpenInTerminal"
	KeyEnableCut            = "enableCut"
	KeyEnableCopy           = "enableCopy"
	KeyEnablePaste          = "enablePaste"
	KeyExtensionEnabled     = "extensionEnabled"
	KeyLaunchAtLogin        = "launchAtLogin"
	KeyMenuOrder            = "menuOrder"
	KeySchemaVersion        = "schemaVersion"
)

// DefaultOrder is the built-in menu order.
var DefaultOrder = []string{
	ActionNewFile,
	ActionCopy,
	ActionCut,
	ActionPaste,
	ActionCopyPath,
	ActionOpenInTerminal,
}

// Settings is one snapshot of the shared menu configuration.
type Settings struct {
	SchemaVersion        string   `mapstructure:"schemaVersion" yaml:"schemaVersion" json:"schemaVersion"`
	EnableNewTXT         bool     `mapstructure:"enableNewTXT" yaml:"enableNewTXT" json:"enableNewTXT"`
	EnableNewWord        bool     `mapstructure:"enableNewWord" yaml:"enableNewWord" json:"enableNewWord"`
	EnableNewExcel       bool     `mapstructure:"enableNewExcel" yaml:"enableNewExcel" json:"enableNewExcel"`
	EnableNewPPT         bool     `mapstructure:"enableNewPPT" yaml:"enableNewPPT" json:"enableNewPPT"`
	EnableNewMarkdown    bool     `mapstructure:"enableNewMarkdown" yaml:"enableNewMarkdown" json:"enableNewMarkdown"`
	EnableCopyPath       bool     `mapstructure:"enableCopyPath" yaml:"enableCopyPath" json:"enableCopyPath"`
	EnableOpenInTerminal bool     `mapstructure:"enableOpenInTerminal" yaml:"enableOpenInTerminal" json:"enableOpenInTerminal"`
	EnableCut            bool     `mapstructure:"enableCut" yaml:"enableCut" json:"enableCut"`
	EnableCopy           bool     `mapstructure:"enableCopy" yaml:"enableCopy" json:"enableCopy"`
	EnablePaste          bool     `mapstructure:"enablePaste" yaml:"enablePaste" json:"enablePaste"`
	ExtensionEnabled     bool     `mapstructure:"extensionEnabled" yaml:"extensionEnabled" json:"extensionEnabled"`
	LaunchAtLogin        bool     `mapstructure:"launchAtLogin" yaml:"launchAtLogin" json:"launchAtLogin"`
	MenuOrder            []string `mapstructure:"menuOrder" yaml:"menuOrder" json:"menuOrder"`
}

// Defaults returns the built-in configuration: every action enabled, the
// extension on, launch-at-login off, and the default order.
func Defaults() *Settings {
	return &Settings{
		SchemaVersion:        CurrentSchemaVersion,
		EnableNewTXT:         true,
		EnableNewWord:        true,
		EnableNewExcel:       true,
		EnableNewPPT:         true,
		EnableNewMarkdown:    true,
		EnableCopyPath:       true,
		EnableOpenInTerminal: true,
		EnableCut:            true,
		EnableCopy:           true,
		EnablePaste:          true,
		ExtensionEnabled:     true,
		LaunchAtLogin:        false,
		MenuOrder:            append([]string(nil), DefaultOrder...),
	}
}

// IsAction reports whether key is a known menuOrder entry.
func IsAction(key string) bool {
	for _, k := range DefaultOrder {
		if k == key {
			return true
		}
	}
	return false
}

// NormalizeOrder keeps the first occurrence of every known key in order,
// drops unknown keys, and appends keys missing from order in default order.
func NormalizeOrder(order []string) []string {
	seen := make(map[string]bool, len(DefaultOrder))
	out := make([]string, 0, len(DefaultOrder))
	for _, key := range order {
		if !IsAction(key) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	for _, key := range DefaultOrder {
		if !seen[key] {
			out = append(out, key)
		}
	}
	return out
}

// Order returns the normalized menu order of s.
func (s *Settings) Order() []string {
	return NormalizeOrder(s.MenuOrder)
}

// AnyTemplateEnabled reports whether at least one new-file template is on.
func (s *Settings) AnyTemplateEnabled() bool {
	return s.EnableNewTXT || s.EnableNewWord || s.EnableNewExcel || s.EnableNewPPT || s.EnableNewMarkdown
}

// Flags returns every boolean flag keyed by its settings.yaml name.
func (s *Settings) Flags() map[string]bool {
	return map[string]bool{
		KeyEnableNewTXT:         s.EnableNewTXT,
		KeyEnableNewWord:        s.EnableNewWord,
		KeyEnableNewExcel:       s.EnableNewExcel,
		KeyEnableNewPPT:         s.EnableNewPPT,
		KeyEnableNewMarkdown:    s.EnableNewMarkdown,
		KeyEnableCopyPath:       s.EnableCopyPath,
		KeyEnableOpenInTerminal: s.EnableOpenInTerminal,
		KeyEnableCut:            s.EnableCut,
		KeyEnableCopy:           s.EnableCopy,
		KeyEnablePaste:          s.EnablePaste,
		KeyExtensionEnabled:     s.ExtensionEnabled,
		KeyLaunchAtLogin:        s.LaunchAtLogin,
	}
}

// IsFlag reports whether key names a boolean flag.
func IsFlag(key string) bool {
	_, ok := Defaults().Flags()[key]
	return ok
}
