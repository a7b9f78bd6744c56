package host

import "strings"

type PluginSettingOption struct {
	Value string
	Label string
}

// PluginSettingDefinition describes a plugin config key that accepts a fixed
// set of values. Plugins publish these so the host can validate their section.
type PluginSettingDefinition struct {
	Plugin      string
	Key         string
	Title       string
	Description string
	Default     string
	Options     []PluginSettingOption
	Order       int
}

func (d PluginSettingDefinition) Validate(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	if len(d.Options) == 0 {
		return true
	}
	for _, opt := range d.Options {
		if strings.EqualFold(strings.TrimSpace(opt.Value), v) {
			return true
		}
	}
	return false
}

func (d PluginSettingDefinition) LabelOf(value string) string {
	v := strings.TrimSpace(value)
	for _, opt := range d.Options {
		if strings.EqualFold(strings.TrimSpace(opt.Value), v) {
			return opt.Label
		}
	}
	return v
}

// Resolve returns value when it is valid for this definition, else the default.
func (d PluginSettingDefinition) Resolve(value string) string {
	if d.Validate(value) {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(d.Default)
}
