package featureflag

import (
	"slices"
	"strings"
)

// FeatureFlag is a lookup map for host features that are enabled.
type FeatureFlag map[Flag]struct{}

// New returns feature flags initialized with a list of flag names. Names are
// trimmed and upper-cased so PLANETLOD_FEATURE_FLAGS=print_tree works.
func New(flags []string) FeatureFlag {
	featureFlag := make(FeatureFlag)
	for _, f := range flags {
		name := strings.ToUpper(strings.TrimSpace(f))
		if name == "" {
			continue
		}
		featureFlag[Flag(name)] = struct{}{}
	}
	return featureFlag
}

func (f FeatureFlag) IsSet(flag Flag) bool {
	_, ok := f[flag]
	return ok
}

// IfSet runs do if flag is set.
func (f FeatureFlag) IfSet(flag Flag, do func()) {
	if !f.IsSet(flag) {
		return
	}
	do()
}

// IfNotSet runs do if flag is not set.
func (f FeatureFlag) IfNotSet(flag Flag, do func()) {
	if f.IsSet(flag) {
		return
	}
	do()
}

// List returns the enabled flags sorted by name.
func (f FeatureFlag) List() []string {
	names := make([]string, 0, len(f))
	for flag := range f {
		names = append(names, string(flag))
	}
	slices.Sort(names)
	return names
}
