package settings

import (
	"fmt"

	"github.com/go-i2p/settingsync/lib/keystore"
)

// InfoKey names an entry in the Info namespace: build-time metadata plus the
// runtime flags the application keeps for itself.
type InfoKey int

const (
	InfoBuild InfoKey = iota
	InfoVersion
	InfoCopyright
	InfoDidOpenApp
	InfoEndpoint
)

var infoKeyNames = [...]string{
	InfoBuild:      "IP_APP_BUILD",
	InfoVersion:    "IP_APP_VERSION",
	InfoCopyright:  "IP_APP_COPYRIGHT",
	InfoDidOpenApp: "K_DID_OPEN_APP",
	InfoEndpoint:   "K_APP_ENDPOINT",
}

// Name returns the raw key persisted in the store and the metadata manifest.
func (k InfoKey) Name() string {
	if k < 0 || int(k) >= len(infoKeyNames) {
		return fmt.Sprintf("InfoKey(%d)", int(k))
	}
	return infoKeyNames[k]
}

func (k InfoKey) String() string { return k.Name() }

// Mirror returns the Setting key that shows this key's build-time value.
// Only build, version and copyright are mirrored.
func (k InfoKey) Mirror() (SettingKey, bool) {
	switch k {
	case InfoBuild:
		return SettingBuild, true
	case InfoVersion:
		return SettingVersion, true
	case InfoCopyright:
		return SettingCopyright, true
	default:
		return 0, false
	}
}

// SettingKey names an entry in the Setting namespace, the keys a user sees
// and edits in the settings panel.
type SettingKey int

const (
	SettingBuild SettingKey = iota
	SettingVersion
	SettingCopyright
	SettingReset
	SettingEndpoint
)

var settingKeyNames = [...]string{
	SettingBuild:     "SK_APP_BUILD",
	SettingVersion:   "SK_APP_VERSION",
	SettingCopyright: "SK_APP_COPYRIGHT",
	SettingReset:     "SK_RESET_APP",
	SettingEndpoint:  "SK_APP_ENDPOINT",
}

func (k SettingKey) Name() string {
	if k < 0 || int(k) >= len(settingKeyNames) {
		return fmt.Sprintf("SettingKey(%d)", int(k))
	}
	return settingKeyNames[k]
}

func (k SettingKey) String() string { return k.Name() }

// Editable reports whether the settings panel may write the key. The
// mirrored metadata keys are display-only.
func (k SettingKey) Editable() bool {
	return k == SettingReset || k == SettingEndpoint
}

// StaticInfoKeys are the Info keys sourced from build-time metadata, in the
// order they are synchronized.
var StaticInfoKeys = []InfoKey{InfoBuild, InfoVersion, InfoCopyright}

// InfoKeys returns every Info key.
func InfoKeys() []InfoKey {
	return []InfoKey{InfoBuild, InfoVersion, InfoCopyright, InfoDidOpenApp, InfoEndpoint}
}

// SettingKeys returns every Setting key.
func SettingKeys() []SettingKey {
	return []SettingKey{SettingBuild, SettingVersion, SettingCopyright, SettingReset, SettingEndpoint}
}

// LookupKey resolves a raw key name from either namespace.
func LookupKey(name string) (keystore.Key, bool) {
	for _, k := range InfoKeys() {
		if k.Name() == name {
			return k, true
		}
	}
	if k, ok := LookupSettingKey(name); ok {
		return k, true
	}
	return nil, false
}

// LookupSettingKey resolves a raw Setting key name.
func LookupSettingKey(name string) (SettingKey, bool) {
	for _, k := range SettingKeys() {
		if k.Name() == name {
			return k, true
		}
	}
	return 0, false
}
