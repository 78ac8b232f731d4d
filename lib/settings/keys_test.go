package settings

import (
	"testing"
)

func TestKeyNamesAreDisjoint(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range InfoKeys() {
		if seen[k.Name()] {
			t.Errorf("duplicate key name %s", k.Name())
		}
		seen[k.Name()] = true
	}
	for _, k := range SettingKeys() {
		if seen[k.Name()] {
			t.Errorf("setting key %s collides with another key", k.Name())
		}
		seen[k.Name()] = true
	}
}

func TestMirrorCoversStaticKeysOnly(t *testing.T) {
	want := map[InfoKey]SettingKey{
		InfoBuild:     SettingBuild,
		InfoVersion:   SettingVersion,
		InfoCopyright: SettingCopyright,
	}
	for _, k := range InfoKeys() {
		mirror, ok := k.Mirror()
		expected, isStatic := want[k]
		if ok != isStatic {
			t.Errorf("%s.Mirror() ok = %v, want %v", k, ok, isStatic)
			continue
		}
		if ok && mirror != expected {
			t.Errorf("%s.Mirror() = %s, want %s", k, mirror, expected)
		}
	}
}

func TestEditableSettingKeys(t *testing.T) {
	for _, k := range SettingKeys() {
		editable := k == SettingReset || k == SettingEndpoint
		if k.Editable() != editable {
			t.Errorf("%s.Editable() = %v, want %v", k, k.Editable(), editable)
		}
	}
}

func TestLookupKey(t *testing.T) {
	k, ok := LookupKey("SK_RESET_APP")
	if !ok || k != SettingReset {
		t.Errorf("LookupKey(SK_RESET_APP) = %v, %v", k, ok)
	}
	k, ok = LookupKey("K_DID_OPEN_APP")
	if !ok || k != InfoDidOpenApp {
		t.Errorf("LookupKey(K_DID_OPEN_APP) = %v, %v", k, ok)
	}
	if _, ok := LookupKey("sk_reset_app"); ok {
		t.Error("lookup must be case sensitive")
	}
}

func TestOutOfRangeKeyName(t *testing.T) {
	if got := InfoKey(99).Name(); got != "InfoKey(99)" {
		t.Errorf("InfoKey(99).Name() = %q", got)
	}
	if got := SettingKey(-1).Name(); got != "SettingKey(-1)" {
		t.Errorf("SettingKey(-1).Name() = %q", got)
	}
}
