package securestore

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "session.json"))
}

func TestRoundTrip_String(t *testing.T) {
	s := testStore(t)

	s.Set("lastConnectedAddress", "0x1234567890123456789012345678901234567890")

	var got string
	if !s.Get("lastConnectedAddress", &got) {
		t.Fatal("expected stored value")
	}
	if got != "0x1234567890123456789012345678901234567890" {
		t.Errorf("got %q", got)
	}
}

func TestRoundTrip_Struct(t *testing.T) {
	type hint struct {
		Address string `json:"address"`
		ChainID int64  `json:"chain_id"`
	}

	s := testStore(t)
	want := hint{Address: "0xabc", ChainID: 56}
	s.Set("hint", want)

	var got hint
	if !s.Get("hint", &got) {
		t.Fatal("expected stored value")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGet_MissingKey(t *testing.T) {
	s := testStore(t)

	var out string
	if s.Get("absent", &out) {
		t.Error("Get on missing key should return false")
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	s.Set("k", "v")
	s.Delete("k")

	var out string
	if s.Get("k", &out) {
		t.Error("deleted key should not be retrievable")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := Open(path)
	first.Set("lastConnectedAddress", "0xabc")

	second := Open(path)
	var got string
	if !second.Get("lastConnectedAddress", &got) {
		t.Fatal("expected value to survive reopen")
	}
	if got != "0xabc" {
		t.Errorf("got %q", got)
	}
}

// The on-disk value is base64(json(value)) — reversible obfuscation, not
// encryption. The raw value must not appear in the file, but decoding
// must require nothing beyond base64.
func TestEncoding_IsReversibleObfuscation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := Open(path)
	s.Set("k", "plainly-visible?")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var onDisk map[string]string
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatal(err)
	}

	encoded, ok := onDisk["k"]
	if !ok {
		t.Fatal("expected key in file")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("stored value must be plain base64: %v", err)
	}

	var value string
	if err := json.Unmarshal(decoded, &value); err != nil {
		t.Fatal(err)
	}
	if value != "plainly-visible?" {
		t.Errorf("decoded %q", value)
	}
}

func TestOpen_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	var out string
	if s.Get("anything", &out) {
		t.Error("corrupt store should behave as empty")
	}

	// And remain usable.
	s.Set("k", "v")
	if !s.Get("k", &out) || out != "v" {
		t.Error("store should recover after corruption")
	}
}

func TestSet_UnserializableValueSwallowed(t *testing.T) {
	s := testStore(t)

	// Channels cannot be JSON-marshaled; the failure must be swallowed.
	s.Set("bad", make(chan int))

	var out string
	if s.Get("bad", &out) {
		t.Error("unserializable value should not be stored")
	}
}
