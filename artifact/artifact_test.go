package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/shadergraph"
)

func gradientProgram(t *testing.T) *shadergraph.Program {
	t.Helper()
	b := shadergraph.NewBuilder()
	p, err := b.Program(nil, func() shadergraph.Value {
		uv := b.Builtin("uv").ToVar("uv")
		return b.Vec3(uv.X(), uv.Y(), b.Time().Sin().Mul(0.5).Add(0.5))
	})
	if err != nil {
		t.Fatalf("Program() error = %v", err)
	}
	return p
}

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	out, err := shadergraph.TranslateProgram(gradientProgram(t), shadergraph.Target{})
	if err != nil {
		t.Fatalf("TranslateProgram() error = %v", err)
	}
	return FromProgram("gradient", shadergraph.Target{}, out)
}

func TestDigestRoundTrip(t *testing.T) {
	b := testBundle(t)
	key, err := b.Key()
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	parsed, err := ParseDigest(key.String())
	if err != nil {
		t.Fatalf("ParseDigest() error = %v", err)
	}
	if parsed != key {
		t.Errorf("ParseDigest(%s) = %s", key, parsed)
	}

	for _, bad := range []string{"zz", "abcd"} {
		if _, err := ParseDigest(bad); err == nil {
			t.Errorf("ParseDigest(%q) succeeded", bad)
		}
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	k1, err := testBundle(t).Key()
	if err != nil {
		t.Fatal(err)
	}
	k2, err := testBundle(t).Key()
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Errorf("keys differ: %s, %s", k1, k2)
	}
}

func TestFromProgram(t *testing.T) {
	b := testBundle(t)
	if b.Backend != "wgsl" {
		t.Errorf("Backend = %q, want wgsl", b.Backend)
	}
	if len(b.Stages) != 2 {
		t.Fatalf("len(Stages) = %d, want 2", len(b.Stages))
	}
	frag, ok := b.Stage("fragment")
	if !ok {
		t.Fatal("no fragment stage")
	}
	if !strings.Contains(frag.Source, "@fragment") {
		t.Errorf("fragment source:\n%s", frag.Source)
	}
	if _, ok := b.Stage("compute"); ok {
		t.Error("unexpected compute stage")
	}

	names := make(map[string]int)
	for _, r := range b.Resources() {
		names[r.Name]++
	}
	for _, want := range []string{"iTime", "iResolution"} {
		if names[want] != 1 {
			t.Errorf("resource %s listed %d times, want 1", want, names[want])
		}
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	b := testBundle(t)
	data, err := b.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Name != b.Name || len(got.Stages) != len(b.Stages) {
		t.Errorf("Unmarshal() = %+v", got)
	}

	b.Schema = schemaVersion + 1
	data, err = b.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(data); err == nil {
		t.Error("Unmarshal() accepted a foreign schema")
	}
}

func TestCachePutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	b := testBundle(t)
	key, err := c.Put(b)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if again, err := c.Put(b); err != nil || again != key {
		t.Errorf("second Put() = %s, %v; want %s", again, err, key)
	}

	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	frag, _ := got.Stage("fragment")
	want, _ := b.Stage("fragment")
	if frag.Source != want.Source {
		t.Errorf("cached fragment differs:\n%s", frag.Source)
	}

	entries, err := os.ReadDir(filepath.Join(c.Dir(), "bundles"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tmp-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, ok, err := c.Get(Digest{1})
	if err != nil || ok {
		t.Errorf("Get(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestCacheDropAll(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll() on empty cache error = %v", err)
	}
	key, err := c.Put(testBundle(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll() error = %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Error("bundle survived DropAll")
	}
}

func TestOpenDefaultDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	c, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if want := filepath.Join(base, "sgc"); c.Dir() != want {
		t.Errorf("Dir() = %q, want %q", c.Dir(), want)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if _, err := c.Put(testBundle(t)); err != nil {
		t.Errorf("nil Put() error = %v", err)
	}
	if _, ok, err := c.Get(Digest{}); ok || err != nil {
		t.Errorf("nil Get() = %v, %v", ok, err)
	}
}
