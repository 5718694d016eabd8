package binding

import "testing"

func TestInterpolateReplacesKnownFields(t *testing.T) {
	got := Interpolate("RAM: ${ram_gib} GiB", map[string]string{"ram_gib": "16"})
	if got != "RAM: 16 GiB" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestInterpolateKeepsUnknownPlaceholder(t *testing.T) {
	got := Interpolate(`curl "${server_url}/save" -d "${PAYLOAD}"`, map[string]string{"server_url": "http://h:5000"})
	if got != `curl "http://h:5000/save" -d "${PAYLOAD}"` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestInterpolateFallback(t *testing.T) {
	got := Interpolate("${ubicacion|sin ubicación} / ${ codigo }", map[string]string{"codigo": "PC1"})
	if got != "sin ubicación / PC1" {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := Interpolate("${a|x}", nil); got != "x" {
		t.Fatalf("fallback without values: %q", got)
	}
}

func TestFields(t *testing.T) {
	got := Fields("${codigo} ${cpu_model} ${codigo} ${discos|-}")
	want := []string{"codigo", "cpu_model", "discos"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
