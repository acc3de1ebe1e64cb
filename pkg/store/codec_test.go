package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

func TestDecodeBlob(t *testing.T) {
	blob, err := DecodeBlob(`{"favicon":"https://x/f.ico","field":""}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := settings.Blob{"favicon": "https://x/f.ico", "field": ""}
	if diff := cmp.Diff(want, blob); diff != "" {
		t.Fatalf("blob mismatch (-want +got):\n%s", diff)
	}

	empty, err := DecodeBlob("")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty blob, got %v %v", empty, err)
	}
	if _, err := DecodeBlob("{"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodeNilBlob(t *testing.T) {
	raw, err := EncodeBlob(nil)
	if err != nil || raw != "{}" {
		t.Fatalf("EncodeBlob(nil) = %q, %v", raw, err)
	}
}
