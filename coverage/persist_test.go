package coverage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		CoverageMap: map[string][]string{"a": {"b", "c"}},
		Frequencies: map[uint64]map[string]uint64{1: {"a": 3}},
	}
}

func TestWriteReadRoundTripsUncompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.cyot")
	want := sampleSnapshot()

	if err := Write(path, want, WriteOptions{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(want.CoverageMap, got.CoverageMap) {
		t.Fatalf("coverage map mismatch: got %+v, want %+v", got.CoverageMap, want.CoverageMap)
	}
}

func TestWriteReadRoundTripsCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.cyot.zst")
	want := sampleSnapshot()

	if err := Write(path, want, WriteOptions{Compress: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(want.Frequencies, got.Frequencies) {
		t.Fatalf("frequencies mismatch: got %+v, want %+v", got.Frequencies, want.Frequencies)
	}
}

func TestReadRejectsCorruptedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.cyot")
	if err := Write(path, sampleSnapshot(), WriteOptions{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	data[len(data)-1] ^= 0xFF
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	if _, err := Read(path); err == nil {
		t.Fatalf("expected checksum mismatch error")
	}
}

func TestReadRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-coverage.bin")
	if err := os.WriteFile(path, []byte("not a coyote artifact"), 0o600); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("expected magic mismatch error")
	}
}
