package coverage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/sigurn/crc8"
)

// crc8Table is the standard CRC-8/SMBUS table; the checksum only needs to
// catch accidental truncation or bit-rot in a locally written artifact, not
// resist tampering.
var crc8Table = crc8.MakeTable(crc8.CRC8)

// magic identifies a coyote coverage artifact so Read can reject foreign
// files before touching JSON.
var magic = [4]byte{'c', 'y', 'o', 't'}

// WriteOptions controls how a Snapshot is persisted.
type WriteOptions struct {
	// Compress wraps the JSON payload in a zstd stream when true.
	Compress bool
}

// Write serializes snap as JSON and writes it to path behind a header of
// magic bytes, a compression flag, a CRC-8 checksum of the payload, and the
// payload length. When opts.Compress is set the JSON payload is
// zstd-compressed before the checksum is computed over the compressed bytes.
func Write(path string, snap Snapshot, opts WriteOptions) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("coverage: marshal snapshot: %w", err)
	}

	var compressedFlag byte
	if opts.Compress {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("coverage: new zstd writer: %w", err)
		}
		if _, err := enc.Write(payload); err != nil {
			_ = enc.Close()
			return fmt.Errorf("coverage: zstd compress: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("coverage: zstd close: %w", err)
		}
		payload = buf.Bytes()
		compressedFlag = 1
	}

	checksum := crc8.Checksum(payload, crc8Table)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("coverage: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, compressedFlag); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return err
	}
	var length uint64 = uint64(len(payload))
	if err := binary.Write(f, binary.LittleEndian, length); err != nil {
		return err
	}
	_, err = f.Write(payload)
	return err
}

// Read loads a Snapshot previously written by Write, verifying its CRC-8
// checksum and decompressing it if it was written with WriteOptions.Compress.
func Read(path string) (Snapshot, error) {
	var snap Snapshot

	f, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("coverage: open %s: %w", path, err)
	}
	defer f.Close()

	var gotMagic [4]byte
	if _, err := io.ReadFull(f, gotMagic[:]); err != nil {
		return snap, fmt.Errorf("coverage: read magic: %w", err)
	}
	if gotMagic != magic {
		return snap, fmt.Errorf("coverage: %s is not a coyote coverage artifact", path)
	}

	var compressedFlag byte
	if err := binary.Read(f, binary.LittleEndian, &compressedFlag); err != nil {
		return snap, fmt.Errorf("coverage: read compression flag: %w", err)
	}
	var checksum uint8
	if err := binary.Read(f, binary.LittleEndian, &checksum); err != nil {
		return snap, fmt.Errorf("coverage: read checksum: %w", err)
	}
	var length uint64
	if err := binary.Read(f, binary.LittleEndian, &length); err != nil {
		return snap, fmt.Errorf("coverage: read length: %w", err)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(f, payload); err != nil {
		return snap, fmt.Errorf("coverage: read payload: %w", err)
	}

	if got := crc8.Checksum(payload, crc8Table); got != checksum {
		return snap, fmt.Errorf("coverage: checksum mismatch in %s: got %#x, want %#x", path, got, checksum)
	}

	if compressedFlag == 1 {
		dec, err := zstd.NewReader(bytes.NewReader(payload))
		if err != nil {
			return snap, fmt.Errorf("coverage: new zstd reader: %w", err)
		}
		defer dec.Close()
		decoded, err := io.ReadAll(dec)
		if err != nil {
			return snap, fmt.Errorf("coverage: zstd decompress: %w", err)
		}
		payload = decoded
	}

	if err := json.Unmarshal(payload, &snap); err != nil {
		return snap, fmt.Errorf("coverage: unmarshal snapshot: %w", err)
	}
	return snap, nil
}
