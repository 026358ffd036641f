package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/glance-ml/glance/internal/tensor"
)

// Maximum sizes accepted from file metadata. Guards against allocating
// absurd buffers from a corrupt or truncated file.
const (
	maxHeaderLen  = 1 << 20
	maxNameLen    = 1 << 16
	maxTensorRank = 8
)

// ReadStateDict reads a checkpoint written by WriteStateDict. The magic
// bytes, format version and payload checksum are all validated before
// any tensor is returned.
func ReadStateDict(path string, b tensor.Backend) (Header, map[string]*tensor.Tensor, error) {
	var header Header

	f, err := os.Open(path)
	if err != nil {
		return header, nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return header, nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != Magic {
		return header, nil, fmt.Errorf("not a Glance checkpoint (magic %q)", magic[:])
	}

	var headerLen uint32
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return header, nil, fmt.Errorf("failed to read header length: %w", err)
	}
	if headerLen > maxHeaderLen {
		return header, nil, fmt.Errorf("header length %d exceeds limit", headerLen)
	}
	headerJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return header, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return header, nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if err := header.validate(); err != nil {
		return header, nil, err
	}

	// The payload is checksummed as a whole, so read it fully before
	// decoding: no tensor escapes from a corrupt file.
	rest, err := io.ReadAll(r)
	if err != nil {
		return header, nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if len(rest) < 4 {
		return header, nil, fmt.Errorf("truncated checkpoint: missing checksum")
	}
	payload := rest[:len(rest)-4]
	want := binary.LittleEndian.Uint32(rest[len(rest)-4:])
	if got := crc32.ChecksumIEEE(payload); got != want {
		return header, nil, fmt.Errorf("checksum mismatch: file %08x, computed %08x", want, got)
	}

	stateDict := make(map[string]*tensor.Tensor, header.NumTensors)
	pr := bytes.NewReader(payload)
	for i := 0; i < header.NumTensors; i++ {
		name, t, err := readTensor(pr, b)
		if err != nil {
			return header, nil, fmt.Errorf("failed to read tensor %d: %w", i, err)
		}
		if _, dup := stateDict[name]; dup {
			return header, nil, fmt.Errorf("duplicate tensor name %q", name)
		}
		stateDict[name] = t
	}
	if pr.Len() != 0 {
		return header, nil, fmt.Errorf("trailing %d bytes after last tensor", pr.Len())
	}

	return header, stateDict, nil
}

func readTensor(r *bytes.Reader, b tensor.Backend) (string, *tensor.Tensor, error) {
	var nameLen uint32
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return "", nil, err
	}
	if nameLen > maxNameLen {
		return "", nil, fmt.Errorf("name length %d exceeds limit", nameLen)
	}
	nameBuf := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return "", nil, err
	}
	name := string(nameBuf)

	var rank uint32
	if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
		return name, nil, err
	}
	if rank > maxTensorRank {
		return name, nil, fmt.Errorf("rank %d exceeds limit", rank)
	}
	shape := make(tensor.Shape, rank)
	for i := range shape {
		var dim uint64
		if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
			return name, nil, err
		}
		shape[i] = int(dim)
	}
	if err := shape.Validate(); err != nil {
		return name, nil, err
	}

	buf := make([]byte, 4*shape.NumElements())
	if _, err := io.ReadFull(r, buf); err != nil {
		return name, nil, err
	}
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return name, tensor.New(data, shape, b), nil
}
