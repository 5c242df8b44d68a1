package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/floatbench/internal/tensor"
)

// Read decodes a SafeTensors stream into CPU tensors and the header
// metadata. The checksum is verified when the metadata carries one.
func Read(r io.Reader) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", truncated(err))
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", truncated(err))
	}

	metas, metadata, err := parseHeader(headerJSON)
	if err != nil {
		return nil, nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, nil, err
	}
	if sum, ok := metadata[ChecksumKey]; ok {
		if err := ValidateChecksum(data, sum); err != nil {
			return nil, nil, err
		}
	}

	state := make(map[string]*tensor.RawTensor, len(metas))
	for _, m := range metas {
		raw, err := tensor.NewRaw(m.Shape, m.DType, tensor.CPU)
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %q: %w", m.Name, err)
		}
		copy(raw.Data(), data[m.Offset:m.Offset+m.Size])
		state[m.Name] = raw
	}
	return state, metadata, nil
}

// ReadFile reads a SafeTensors file.
func ReadFile(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Read(bufio.NewReader(file))
}

func parseHeader(headerJSON []byte) ([]TensorMeta, map[string]string, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &entries); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}

	metadata := map[string]string{}
	if rawMeta, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(rawMeta, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(entries, metadataKey)
	}
	if len(entries) > MaxTensorCount {
		return nil, nil, &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(entries), MaxTensorCount),
		}
	}

	metas := make([]TensorMeta, 0, len(entries))
	for name, rawEntry := range entries {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var h tensorHeader
		if err := json.Unmarshal(rawEntry, &h); err != nil {
			return nil, nil, fmt.Errorf("tensor %q: failed to parse header entry: %w", name, err)
		}
		dtype, ok := safeTensorsToDType(h.DType)
		if !ok {
			return nil, nil, fmt.Errorf("tensor %q: %w %q", name, ErrUnsupportedDType, h.DType)
		}

		shape := make(tensor.Shape, len(h.Shape))
		for i, dim := range h.Shape {
			if dim > math.MaxInt {
				return nil, nil, sizeOverflow(name, h)
			}
			shape[i] = int(dim)
		}
		if err := shape.Validate(); err != nil {
			return nil, nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		byteSize, ok := shape.CheckedByteSize(dtype.Size())
		if !ok {
			return nil, nil, sizeOverflow(name, h)
		}

		m := TensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  shape,
			Offset: h.DataOffsets[0],
			Size:   h.DataOffsets[1] - h.DataOffsets[0],
		}
		if want := int64(byteSize); m.Size != want {
			return nil, nil, &ValidationError{
				Type:    "size_mismatch",
				Tensor:  name,
				Details: fmt.Sprintf("%s%v needs %d bytes, offsets span %d", h.DType, h.Shape, want, m.Size),
			}
		}
		metas = append(metas, m)
	}
	return metas, metadata, nil
}

func sizeOverflow(name string, h tensorHeader) error {
	return &ValidationError{
		Type:    "size_overflow",
		Tensor:  name,
		Details: fmt.Sprintf("%s%v overflows the addressable size", h.DType, h.Shape),
	}
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
