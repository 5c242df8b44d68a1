package serialization

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/born-ml/floatbench/internal/tensor"
)

// Write encodes stateDict to w in SafeTensors format.
//
// Tensors are laid out in alphabetical order by name. The metadata is
// copied into the header together with the SHA-256 of the data section
// under ChecksumKey. Tensor bytes are written as stored, which is
// little-endian on every supported platform.
func Write(w io.Writer, stateDict map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := maps.Keys(stateDict)
	slices.Sort(names)

	header := make(map[string]any, len(names)+1)
	digest := sha256.New()

	var offset int64
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		raw := stateDict[name]
		dtype, ok := dtypeToSafeTensors(raw.DType())
		if !ok {
			return fmt.Errorf("tensor %q: %w %s", name, ErrUnsupportedDType, raw.DType())
		}

		shape := make([]int64, len(raw.Shape()))
		for i, dim := range raw.Shape() {
			shape[i] = int64(dim)
		}
		size := int64(raw.ByteSize())
		header[name] = tensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
		digest.Write(raw.Data()[:size])
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[ChecksumKey] = hex.EncodeToString(digest.Sum(nil))
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, name := range names {
		raw := stateDict[name]
		if _, err := w.Write(raw.Data()[:raw.ByteSize()]); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}
	return nil
}

// WriteFile writes stateDict to a new file at path.
func WriteFile(path string, stateDict map[string]*tensor.RawTensor, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	buf := bufio.NewWriter(file)
	if err := Write(buf, stateDict, metadata); err != nil {
		return err
	}
	return buf.Flush()
}
