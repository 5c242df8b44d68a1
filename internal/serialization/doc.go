// Package serialization reads and writes tensor state dictionaries in the
// SafeTensors format:
//
//	[8 bytes: header size N (uint64 LE)]
//	[N bytes: JSON header]
//	[tensor data: raw little-endian bytes]
//
// The header maps each tensor name to its dtype (F32, F64, F16 or BF16),
// shape and [begin, end) byte offsets into the data section. The optional
// "__metadata__" entry holds string pairs; the writer stores a SHA-256 of the
// data section there and the reader verifies it when present.
//
// Example usage:
//
//	state := net.StateDict()
//	if err := serialization.WriteFile("weights.safetensors", state, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	state, meta, err := serialization.ReadFile("weights.safetensors")
package serialization
