// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/edds2dds

package edds2dds

import "encoding/binary"

// signMask isolates the reserved high bit of a frame header.
const signMask = uint32(1) << 31

// le32 decodes a little-endian signed 32-bit integer from the first 4 bytes of b.
func le32(b []byte) int32 {
	// #nosec G115 -- two's complement reinterpretation is the wire format.
	return int32(binary.LittleEndian.Uint32(b))
}
