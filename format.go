package edds2dds

import (
	"bytes"
	"fmt"

	"github.com/woozymasta/bcn"
)

// HeaderInfo describes the texture declared by a container header.
type HeaderInfo struct {
	FormatName  string
	Format      bcn.Format
	Width       int
	Height      int
	MipMapCount int
	DX10        bool
}

// Inspect parses a carried header as a DDS header. Decoding never needs it;
// it serves reporting and sanity checks.
func Inspect(h RawHeader) (*HeaderInfo, error) {
	r := bytes.NewReader(h.Bytes)

	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	format, name := detectFormat(header, dx10)

	mips := 1
	if (header.Caps&bcn.DDSCapsMipmap) != 0 && header.MipMapCount > 0 {
		mips = int(header.MipMapCount)
	}

	return &HeaderInfo{
		Width:       int(header.Width),
		Height:      int(header.Height),
		MipMapCount: mips,
		Format:      format,
		FormatName:  name,
		DX10:        dx10 != nil,
	}, nil
}

func detectFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (bcn.Format, string) {
	if dx10 != nil {
		return mapDxgiFormat(dx10.DXGIFormat), fmt.Sprintf("DXGI %d", dx10.DXGIFormat)
	}

	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) != 0 {
		fourCC := intToFourCC(pf.FourCC)
		switch fourCC {
		case "DXT1":
			return bcn.FormatDXT1, fourCC
		case "DXT2", "DXT3":
			return bcn.FormatDXT3, fourCC
		case "DXT4", "DXT5":
			return bcn.FormatDXT5, fourCC
		case "ATI1", "BC4U", "BC4S":
			return bcn.FormatBC4, fourCC
		case "ATI2", "BC5U", "BC5S":
			return bcn.FormatBC5, fourCC
		default:
			return bcn.FormatUnknown, fourCC
		}
	}

	if (pf.Flags&bcn.DDSPFRGB) != 0 && (pf.Flags&bcn.DDSPFAlphaPixels) != 0 && pf.RGBBitCount == 32 {
		switch {
		case pf.RBitMask == 0x000000ff && pf.BBitMask == 0x00ff0000:
			return bcn.FormatRGBA8, "RGBA8"
		case pf.RBitMask == 0x00ff0000 && pf.BBitMask == 0x000000ff:
			return bcn.FormatBGRA8, "BGRA8"
		}
	}

	if (pf.Flags&bcn.DDSPFLuminance) != 0 && pf.RGBBitCount == 8 {
		return bcn.FormatRGBA8, "LUMINANCE8"
	}

	return bcn.FormatUnknown, "UNKNOWN"
}

func mapDxgiFormat(dxgiFormat uint32) bcn.Format {
	switch dxgiFormat {
	case 71, 72:
		return bcn.FormatDXT1
	case 74, 75:
		return bcn.FormatDXT3
	case 77, 78:
		return bcn.FormatDXT5
	case 80, 81:
		return bcn.FormatBC4
	case 83, 84:
		return bcn.FormatBC5
	case 87, 91:
		return bcn.FormatBGRA8
	case 28, 29:
		return bcn.FormatRGBA8
	default:
		return bcn.FormatUnknown
	}
}

func intToFourCC(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}
