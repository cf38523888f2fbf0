package edds2dds

import "fmt"

// Order selects how decoded blocks are laid out after the header.
type Order uint8

const (
	// OrderReversed writes the last stored block first. EDDS stores mipmaps
	// smallest to largest while DDS expects the largest first.
	OrderReversed Order = iota
	// OrderAsParsed keeps storage order.
	OrderAsParsed
)

func (o Order) String() string {
	switch o {
	case OrderReversed:
		return "reversed"
	case OrderAsParsed:
		return "as-parsed"
	default:
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
}

// ParseOrder parses the names returned by Order.String.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "reversed", "":
		return OrderReversed, nil
	case "as-parsed":
		return OrderAsParsed, nil
	default:
		return 0, fmt.Errorf("unknown block order %q", s)
	}
}

// Assemble concatenates the header and the block bytes in the given order.
func Assemble(header RawHeader, blocks []DecodedBlock, order Order) []byte {
	size := header.Len()
	for _, b := range blocks {
		size += len(b.Data)
	}

	out := make([]byte, 0, size)
	out = append(out, header.Bytes...)

	if order == OrderAsParsed {
		for _, b := range blocks {
			out = append(out, b.Data...)
		}
		return out
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		out = append(out, blocks[i].Data...)
	}

	return out
}
