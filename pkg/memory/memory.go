// Package memory models the AT93C86A address space: 1024 words of 16 bits
// each, addressed by a 10-bit address.
//
// Addresses are never rejected. Any value wider than 10 bits is reduced
// modulo 1024 before use, matching the physical addressing of the part.
package memory

// Address is a location in the device's address space. Only the low
// AddrBits bits are significant.
type Address uint16

// Word is the device's only data unit. Nothing narrower or wider is ever
// stored at a single address.
type Word uint16

const (
	// AddrBits is the width of the device address in bits.
	AddrBits = 10

	// Words is the number of addressable words.
	Words = 1 << AddrBits

	// AddrMask reduces an address to the device's 10-bit domain.
	AddrMask Address = Words - 1

	// Erased is the value of a word after an erase cycle. The AT93C86A
	// erases cells to all ones.
	Erased Word = 0xFFFF
)

// MaskAddress reduces a to the device's 10-bit address domain.
func MaskAddress(a Address) Address {
	return a & AddrMask
}

// Next returns the address following a, wrapping past 1023 back to 0.
func (a Address) Next() Address {
	return (a + 1) & AddrMask
}
