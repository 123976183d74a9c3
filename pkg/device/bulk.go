package device

import (
	"fmt"
	"io"
	"iter"

	"github.com/microwire-protocol/microwire-go/pkg/frame"
	"github.com/microwire-protocol/microwire-go/pkg/memory"
)

// Entry is one (address, word) pair produced by a full scan.
type Entry struct {
	Addr memory.Address
	Word memory.Word
}

// Dump lazily scans all 1024 addresses in ascending order. The sequence is
// finite and restartable: each iteration rescans the hardware. A bus fault
// is yielded once as the error value and ends the sequence.
func (d *Device) Dump() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for a := range memory.Words {
			addr := memory.Address(a)
			word, err := d.ReadWord(addr)
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if !yield(Entry{Addr: addr, Word: word}, nil) {
				return
			}
		}
	}
}

// DumpTo writes a full memory dump to w as a hex table, sixteen words per
// row.
func (d *Device) DumpTo(w io.Writer) error {
	fmt.Fprintf(w, "Addr  | Data\n")
	fmt.Fprintf(w, "------+------\n")

	for entry, err := range d.Dump() {
		if err != nil {
			return err
		}
		if entry.Addr%16 == 0 {
			if entry.Addr != 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%04X  |", uint16(entry.Addr))
		}
		fmt.Fprintf(w, " %04X", uint16(entry.Word))
	}
	_, err := fmt.Fprintln(w)
	return err
}

// CopyToImage reads the full address space into a fresh image. The copy is
// all-or-nothing: a bus fault discards the partial image and returns only
// the error, so a caller never observes a half-valid snapshot.
func (d *Device) CopyToImage() (*memory.Image, error) {
	var img memory.Image
	for entry, err := range d.Dump() {
		if err != nil {
			return nil, fmt.Errorf("copy aborted: %w", err)
		}
		img[entry.Addr] = entry.Word
	}
	return &img, nil
}

// PasteFromImage writes every word of img back to its own address.
// EnableWrites must have been issued first.
func (d *Device) PasteFromImage(img *memory.Image) error {
	return d.WriteWords(0, img[:])
}

// WriteWords writes words to consecutive addresses starting at start. The
// address is masked and auto-incremented per word, wrapping past 1023 back
// to 0. EnableWrites must have been issued first.
func (d *Device) WriteWords(start memory.Address, words []memory.Word) error {
	addr := memory.MaskAddress(start)
	for _, w := range words {
		if err := d.WriteWord(addr, w); err != nil {
			return err
		}
		addr = addr.Next()
	}
	return nil
}

// WriteString packs text two characters per word, high byte first, and
// writes it starting at start. The stored string always ends with a zero
// byte. EnableWrites must have been issued first.
func (d *Device) WriteString(start memory.Address, text string) error {
	return d.WriteWords(start, memory.PackString(text))
}

// ReadString reads words starting at start until a zero byte appears in
// either half of a word or maxWords words have been read, and unpacks them
// into a string.
func (d *Device) ReadString(start memory.Address, maxWords int) (string, error) {
	addr := memory.MaskAddress(start)
	words := make([]memory.Word, 0, maxWords)

	for range maxWords {
		word, err := d.ReadWord(addr)
		if err != nil {
			return "", err
		}
		words = append(words, word)
		if word>>8 == 0 || word&0xFF == 0 {
			break
		}
		addr = addr.Next()
	}
	return memory.UnpackString(words), nil
}

// EraseAll erases every address in the device. EnableWrites must have been
// issued first.
func (d *Device) EraseAll() error {
	for a := range memory.Words {
		if _, _, err := d.Execute(frame.EraseWord(memory.Address(a)), OwnSession); err != nil {
			return err
		}
	}
	return nil
}
