package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/microwire-protocol/microwire-go/internal/simulator"
	"github.com/microwire-protocol/microwire-go/pkg/device"
	"github.com/microwire-protocol/microwire-go/pkg/memory"
)

// console drives a Device from a readline loop. It keeps one caller-owned
// image buffer for the copy/paste commands.
type console struct {
	dev   *device.Device
	sim   *simulator.Simulator
	image *memory.Image
	rl    *readline.Instance
}

func newConsole(dev *device.Device, sim *simulator.Simulator) (*console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "eeprom> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &console{dev: dev, sim: sim, rl: rl}, nil
}

func (c *console) run() error {
	defer c.rl.Close()

	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "read", "r":
			c.cmdRead(args)

		case "write", "w":
			c.cmdWrite(args)

		case "erase", "e":
			c.cmdErase(args)

		case "ewen":
			c.report(c.dev.EnableWrites())

		case "ewds":
			c.report(c.dev.DisableWrites())

		case "dump", "d":
			c.report(c.dev.DumpTo(c.rl.Stdout()))

		case "copy":
			c.cmdCopy()

		case "paste":
			c.cmdPaste()

		case "save":
			c.cmdSave(args)

		case "load":
			c.cmdLoad(args)

		case "wstr":
			c.cmdWriteString(args)

		case "rstr":
			c.cmdReadString(args)

		case "demo":
			c.cmdDemo()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return nil

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprint(c.rl.Stdout(), `Commands:
  read <addr>            read one word
  write <addr> <word>    write one word (ewen first)
  erase <addr>           erase one word (ewen first)
  ewen / ewds            enable / disable writes
  dump                   dump all 1024 words
  copy / paste           snapshot memory to buffer / write buffer back
  save <file>            save the copy buffer to an image file
  load <file>            load an image file into the copy buffer
  wstr <addr> <text>     write a packed string
  rstr <addr> [words]    read a packed string (default 32 words)
  demo                   run the bring-up demo sequence
  quit                   exit
Addresses and words accept 0x-prefixed hex.
`)
}

func (c *console) report(err error) {
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "error: %v\n", err)
	}
}

func (c *console) parseAddr(s string) (memory.Address, bool) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad address %q: %v\n", s, err)
		return 0, false
	}
	return memory.MaskAddress(memory.Address(v)), true
}

func (c *console) parseWord(s string) (memory.Word, bool) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad word %q: %v\n", s, err)
		return 0, false
	}
	return memory.Word(v), true
}

func (c *console) cmdRead(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: read <addr>")
		return
	}
	addr, ok := c.parseAddr(args[0])
	if !ok {
		return
	}
	word, err := c.dev.ReadWord(addr)
	if err != nil {
		c.report(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "%#06x: %#06x\n", uint16(addr), uint16(word))
}

func (c *console) cmdWrite(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.rl.Stdout(), "usage: write <addr> <word>")
		return
	}
	addr, ok := c.parseAddr(args[0])
	if !ok {
		return
	}
	word, ok := c.parseWord(args[1])
	if !ok {
		return
	}
	c.report(c.dev.WriteWord(addr, word))
}

func (c *console) cmdErase(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: erase <addr>")
		return
	}
	addr, ok := c.parseAddr(args[0])
	if !ok {
		return
	}
	c.report(c.dev.EraseWord(addr))
}

func (c *console) cmdCopy() {
	img, err := c.dev.CopyToImage()
	if err != nil {
		c.report(err)
		return
	}
	c.image = img
	fmt.Fprintln(c.rl.Stdout(), "copied 1024 words")
}

func (c *console) cmdPaste() {
	if c.image == nil {
		fmt.Fprintln(c.rl.Stdout(), "nothing copied yet")
		return
	}
	if err := c.dev.PasteFromImage(c.image); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "pasted 1024 words")
}

func (c *console) cmdSave(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: save <file>")
		return
	}
	if c.image == nil {
		fmt.Fprintln(c.rl.Stdout(), "nothing copied yet")
		return
	}
	if err := c.image.Save(args[0]); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "saved image to %s\n", args[0])
}

func (c *console) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: load <file>")
		return
	}
	img, err := memory.LoadImage(args[0])
	if err != nil {
		c.report(err)
		return
	}
	c.image = img
	fmt.Fprintf(c.rl.Stdout(), "loaded image from %s (paste to write it)\n", args[0])
}

func (c *console) cmdWriteString(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "usage: wstr <addr> <text>")
		return
	}
	addr, ok := c.parseAddr(args[0])
	if !ok {
		return
	}
	c.report(c.dev.WriteString(addr, strings.Join(args[1:], " ")))
}

func (c *console) cmdReadString(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(c.rl.Stdout(), "usage: rstr <addr> [words]")
		return
	}
	addr, ok := c.parseAddr(args[0])
	if !ok {
		return
	}
	maxWords := 32
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 1 {
			fmt.Fprintf(c.rl.Stdout(), "bad word count %q\n", args[1])
			return
		}
		maxWords = v
	}
	text, err := c.dev.ReadString(addr, maxWords)
	if err != nil {
		c.report(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "%#06x: %q\n", uint16(addr), text)
}

// cmdDemo runs the bring-up sequence the driver was originally developed
// with: enable writes, erase and program a few scattered words, read them
// back, then dump the whole array.
func (c *console) cmdDemo() {
	out := c.rl.Stdout()

	steps := []struct {
		desc string
		fn   func() error
	}{
		{"write enable", c.dev.EnableWrites},
		{"erase 0x00", func() error { return c.dev.EraseWord(0x00) }},
		{"erase 0x10", func() error { return c.dev.EraseWord(0x10) }},
		{"erase 0x20", func() error { return c.dev.EraseWord(0x20) }},
		{"write 0x00 <- 0xBABA", func() error { return c.dev.WriteWord(0x00, 0xBABA) }},
		{"write 0x10 <- 0xDEAD", func() error { return c.dev.WriteWord(0x10, 0xDEAD) }},
		{"write 0x20 <- 0xBEEF", func() error { return c.dev.WriteWord(0x20, 0xBEEF) }},
	}
	for _, step := range steps {
		fmt.Fprintf(out, "%s\n", step.desc)
		if err := step.fn(); err != nil {
			c.report(err)
			return
		}
	}

	for _, addr := range []memory.Address{0x00, 0x10, 0x20} {
		word, err := c.dev.ReadWord(addr)
		if err != nil {
			c.report(err)
			return
		}
		fmt.Fprintf(out, "read %#06x: %#06x\n", uint16(addr), uint16(word))
	}

	if err := c.dev.EraseWord(0x10); err != nil {
		c.report(err)
		return
	}
	word, err := c.dev.ReadWord(0x10)
	if err != nil {
		c.report(err)
		return
	}
	fmt.Fprintf(out, "read 0x10 after erase: %#06x\n", uint16(word))

	c.report(c.dev.DumpTo(out))
}
