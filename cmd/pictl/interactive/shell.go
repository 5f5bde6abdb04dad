// Package interactive provides the interactive shell for pictl.
package interactive

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/revpi-tools/picontrol-go/pkg/catalog"
	"github.com/revpi-tools/picontrol-go/pkg/picontrol"
	"github.com/revpi-tools/picontrol-go/pkg/variable"
)

// Shell handles interactive mode for pictl.
type Shell struct {
	drv *picontrol.Driver
	dec *variable.Decoder
	reg *catalog.Registry
	rl  *readline.Instance
}

// New creates a new interactive shell over the given driver handle.
// The registry may be nil; name resolution then falls back to the driver's
// own variable lookup.
func New(drv *picontrol.Driver, reg *catalog.Registry) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pictl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		drv: drv,
		dec: variable.NewDecoder(drv),
		reg: reg,
		rl:  rl,
	}, nil
}

// Close releases the readline instance.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run starts the interactive command loop. It returns when the user exits.
func (s *Shell) Run() error {
	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "open":
			if s.drv.Open() {
				fmt.Fprintf(s.rl.Stdout(), "%s open\n", s.drv.Path())
			} else {
				fmt.Fprintf(s.rl.Stdout(), "cannot open %s\n", s.drv.Path())
			}

		case "close":
			if err := s.drv.Close(); err != nil {
				fmt.Fprintf(s.rl.Stdout(), "close: %v\n", err)
			}

		case "status":
			s.cmdStatus()

		case "read", "r":
			s.cmdRead(args)

		case "write", "w":
			s.cmdWrite(args)

		case "get":
			s.cmdGetBit(args)

		case "set":
			s.cmdSetBit(args)

		case "dump", "d":
			s.cmdDump(args)

		case "find":
			s.cmdFind(args)

		case "vars", "ls":
			s.cmdVars(args)

		case "reset":
			if s.drv.Reset() {
				fmt.Fprintln(s.rl.Stdout(), "driver reset")
			} else {
				fmt.Fprintln(s.rl.Stdout(), "reset not confirmed")
			}

		case "quit", "exit", "q":
			return nil

		default:
			fmt.Fprintf(s.rl.Stdout(), "unknown command %q (try help)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	out := s.rl.Stdout()
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  open / close / status      Handle lifecycle")
	fmt.Fprintln(out, "  read <name>                Read a variable")
	fmt.Fprintln(out, "  write <name> <value>       Write a variable")
	fmt.Fprintln(out, "  get <addr> <bit>           Read a single bit")
	fmt.Fprintln(out, "  set <addr> <bit> <0|1>     Write a single bit")
	fmt.Fprintln(out, "  dump <offset> <length>     Hex-dump an image region")
	fmt.Fprintln(out, "  find <name>                Resolve a variable via the driver")
	fmt.Fprintln(out, "  vars [device]              List cataloged variables")
	fmt.Fprintln(out, "  reset                      Reset the piControl driver")
	fmt.Fprintln(out, "  quit                       Leave the shell")
}

func (s *Shell) cmdStatus() {
	out := s.rl.Stdout()
	state := "closed"
	if s.drv.IsOpen() {
		state = "open"
	}
	fmt.Fprintf(out, "device:  %s (%s)\n", s.drv.Path(), state)
	if s.reg != nil {
		fmt.Fprintf(out, "catalog: %d variables\n", s.reg.Len())
	} else {
		fmt.Fprintln(out, "catalog: none (driver lookup only)")
	}
}

func (s *Shell) cmdRead(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: read <name>")
		return
	}
	d, err := s.resolve(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
		return
	}
	if !s.drv.Open() {
		fmt.Fprintf(s.rl.Stdout(), "cannot open %s\n", s.drv.Path())
		return
	}
	v, err := s.dec.Read(d)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "read: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s = %s (raw % x)\n", args[0], v, v.Raw())
}

func (s *Shell) cmdWrite(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: write <name> <value>")
		return
	}
	d, err := s.resolve(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
		return
	}
	num, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "value %q: %v\n", args[1], err)
		return
	}
	if !s.drv.Open() {
		fmt.Fprintf(s.rl.Stdout(), "cannot open %s\n", s.drv.Path())
		return
	}

	if d.IsBit() {
		err = s.dec.Write(d, variable.Bit(num != 0))
	} else {
		raw := make([]byte, 4)
		for i := range raw {
			raw[i] = byte(num >> (8 * i))
		}
		var v variable.Value
		if v, err = variable.FromRaw(raw[:d.ByteLength()]); err == nil {
			err = s.dec.Write(d, v)
		}
	}
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "write: %v\n", err)
	}
}

func (s *Shell) cmdGetBit(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: get <addr> <bit>")
		return
	}
	addr, bit, err := parseBitAddr(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
		return
	}
	if !s.drv.Open() {
		fmt.Fprintf(s.rl.Stdout(), "cannot open %s\n", s.drv.Path())
		return
	}
	v := 0
	if s.drv.GetBit(addr, bit) {
		v = 1
	}
	fmt.Fprintf(s.rl.Stdout(), "bit %d.%d = %d\n", addr, bit, v)
}

func (s *Shell) cmdSetBit(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: set <addr> <bit> <0|1>")
		return
	}
	addr, bit, err := parseBitAddr(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
		return
	}
	value, err := strconv.ParseUint(args[2], 10, 1)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "value %q must be 0 or 1\n", args[2])
		return
	}
	if !s.drv.Open() {
		fmt.Fprintf(s.rl.Stdout(), "cannot open %s\n", s.drv.Path())
		return
	}
	s.drv.SetBit(addr, bit, value != 0)
}

func (s *Shell) cmdDump(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: dump <offset> <length>")
		return
	}
	offset, err1 := strconv.ParseInt(args[0], 0, 64)
	length, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(s.rl.Stdout(), "Usage: dump <offset> <length>")
		return
	}
	if !s.drv.Open() {
		fmt.Fprintf(s.rl.Stdout(), "cannot open %s\n", s.drv.Path())
		return
	}
	data, err := s.drv.Read(offset, length)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "read: %v\n", err)
		return
	}
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(s.rl.Stdout(), "%6d: % x\n", offset+int64(i), data[i:end])
	}
}

func (s *Shell) cmdFind(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: find <name>")
		return
	}
	if !s.drv.Open() {
		fmt.Fprintf(s.rl.Stdout(), "cannot open %s\n", s.drv.Path())
		return
	}
	info, err := s.drv.FindVariable(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "find: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s: address %d, bit %d, length %d bits\n",
		info.Name, info.Address, info.Bit, info.Length)
}

func (s *Shell) cmdVars(args []string) {
	if s.reg == nil {
		fmt.Fprintln(s.rl.Stdout(), "no catalog loaded")
		return
	}
	entries := s.reg.Entries()
	if len(args) == 1 {
		entries = s.reg.Device(args[0])
	}
	for _, e := range entries {
		fmt.Fprintf(s.rl.Stdout(), "%-24s %-12s %s\n", e.Name, e.Device, e.Descriptor)
	}
}

// resolve turns a variable name into a descriptor, preferring the catalog
// and falling back to the driver's own lookup.
func (s *Shell) resolve(name string) (variable.Descriptor, error) {
	if s.reg != nil {
		if e, ok := s.reg.Lookup(name); ok {
			return e.Descriptor, nil
		}
	}
	if !s.drv.Open() {
		return variable.Descriptor{}, fmt.Errorf("variable %q not in catalog and cannot open %s", name, s.drv.Path())
	}
	info, err := s.drv.FindVariable(name)
	if err != nil {
		return variable.Descriptor{}, err
	}
	d := variable.Descriptor{
		Address:   int(info.Address),
		BitLength: int(info.Length),
	}
	if info.Length == 1 && info.Bit < 8 {
		d.BitOffset = info.Bit
	}
	return d, nil
}

func parseBitAddr(addrArg, bitArg string) (uint16, uint8, error) {
	addr, err := strconv.ParseUint(addrArg, 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("address %q: %w", addrArg, err)
	}
	bit, err := strconv.ParseUint(bitArg, 10, 8)
	if err != nil || bit > 7 {
		return 0, 0, fmt.Errorf("bit %q must be 0-7", bitArg)
	}
	return uint16(addr), uint8(bit), nil
}
