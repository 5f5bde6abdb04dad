// Command pictl reads and writes the piControl process image.
//
// It is the command-line companion to the access library: one-shot
// commands for scripts and an interactive shell for poking at variables
// while commissioning a module configuration.
//
// Usage:
//
//	pictl [flags] <command> [args]
//
// Commands:
//
//	read <name>            Read a cataloged variable
//	write <name> <value>   Write a cataloged variable
//	get <addr> <bit>       Read a single bit
//	set <addr> <bit> <0|1> Write a single bit
//	dump <offset> <length> Hex-dump a process image region
//	find <name>            Resolve a variable through the driver
//	reset                  Reset the piControl driver
//	shell                  Start the interactive shell
//
// Flags:
//
//	-device string     Device path (default "/dev/piControl0")
//	-catalog string    Variable catalog file (.rsc/.json or .yaml)
//	-log-level string  Console log level: debug, info, warn, error (default "info")
//	-log-file string   Append CBOR driver events to this file
//	-simulate          Run against an in-memory image instead of the device
//
// Examples:
//
//	# Read an input word by its piCtory name
//	pictl -catalog /etc/revpi/config.rsc read AnalogIn_1
//
//	# Switch output bit 2 at address 113 on
//	pictl set 113 2 1
//
//	# Explore interactively against a simulated image
//	pictl -simulate -catalog vars.yaml shell
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/revpi-tools/picontrol-go/cmd/pictl/interactive"
	"github.com/revpi-tools/picontrol-go/internal/mock"
	"github.com/revpi-tools/picontrol-go/pkg/catalog"
	piclog "github.com/revpi-tools/picontrol-go/pkg/log"
	"github.com/revpi-tools/picontrol-go/pkg/picontrol"
	"github.com/revpi-tools/picontrol-go/pkg/variable"
)

// Config holds the tool configuration.
type Config struct {
	Device   string
	Catalog  string
	LogLevel string
	LogFile  string
	Simulate bool
}

var config Config

func init() {
	flag.StringVar(&config.Device, "device", picontrol.DefaultPath, "Device path")
	flag.StringVar(&config.Catalog, "catalog", "", "Variable catalog file (.rsc/.json or .yaml)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Console log level: debug, info, warn, error")
	flag.StringVar(&config.LogFile, "log-file", "", "Append CBOR driver events to this file")
	flag.BoolVar(&config.Simulate, "simulate", false, "Run against an in-memory image instead of the device")
}

func main() {
	flag.Parse()

	console := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(config.LogLevel),
	}))
	slog.SetDefault(console)

	logger, closeLog, err := buildLogger(console)
	if err != nil {
		fatal("open log file: %v", err)
	}
	defer closeLog()

	cfg := picontrol.Config{Path: config.Device, Logger: logger}
	if config.Simulate {
		// 4 KiB matches the driver's process image size.
		cfg.Device = mock.NewImage(4096)
	}
	drv := picontrol.NewDriver(cfg)
	defer drv.Close()

	var reg *catalog.Registry
	if config.Catalog != "" {
		reg, err = catalog.LoadFile(config.Catalog)
		if err != nil {
			fatal("load catalog: %v", err)
		}
		slog.Debug("catalog loaded", "file", config.Catalog, "variables", reg.Len())
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(drv, reg, args[0], args[1:]); err != nil {
		fatal("%v", err)
	}
}

func run(drv *picontrol.Driver, reg *catalog.Registry, cmd string, args []string) error {
	switch cmd {
	case "read":
		return cmdRead(drv, reg, args)
	case "write":
		return cmdWrite(drv, reg, args)
	case "get":
		return cmdGetBit(drv, args)
	case "set":
		return cmdSetBit(drv, args)
	case "dump":
		return cmdDump(drv, args)
	case "find":
		return cmdFind(drv, args)
	case "reset":
		return cmdReset(drv)
	case "shell":
		sh, err := interactive.New(drv, reg)
		if err != nil {
			return err
		}
		defer sh.Close()
		return sh.Run()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdRead(drv *picontrol.Driver, reg *catalog.Registry, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: read <name>")
	}
	d, err := resolve(drv, reg, args[0])
	if err != nil {
		return err
	}

	if !drv.Open() {
		return fmt.Errorf("cannot open %s", drv.Path())
	}
	v, err := variable.NewDecoder(drv).Read(d)
	if err != nil {
		return err
	}
	fmt.Printf("%s = %s (raw % x)\n", args[0], v, v.Raw())
	return nil
}

func cmdWrite(drv *picontrol.Driver, reg *catalog.Registry, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: write <name> <value>")
	}
	d, err := resolve(drv, reg, args[0])
	if err != nil {
		return err
	}
	num, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("value %q: %w", args[1], err)
	}

	if !drv.Open() {
		return fmt.Errorf("cannot open %s", drv.Path())
	}
	dec := variable.NewDecoder(drv)
	if d.IsBit() {
		return dec.Write(d, variable.Bit(num != 0))
	}
	raw := make([]byte, 4)
	for i := range raw {
		raw[i] = byte(num >> (8 * i))
	}
	v, err := variable.FromRaw(raw[:d.ByteLength()])
	if err != nil {
		return err
	}
	return dec.Write(d, v)
}

func cmdGetBit(drv *picontrol.Driver, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: get <addr> <bit>")
	}
	addr, bit, err := parseBitAddr(args[0], args[1])
	if err != nil {
		return err
	}

	if !drv.Open() {
		return fmt.Errorf("cannot open %s", drv.Path())
	}
	set := drv.GetBit(addr, bit)
	fmt.Printf("bit %d.%d = %d\n", addr, bit, boolToInt(set))
	return nil
}

func cmdSetBit(drv *picontrol.Driver, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: set <addr> <bit> <0|1>")
	}
	addr, bit, err := parseBitAddr(args[0], args[1])
	if err != nil {
		return err
	}
	value, err := strconv.ParseUint(args[2], 10, 1)
	if err != nil {
		return fmt.Errorf("value %q must be 0 or 1", args[2])
	}

	if !drv.Open() {
		return fmt.Errorf("cannot open %s", drv.Path())
	}
	drv.SetBit(addr, bit, value != 0)
	return nil
}

func cmdDump(drv *picontrol.Driver, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: dump <offset> <length>")
	}
	offset, err := strconv.ParseInt(args[0], 0, 64)
	if err != nil {
		return fmt.Errorf("offset %q: %w", args[0], err)
	}
	length, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("length %q: %w", args[1], err)
	}

	if !drv.Open() {
		return fmt.Errorf("cannot open %s", drv.Path())
	}
	data, err := drv.Read(offset, length)
	if err != nil {
		return err
	}
	dumpHex(os.Stdout, offset, data)
	return nil
}

func cmdFind(drv *picontrol.Driver, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: find <name>")
	}
	if !drv.Open() {
		return fmt.Errorf("cannot open %s", drv.Path())
	}
	info, err := drv.FindVariable(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: address %d, bit %d, length %d bits\n",
		info.Name, info.Address, info.Bit, info.Length)
	return nil
}

func cmdReset(drv *picontrol.Driver) error {
	if !drv.Reset() {
		return fmt.Errorf("reset not confirmed by driver")
	}
	fmt.Println("driver reset")
	return nil
}

// resolve turns a variable name into a descriptor, preferring the catalog
// and falling back to the driver's own lookup.
func resolve(drv *picontrol.Driver, reg *catalog.Registry, name string) (variable.Descriptor, error) {
	if reg != nil {
		if e, ok := reg.Lookup(name); ok {
			return e.Descriptor, nil
		}
	}
	if !drv.Open() {
		return variable.Descriptor{}, fmt.Errorf("variable %q not in catalog and cannot open %s", name, drv.Path())
	}
	info, err := drv.FindVariable(name)
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

func dumpHex(w *os.File, base int64, data []byte) {
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(w, "%6d: % x\n", base+int64(i), data[i:end])
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func buildLogger(console *slog.Logger) (piclog.Logger, func(), error) {
	loggers := []piclog.Logger{piclog.NewSlogAdapter(console)}
	closeLog := func() {}

	if config.LogFile != "" {
		fl, err := piclog.NewFileLogger(config.LogFile)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeLog = func() { fl.Close() }
	}
	if len(loggers) == 1 {
		return loggers[0], closeLog, nil
	}
	return piclog.NewMultiLogger(loggers...), closeLog, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "pictl: "+format+"\n", args...)
	os.Exit(1)
}
