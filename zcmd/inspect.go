package zcmd

import (
	"fmt"
	"io"
	"strings"

	"go.brendoncarroll.net/star"

	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
	"github.com/DustinCampbell/ZDebug-sub001/zop"
	"github.com/DustinCampbell/ZDebug-sub001/ztext"
	"github.com/DustinCampbell/ZDebug-sub001/zvm"
)

var header = star.Command{
	Metadata: star.Metadata{
		Short: "print the story header",
		Tags:  []string{"inspect"},
	},
	Pos: []star.IParam{storyParam},
	F: func(c star.Context) error {
		h, err := zheader.Read(zmem.New(storyParam.Load(c)))
		if err != nil {
			return err
		}
		return PrintHeader(c.StdOut, h)
	},
}

type field struct {
	k string
	v any
}

func PrintHeader(w io.Writer, h *zheader.Header) error {
	rows := []field{
		{"Version", h.Version},
		{"Release", h.ReleaseNumber},
		{"Serial", h.SerialNumber},
		{"Flags 1", fmt.Sprintf("%08b", h.Flags1)},
		{"Flags 2", fmt.Sprintf("%016b", h.Flags2)},
		{"High memory", hex(h.HighMemoryBase)},
		{"Initial PC", hex(h.InitialPC)},
		{"Dictionary", hex(h.Dictionary)},
		{"Objects", hex(h.ObjectTable)},
		{"Globals", hex(h.Globals)},
		{"Static memory", hex(h.StaticMemoryBase)},
		{"Abbreviations", hex(h.Abbreviations)},
		{"File size", h.FileSize},
		{"Checksum", hex(h.Checksum)},
	}
	if h.Version >= 5 {
		rows = append(rows, []field{
			{"Terminating chars", hex(h.TerminatingChars)},
			{"Alphabet table", hex(h.AlphabetTable)},
			{"Header extension", hex(h.HeaderExtension)},
			{"Unicode table", hex(h.UnicodeTranslation)},
		}...)
	}
	if h.Version == 6 || h.Version == 7 {
		rows = append(rows, []field{
			{"Routines offset", hex(h.RoutinesOffset)},
			{"Strings offset", hex(h.StringsOffset)},
		}...)
	}
	if h.InformVersion != "" {
		rows = append(rows, field{"Inform", h.InformVersion})
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-18s %v\n", r.k+":", r.v); err != nil {
			return err
		}
	}
	return nil
}

// hex formats a header word.
func hex(x uint16) string {
	return fmt.Sprintf("%#06x", x)
}

var disasm = star.Command{
	Metadata: star.Metadata{
		Short: "disassemble instructions starting at an address, or the initial PC",
		Tags:  []string{"inspect"},
	},
	Flags: []star.IParam{addrParam, countParam},
	Pos:   []star.IParam{storyParam},
	F: func(c star.Context) error {
		m := zmem.New(storyParam.Load(c))
		addr := addrParam.Load(c)
		if addr == 0 {
			var err error
			if addr, err = entryPoint(m); err != nil {
				return err
			}
		}
		return Disassemble(c.StdOut, m, addr, countParam.Load(c))
	},
}

// entryPoint returns the address of the first instruction the story runs.
func entryPoint(m *zmem.Memory) (int, error) {
	v, err := zheader.ReadVersion(m)
	if err != nil {
		return 0, err
	}
	pc, err := zheader.ReadInitialPC(m)
	if err != nil {
		return 0, err
	}
	if v != 6 {
		return int(pc), nil
	}
	// version 6 starts by calling a routine with no locals
	addr, err := zheader.UnpackRoutineAddress(m, pc)
	return addr + 1, err
}

// Disassemble writes up to n instructions starting at addr.  It stops early at
// an instruction it cannot decode, reporting the error.
func Disassemble(w io.Writer, m *zmem.Memory, addr, n int) error {
	v, err := zheader.ReadVersion(m)
	if err != nil {
		return err
	}
	table, err := zop.TableFor(v)
	if err != nil {
		return err
	}
	codec, err := ztext.NewCodec(m)
	if err != nil {
		return err
	}
	dec := zinstr.NewDecoder(table)
	for i := 0; i < n; i++ {
		ins, err := dec.DecodeAt(m, addr)
		if err != nil {
			return err
		}
		line := ins.String()
		if len(ins.Text) > 0 {
			if s, err := codec.Decode(ins.Text); err == nil {
				line += fmt.Sprintf(" %q", s)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		addr = ins.Next()
	}
	return nil
}

var objects = star.Command{
	Metadata: star.Metadata{
		Short: "print the object tree",
		Tags:  []string{"inspect"},
	},
	Pos: []star.IParam{storyParam},
	F: func(c star.Context) error {
		vm, err := zvm.New(storyParam.Load(c), zvm.Env{})
		if err != nil {
			return err
		}
		return PrintObjects(c.StdOut, vm)
	},
}

// PrintObjects writes every root object and its descendants, indented by depth.
func PrintObjects(w io.Writer, vm *zvm.Machine) error {
	t := vm.Objects()
	count, err := t.Count()
	if err != nil {
		return err
	}
	var visit func(obj uint16, depth int) error
	visit = func(obj uint16, depth int) error {
		name, err := vm.ObjectName(obj)
		if err != nil {
			return err
		}
		attrs, err := t.Attributes(obj)
		if err != nil {
			return err
		}
		props, err := t.Properties(obj)
		if err != nil {
			return err
		}
		nums := make([]string, len(props))
		for i, p := range props {
			nums[i] = fmt.Sprint(p.Number)
		}
		fmt.Fprintf(w, "%s[%d] %q attrs=%v props=[%s]\n", strings.Repeat("  ", depth), obj, name, attrs, strings.Join(nums, " "))
		children, err := t.Children(obj)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := visit(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for obj := 1; obj <= count; obj++ {
		parent, err := t.Parent(uint16(obj))
		if err != nil {
			return err
		}
		if parent != 0 {
			continue
		}
		if err := visit(uint16(obj), 0); err != nil {
			return err
		}
	}
	return nil
}

var dict = star.Command{
	Metadata: star.Metadata{
		Short: "list the dictionary",
		Tags:  []string{"inspect"},
	},
	Pos: []star.IParam{storyParam},
	F: func(c star.Context) error {
		vm, err := zvm.New(storyParam.Load(c), zvm.Env{})
		if err != nil {
			return err
		}
		d := vm.Dictionary()
		entries, err := d.Entries()
		if err != nil {
			return err
		}
		c.Printf("separators: %q\n", d.Separators())
		for _, e := range entries {
			c.Printf("%05x %-12s % x\n", e.Address, e.Text, e.Data)
		}
		return nil
	},
}

var verify = star.Command{
	Metadata: star.Metadata{
		Short: "check the story's checksum",
		Tags:  []string{"inspect"},
	},
	Pos: []star.IParam{storyParam},
	F: func(c star.Context) error {
		m := zmem.New(storyParam.Load(c))
		if err := zheader.VerifyChecksum(m); err != nil {
			return err
		}
		sum, err := zheader.ReadChecksum(m)
		if err != nil {
			return err
		}
		c.Printf("checksum %#04x OK\n", sum)
		return nil
	},
}
