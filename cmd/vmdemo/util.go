package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/gopher-vm/dumbvm/vm"
)

// uintptrFlag adapts flag.Value to uintptr-valued flags (vmdemo deals
// exclusively in addresses and sizes, which flag has no native type for).
type uintptrFlag struct {
	v uintptr
}

func newUintptrFlag(fs *flag.FlagSet, name string, def uintptr, usage string) *uintptrFlag {
	f := &uintptrFlag{v: def}
	fs.Var(f, name, usage)

	return f
}

func (f *uintptrFlag) String() string {
	return fmt.Sprintf("0x%x", f.v)
}

func (f *uintptrFlag) Set(s string) error {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return err
	}

	f.v = uintptr(n)

	return nil
}

func printRegions(out io.Writer, as *vm.AddressSpace) {
	fmt.Fprintln(out, "regions:")

	for _, r := range as.Regions() {
		fmt.Fprintf(out, "  [0x%08x, 0x%08x) flags=%s\n", r.Base, r.Base+r.Size, permString(r.Flags))
	}
}

func permString(p vm.Perm) string {
	s := []byte("---")

	if p.Has(vm.PermR) {
		s[0] = 'r'
	}

	if p.Has(vm.PermW) {
		s[1] = 'w'
	}

	if p.Has(vm.PermX) {
		s[2] = 'x'
	}

	return string(s)
}
