// Package loader is the ELF-loading collaborator spec.md §1 and §6
// describe: it reduces to "parse loadable segments, hand each
// bytestring plus its executable flag to the core." It is deliberately
// thin — ELF parsing itself is delegated to github.com/yalue/elf_reader,
// the dependency robertodauria/ebpf-vm uses for the same purpose.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/yalue/elf_reader"
)

// ErrUnsupportedExecutable indicates the ELF file does not meet the
// shape the core requires: 32-bit, little-endian, RISC-V, ET_EXEC.
var ErrUnsupportedExecutable = errors.New("loader: unsupported executable")

// Segment is one PT_LOAD program header's payload plus its executable
// flag, exactly the shape the core's Hart.Load expects.
type Segment struct {
	Data       []byte
	Executable bool
}

// LoadFile reads path, parses it as an ELF file, validates it per
// spec.md §6, and returns one Segment per PT_LOAD program header.
func LoadFile(path string) ([]Segment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return LoadBytes(raw)
}

// LoadBytes is LoadFile without the filesystem read, split out for
// testing against in-memory fixtures.
func LoadBytes(raw []byte) ([]Segment, error) {
	f, err := elf_reader.ParseELFFile(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExecutable, err)
	}
	if err := validate(f); err != nil {
		return nil, err
	}
	headerCount, err := f.GetProgramHeaderCount()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExecutable, err)
	}
	var segments []Segment
	for i := uint16(0); i < headerCount; i++ {
		hdr, err := f.GetProgramHeaderInfo(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedExecutable, err)
		}
		if hdr.Type != elf_reader.PT_LOAD {
			continue
		}
		data, err := f.GetProgramHeaderContent(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedExecutable, err)
		}
		segments = append(segments, Segment{
			Data:       data,
			Executable: hdr.Flags&elf_reader.ProgramHeaderExecutableFlag != 0,
		})
	}
	return segments, nil
}

// validate enforces the shape spec.md §6 requires: 32-bit ELF,
// little-endian, RISC-V machine type, executable file type.
func validate(f elf_reader.ELFFile) error {
	class, err := f.GetFileClass()
	if err != nil || class != elf_reader.ELFCLASS32 {
		return fmt.Errorf("%w: not a 32-bit ELF", ErrUnsupportedExecutable)
	}
	order, err := f.GetFileDataEncoding()
	if err != nil || order != elf_reader.ELFDATA2LSB {
		return fmt.Errorf("%w: not little-endian", ErrUnsupportedExecutable)
	}
	machine, err := f.GetFileMachine()
	if err != nil || machine != elf_reader.EM_RISCV {
		return fmt.Errorf("%w: not a RISC-V image", ErrUnsupportedExecutable)
	}
	fileType, err := f.GetFileType()
	if err != nil || fileType != elf_reader.ET_EXEC {
		return fmt.Errorf("%w: not a statically linked executable", ErrUnsupportedExecutable)
	}
	return nil
}
