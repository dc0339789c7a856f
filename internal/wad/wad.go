// Package wad reads just enough of Doom's WAD container format to pull out
// named lumps (GENMIDI, D_* music tracks) for the player to consume. It does
// not understand any of the game data lumps, only the directory structure.
package wad

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerSize = 12
	lumpSize   = 16
)

// Lump describes one entry in a WAD's directory.
type Lump struct {
	Name string
	data []byte
}

// Data returns the lump's raw bytes.
func (l Lump) Data() []byte { return l.data }

// File is a parsed WAD directory plus access to each lump's bytes.
type File struct {
	Kind  string // "IWAD" or "PWAD"
	Lumps []Lump
}

// Load parses a WAD file's header and lump directory and reads every lump's
// data into memory.
func Load(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("wad: file shorter than header")
	}

	kind := string(data[0:4])
	if kind != "IWAD" && kind != "PWAD" {
		return nil, fmt.Errorf("wad: not a WAD file (got %q)", kind)
	}

	numLumps := int(int32(binary.LittleEndian.Uint32(data[4:8])))
	tableOffset := int(int32(binary.LittleEndian.Uint32(data[8:12])))

	if numLumps < 0 || tableOffset < 0 || tableOffset+numLumps*lumpSize > len(data) {
		return nil, fmt.Errorf("wad: lump directory out of range")
	}

	f := &File{Kind: kind, Lumps: make([]Lump, numLumps)}
	for i := 0; i < numLumps; i++ {
		entry := data[tableOffset+i*lumpSize : tableOffset+(i+1)*lumpSize]
		filePos := int(int32(binary.LittleEndian.Uint32(entry[0:4])))
		size := int(int32(binary.LittleEndian.Uint32(entry[4:8])))
		name := strings.TrimRight(string(entry[8:16]), "\x00")

		if filePos < 0 || size < 0 || filePos+size > len(data) {
			return nil, fmt.Errorf("wad: lump %q out of range", name)
		}

		f.Lumps[i] = Lump{Name: name, data: data[filePos : filePos+size]}
	}

	return f, nil
}

// Find returns the named lump, case-insensitively, and whether it was
// present.
func (f *File) Find(name string) (Lump, bool) {
	for _, l := range f.Lumps {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Lump{}, false
}
