// wadextract lists or extracts lumps from a Doom WAD file, the thin
// host-side glue needed to pull GENMIDI and D_* music lumps out of a game
// IWAD/PWAD for use with musdump, muswav or musplay.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/opl3-go/musdoom/internal/wad"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("wadextract: ")

	if len(os.Args) < 2 {
		log.Fatal("usage: wadextract <wadfile> [lumpname]")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	f, err := wad.Load(data)
	if err != nil {
		log.Fatal(err)
	}

	if len(os.Args) < 3 {
		fmt.Printf("%s, %d lumps\n", f.Kind, len(f.Lumps))
		for i, l := range f.Lumps {
			fmt.Printf("  %4d: %-8s  size: %d\n", i, l.Name, len(l.Data()))
		}
		return
	}

	lumpName := os.Args[2]
	lump, ok := f.Find(lumpName)
	if !ok {
		log.Fatalf("lump %q not found", lumpName)
	}

	outName := lump.Name + ".lmp"
	if err := os.WriteFile(outName, lump.Data(), 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("extracted %q (%d bytes) to %s\n", lump.Name, len(lump.Data()), outName)
}
