package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/n64lab/n64core/machine"
	"github.com/n64lab/n64core/video"
)

func main() {
	bootPath := flag.String("boot", "", "PIF boot ROM path (required)")
	cartPath := flag.String("cart", "", "cartridge ROM path (required)")
	steps := flag.Uint64("steps", 1_000_000, "number of system steps to run")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: n64run -boot pifdata.bin -cart game.z64\n\nRuns the interpreter core for a fixed number of steps with no video output attached.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *bootPath == "" || *cartPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	boot, err := os.ReadFile(*bootPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cart, err := os.ReadFile(*cartPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	n64, err := machine.New(boot, cart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sink := &video.MostRecentSink{}
	for i := uint64(0); i < *steps; i++ {
		n64.Step(sink)
	}

	if frame, ok := sink.Take(); ok {
		fmt.Printf("scanned out a %dx%d frame\n", frame.Width, frame.Height)
	} else {
		fmt.Println("no frame scanned out")
	}
}
