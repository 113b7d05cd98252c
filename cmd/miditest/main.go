package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"seqgrid/audio"
	"seqgrid/midi"
	"seqgrid/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectLaunchpad()
	case "play":
		if len(os.Args) < 3 {
			usage()
			return
		}
		playDemo(os.Args[2])
	case "leds":
		testLEDs()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list         - List all MIDI ports")
	fmt.Println("  detect       - Find Launchpad X")
	fmt.Println("  play <port>  - Play the demo pattern (C4 F4 C5) to an output")
	fmt.Println("  leds         - Light the scale colours on a Launchpad")
	fmt.Println("  poll         - Watch controllers connect and disconnect")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []string
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: midi.OutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, name := range r.outs {
			fmt.Printf("  %d: %s\n", i, name)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func detectLaunchpad() {
	fmt.Println("Looking for Launchpad X...")

	found := 0
	for i, p := range gomidi.GetInPorts() {
		if midi.IsLaunchpad(p.String()) {
			fmt.Printf("Found input: %d: %s\n", i, p.String())
			found++
		}
	}
	for i, name := range midi.OutPorts() {
		if midi.IsLaunchpad(name) {
			fmt.Printf("Found output: %d: %s\n", i, name)
			found++
		}
	}

	if found >= 2 {
		fmt.Println("\nLaunchpad X detected!")
	} else {
		fmt.Println("\nLaunchpad X not found")
	}
}

// playDemo plays row 0 with columns 0, 3 and 7 selected through the same
// player the TUI uses
func playDemo(port string) {
	voice, err := audio.OpenMIDIVoice(port, 0)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	var steps []sequencer.Step
	for _, col := range []int{0, 3, 7} {
		steps = append(steps, sequencer.Step{Row: 0, Col: col, Note: sequencer.Scale[col]})
	}

	player := sequencer.NewPlayer(voice, sequencer.DefaultTiming)
	player.Play(context.Background(), steps)

	start := time.Now()
	for ev := range player.Events() {
		if ev.Kind == sequencer.EventDone {
			break
		}
		fmt.Printf("  +%4dms  %s (%d)\n", time.Since(start).Milliseconds(), sequencer.NoteName(ev.Step.Note), ev.Step.Note)
	}

	// let the last gate close
	time.Sleep(sequencer.DefaultTiming.Gate + 20*time.Millisecond)
	player.Stop()
	fmt.Println("Done!")
}

func testLEDs() {
	fmt.Println("Testing LED control...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dm := midi.NewDeviceManager()
	go dm.Run(ctx)

	var ctrl midi.Controller
	for ev := range dm.Events() {
		if ev.Type == midi.DeviceConnected {
			ctrl = ev.Controller
			break
		}
	}
	if ctrl == nil {
		fmt.Println("No Launchpad found")
		return
	}

	fmt.Println("Lighting up diagonal...")

	// one colour per scale degree, bottom-left to top-right
	colors := [][3]uint8{
		{255, 0, 0}, {255, 100, 0}, {255, 200, 0}, {0, 255, 0},
		{0, 200, 200}, {0, 100, 255}, {150, 0, 200}, {255, 255, 255},
	}
	for i, c := range colors {
		ctrl.SetLEDBatch([]midi.LEDUpdate{{Row: i, Col: i, Color: c}})
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	// the manager clears the pads when it closes the controller
	cancel()
	for range dm.Events() {
	}
	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Watching for Launchpads...")
	fmt.Println("Connect/disconnect Launchpad to test. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dm := midi.NewDeviceManager()
	go dm.Run(ctx)

	for ev := range dm.Events() {
		fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), ev.ID, ev.Type)

		active := "none"
		if lp := dm.GetLaunchpad(); lp != nil {
			active = lp.ID()
		}
		fmt.Printf("  connected: %d  active: %s\n", len(dm.Controllers()), active)
	}
}
