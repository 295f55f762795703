package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/facade"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: plasmazones daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: plasmazones daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "zones":
		os.Exit(runZones(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "snap":
		os.Exit(runSnap(os.Args[2:]))
	case "unsnap":
		os.Exit(runUnsnap(os.Args[2:]))
	case "float":
		os.Exit(runFloat(os.Args[2:]))
	case "move", "focus", "swap", "push":
		os.Exit(runDirectional(os.Args[1], os.Args[2:]))
	case "cycle":
		os.Exit(runCycle(os.Args[2:]))
	case "master":
		os.Exit(runMaster(os.Args[2:]))
	case "snap-all":
		os.Exit(runSnapAll(os.Args[2:]))
	case "events":
		os.Exit(runEvents(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plasmazones <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the zone daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  zones               List the active layout's zones")
	fmt.Fprintln(w, "  window <id>         Show tracked state of a window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  snap <id> <zones>   Snap a window into zones (comma separated ids)")
	fmt.Fprintln(w, "  unsnap <id>         Release a window from its zones")
	fmt.Fprintln(w, "  float <id> on|off   Toggle a window's floating state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  move <id> <dir>     Move a window one zone (left/right/up/down)")
	fmt.Fprintln(w, "  focus <id> <dir>    Focus the window in the adjacent zone")
	fmt.Fprintln(w, "  swap <id> <dir>     Swap a window with the adjacent zone")
	fmt.Fprintln(w, "  push <id> <dir>     Push a window to the furthest zone")
	fmt.Fprintln(w, "  cycle               Rotate zone occupants")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  master promote <id> Promote a window to master")
	fmt.Fprintln(w, "  master ratio <d>    Adjust the master ratio by a delta")
	fmt.Fprintln(w, "  snap-all            Realign every assigned window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  events              Stream daemon events as JSON lines")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'plasmazones <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "print status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(status)
		return 0
	}

	fmt.Printf("tracked_windows: %d\n", status.TrackedWindows)
	fmt.Printf("pending_queues:  %d\n", status.PendingQueues)
	if status.LastUsedZone != "" {
		fmt.Printf("last_used_zone:  %s\n", status.LastUsedZone)
	}
	for _, scr := range status.Screens {
		fmt.Printf("screen %s: layout=%s zones=%d tiled=%d", scr.Name, scr.LayoutName, scr.ZoneCount, scr.TiledWindows)
		if scr.Dynamic {
			fmt.Printf(" dynamic master=%s", scr.Master)
		}
		fmt.Println()
	}
	return 0
}

func runZones(args []string) int {
	fs := flag.NewFlagSet("zones", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screenName := fs.String("screen", "", "screen name (default: cursor screen)")
	jsonOut := fs.Bool("json", false, "print zones as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones zones [--screen NAME] [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	zones, err := client.ListZones(*screenName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(zones)
		return 0
	}
	for _, z := range zones {
		fmt.Printf("%d  %-20s %d,%d %dx%d\n", z.Number, z.Id, z.Rect.X, z.Rect.Y, z.Rect.Width, z.Rect.Height)
	}
	return 0
}

func runWindow(args []string) int {
	fs := flag.NewFlagSet("window", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones window <window-id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	st, err := client.GetWindowState(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(st)
	return 0
}

func runSnap(args []string) int {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screenName := fs.String("screen", "", "screen name (default: cursor screen)")
	desktop := fs.Int("desktop", 0, "virtual desktop number (0 = sticky/unknown)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones snap [--screen NAME] [--desktop N] <window-id> <zone-id>[,<zone-id>...]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	zoneIds := strings.Split(fs.Arg(1), ",")
	client := ipc.NewClient()
	if err := client.SnapWindow(fs.Arg(0), zoneIds, *screenName, *desktop); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runUnsnap(args []string) int {
	fs := flag.NewFlagSet("unsnap", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones unsnap <window-id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.UnsnapWindow(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runFloat(args []string) int {
	fs := flag.NewFlagSet("float", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones float <window-id> on|off")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	var floating bool
	switch fs.Arg(1) {
	case "on":
		floating = true
	case "off":
		floating = false
	default:
		fmt.Fprintf(os.Stderr, "expected on or off, got %q\n", fs.Arg(1))
		return 2
	}

	client := ipc.NewClient()
	if err := client.SetFloating(fs.Arg(0), floating); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDirectional(verb string, args []string) int {
	fs := flag.NewFlagSet(verb, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screenName := fs.String("screen", "", "screen name (default: cursor screen)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plasmazones %s [--screen NAME] <window-id> <left|right|up|down>\n", verb)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	windowId, direction := fs.Arg(0), fs.Arg(1)
	var err error
	switch verb {
	case "move":
		err = client.MoveWindow(windowId, direction, *screenName)
	case "focus":
		err = client.FocusWindow(windowId, direction, *screenName)
	case "swap":
		err = client.SwapWindow(windowId, direction, *screenName)
	case "push":
		err = client.PushWindow(windowId, direction, *screenName)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCycle(args []string) int {
	fs := flag.NewFlagSet("cycle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screenName := fs.String("screen", "", "screen name (default: cursor screen)")
	ccw := fs.Bool("ccw", false, "rotate counter-clockwise")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones cycle [--screen NAME] [--ccw]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if err := client.CycleWindows(!*ccw, *screenName); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMaster(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  plasmazones master promote [--screen NAME] <window-id>")
		fmt.Fprintln(os.Stderr, "  plasmazones master ratio [--screen NAME] <delta>")
		return 2
	}

	switch args[0] {
	case "promote":
		fs := flag.NewFlagSet("master promote", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		screenName := fs.String("screen", "", "screen name (default: cursor screen)")
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: plasmazones master promote [--screen NAME] <window-id>")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fs.Usage()
			return 2
		}
		client := ipc.NewClient()
		if err := client.PromoteMaster(fs.Arg(0), *screenName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "ratio":
		fs := flag.NewFlagSet("master ratio", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		screenName := fs.String("screen", "", "screen name (default: cursor screen)")
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: plasmazones master ratio [--screen NAME] <delta>")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fs.Usage()
			return 2
		}
		delta, err := strconv.ParseFloat(fs.Arg(0), 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid delta %q\n", fs.Arg(0))
			return 2
		}
		client := ipc.NewClient()
		if err := client.AdjustMasterRatio(*screenName, delta); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown master command: %s\n", args[0])
		return 2
	}
}

func runSnapAll(args []string) int {
	fs := flag.NewFlagSet("snap-all", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	screenName := fs.String("screen", "", "screen name (default: cursor screen)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones snap-all [--screen NAME]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	count, err := client.SnapAll(*screenName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("snapped %d windows\n", count)
	return 0
}

func runEvents(args []string) int {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plasmazones events")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Stream daemon events as JSON lines until interrupted.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	enc := json.NewEncoder(os.Stdout)
	err := client.SubscribeEvents(func(ev facade.Event) {
		enc.Encode(ev)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
