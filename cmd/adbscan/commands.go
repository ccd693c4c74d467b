package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/adbscan/internal/config"
	"github.com/muurk/adbscan/internal/discovery"
	"github.com/muurk/adbscan/internal/scanner"
	"github.com/muurk/adbscan/internal/ui"
)

// Scan command flags
var (
	scanPort         int
	scanTimeout      time.Duration
	handshakeTimeout time.Duration
	scanConcurrency  int
	scanProgress     bool
	scanJSON         bool
	scanInteractive  bool

	mdnsTimeout int
	mdnsWait    string
	adbPath     string

	devicesMDNS bool
	connectWait bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&adbPath, "adb", "", "Path to the adb binary (default: search PATH)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(mdnsCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(nicknameCmd)
	rootCmd.AddCommand(serverCmd)
}

// scanCmd probes an address range for listening adb daemons
var scanCmd = &cobra.Command{
	Use:   "scan [range]",
	Short: "Scan an address range for adb daemons",
	Long: `Scan an address range for listening adb daemons.

Each address is probed in two phases: a TCP connect, then a protocol
handshake that asks the daemon to identify itself. Devices that answer
the handshake are reported with their product, model and device names;
daemons that demand authentication are reported as unauthorized.

The range is CIDR notation or a single address. When omitted, the
default subnet from the configuration file is scanned.`,
	Example: `  # Scan the configured default subnet
  adbscan scan

  # Scan a specific subnet
  adbscan scan 192.168.1.0/24

  # Probe one address on a non-standard port
  adbscan scan 192.168.1.34 --port 4444

  # Machine-readable output
  adbscan scan 10.0.0.0/24 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanPort, "port", 0, "adbd port to probe (default from config, normally 5555)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "TCP connect timeout per address (default from config)")
	scanCmd.Flags().DurationVar(&handshakeTimeout, "handshake-timeout", 0, "Handshake timeout per address (default from config)")
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", 0, "Number of concurrent probes (default: CPU count)")
	scanCmd.Flags().BoolVar(&scanProgress, "progress", false, "Report connect-phase progress events")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Emit found devices as JSON")
	scanCmd.Flags().BoolVar(&scanInteractive, "interactive", true, "Render a live scan screen when stdout is a terminal")
}

// scanConfig merges the config file defaults with the command flags.
func scanConfig(prefs *config.ScanPrefs) scanner.Config {
	cfg := scanner.DefaultConfig()

	if prefs != nil {
		if prefs.Port > 0 {
			cfg.Port = prefs.Port
		}
		if prefs.TimeoutMS > 0 {
			cfg.TCPTimeout = time.Duration(prefs.TimeoutMS) * time.Millisecond
		}
		if prefs.HandshakeTimeout > 0 {
			cfg.HandshakeTimeout = time.Duration(prefs.HandshakeTimeout) * time.Millisecond
		}
		if prefs.Concurrency > 0 {
			cfg.Concurrency = prefs.Concurrency
		}
	}

	if scanPort > 0 {
		cfg.Port = scanPort
	}
	if scanTimeout > 0 {
		cfg.TCPTimeout = scanTimeout
	}
	if handshakeTimeout > 0 {
		cfg.HandshakeTimeout = handshakeTimeout
	}
	if scanConcurrency > 0 {
		cfg.Concurrency = scanConcurrency
	}
	cfg.Progress = scanProgress

	return cfg
}

func runScan(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	rangeSpec := registry.Scan.Subnet
	if len(args) == 1 {
		rangeSpec = args[0]
	}

	rng, err := scanner.ParseRange(rangeSpec)
	if err != nil {
		return err
	}

	cfg := scanConfig(registry.Scan)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var found []scanner.Outcome
	if scanInteractive && !scanJSON && ui.IsInteractive() {
		found, err = runScanInteractive(ctx, rng, cfg)
	} else {
		found, err = runScanPlain(ctx, rng, cfg)
	}
	if err != nil {
		return err
	}

	// Remember found devices for later nickname resolution
	for _, outcome := range found {
		registry.UpdateDeviceLastSeen(outcome.Addr.String(), outcome.Addr.Addr().String(), int(outcome.Addr.Port()))
		if dev := registry.GetDevice(outcome.Addr.String()); dev != nil && outcome.Identity != nil {
			dev.Model = outcome.Identity.Model
			dev.Product = outcome.Identity.Product
		}
	}
	if len(found) > 0 {
		if err := registry.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save device registry: %v\n", err)
		}
	}

	if scanJSON {
		return printScanJSON(found)
	}
	return nil
}

func runScanInteractive(ctx context.Context, rng scanner.Range, cfg scanner.Config) ([]scanner.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := scanner.New().Scan(ctx, rng, cfg)
	if err != nil {
		return nil, err
	}
	return ui.RunScan(rng.String(), cfg.Port, rng.Size(), events, cancel)
}

func runScanPlain(ctx context.Context, rng scanner.Range, cfg scanner.Config) ([]scanner.Outcome, error) {
	if !scanJSON {
		fmt.Printf("Scanning %s port %d (%d addresses)...\n\n", rng, cfg.Port, rng.Size())
	}

	events, err := scanner.New().Scan(ctx, rng, cfg)
	if err != nil {
		return nil, err
	}

	var found []scanner.Outcome
	probed := 0
	total := rng.Size()
	for event := range events {
		outcome, ok := event.(scanner.Outcome)
		if !ok {
			continue
		}
		probed++
		if scanProgress && !scanJSON {
			fmt.Fprintf(os.Stderr, "\rprobed %d/%d", probed, total)
		}
		if !outcome.Reachable {
			continue
		}
		found = append(found, outcome)
		if !scanJSON {
			if scanProgress {
				fmt.Fprint(os.Stderr, "\r\033[K")
			}
			fmt.Printf("  %s\n", outcome)
		}
	}
	if scanProgress && !scanJSON {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}

	if !scanJSON {
		if len(found) == 0 {
			fmt.Println("No devices found.")
			fmt.Println("\nTroubleshooting:")
			fmt.Println("  - Ensure network debugging is enabled on the device")
			fmt.Println("  - Check that you are scanning the right subnet")
			fmt.Println("  - Try a longer --timeout on slow networks")
			fmt.Println("  - Use 'adbscan mdns' for devices using wireless debugging")
		} else {
			fmt.Printf("\nFound %d device(s). Use 'adbscan connect <addr>' to attach one.\n", len(found))
		}
	}
	return found, nil
}

// scanResult is the JSON shape for one found device.
type scanResult struct {
	Addr         string `json:"addr"`
	Type         string `json:"type,omitempty"`
	Serial       string `json:"serial,omitempty"`
	Product      string `json:"product,omitempty"`
	Model        string `json:"model,omitempty"`
	Device       string `json:"device,omitempty"`
	Unauthorized bool   `json:"unauthorized,omitempty"`
}

func printScanJSON(found []scanner.Outcome) error {
	results := make([]scanResult, 0, len(found))
	for _, outcome := range found {
		r := scanResult{Addr: outcome.Addr.String()}
		if id := outcome.Identity; id != nil {
			r.Type = id.Type
			r.Serial = id.Serial
			r.Product = id.Product
			r.Model = id.Model
			r.Device = id.Device
			r.Unauthorized = id.AuthRequired
		}
		results = append(results, r)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// mdnsCmd browses mDNS for devices advertising adb services
var mdnsCmd = &cobra.Command{
	Use:   "mdns",
	Short: "Browse mDNS for devices advertising adb",
	Long: `Browse mDNS for devices advertising adb services.

Devices with wireless debugging enabled advertise "_adb-tls-connect._tcp";
daemons in plain tcpip mode advertise "_adb._tcp". Both are browsed.`,
	Example: `  # Browse with the configured timeout (10s by default)
  adbscan mdns

  # Quick 3-second browse
  adbscan mdns --timeout 3

  # Block until a named instance appears
  adbscan mdns --wait adb-39071FDJG0005P`,
	RunE: runMDNS,
}

func init() {
	mdnsCmd.Flags().IntVar(&mdnsTimeout, "timeout", 10, "Browse timeout in seconds (default from config)")
	mdnsCmd.Flags().StringVar(&mdnsWait, "wait", "", "Wait for a specific service instance to appear")
}

// mdnsBrowseTimeout picks the browse timeout: an explicit flag wins,
// otherwise the configured preference, otherwise the flag default.
func mdnsBrowseTimeout(flagChanged bool, flagValue int, prefs *config.ScanPrefs) int {
	if flagChanged || prefs == nil || prefs.MDNSTimeout <= 0 {
		return flagValue
	}
	return prefs.MDNSTimeout
}

func runMDNS(cmd *cobra.Command, args []string) error {
	timeout := mdnsTimeout
	if registry, err := config.LoadRegistry(); err == nil {
		timeout = mdnsBrowseTimeout(cmd.Flags().Changed("timeout"), mdnsTimeout, registry.Scan)
	}

	// The host adb can confirm whether its own mdns backend works;
	// a negative answer is worth surfacing before a browse that will
	// look empty for unrelated reasons.
	if tool, err := getTool(cmd.Context()); err == nil {
		if !tool.MDNSCheck(cmd.Context()) {
			fmt.Fprintln(os.Stderr, "note: the host adb reports no working mdns backend ('adb mdns check')")
		}
	}

	if mdnsWait != "" {
		fmt.Printf("Waiting for %s (timeout: %ds)...\n", mdnsWait, timeout)
		s := discovery.NewScanner()
		s.Timeout = time.Duration(timeout) * time.Second
		device, err := s.WaitForDevice(mdnsWait)
		if err != nil {
			return err
		}
		fmt.Printf("%s is at %s (%s)\n", device.Instance, device.Addr(), device.Service)
		return nil
	}

	fmt.Printf("Browsing mDNS for adb services (timeout: %ds)...\n\n", timeout)

	devices, err := discovery.ScanForDevices(time.Duration(timeout) * time.Second)
	if err != nil {
		return fmt.Errorf("mdns browse failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure wireless debugging is enabled on the device")
		fmt.Println("  - Devices must be on the same network segment (mDNS does not route)")
		fmt.Println("  - Check that your firewall allows UDP port 5353")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Instance)
		fmt.Printf("   Address: %s\n", device.Addr())
		fmt.Printf("   Service: %s\n", device.Service)
		if len(device.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", device.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'adbscan connect <addr>' to attach a device")
	return nil
}

// devicesCmd lists devices known to the adb server
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices known to the adb server",
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := getTool(cmd.Context())
		if err != nil {
			return err
		}

		entries, err := tool.Devices(cmd.Context())
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No devices attached.")
		}

		registry, _ := config.LoadRegistry()
		for _, entry := range entries {
			label := entry.Serial
			if registry != nil {
				if dev := registry.GetDevice(entry.Serial); dev != nil && dev.Nickname != "" {
					label = fmt.Sprintf("%s (%s)", entry.Serial, dev.Nickname)
				}
			}
			fmt.Printf("%-40s %-12s", label, entry.State)
			if entry.Model != "" {
				fmt.Printf(" model:%s", entry.Model)
			}
			if entry.Product != "" {
				fmt.Printf(" product:%s", entry.Product)
			}
			fmt.Println()
		}

		if devicesMDNS {
			found, err := discovery.QuickScan()
			if err != nil {
				return fmt.Errorf("mdns browse failed: %w", err)
			}
			if len(found) > 0 {
				fmt.Println("\nAdvertised via mDNS:")
				for _, device := range found {
					fmt.Printf("%-40s %s\n", device.Addr(), device.Instance)
				}
			}
		}
		return nil
	},
}

func init() {
	devicesCmd.Flags().BoolVar(&devicesMDNS, "mdns", false, "Also list devices from a quick mDNS browse")
}

// connectCmd attaches a TCP device to the adb server
var connectCmd = &cobra.Command{
	Use:   "connect <addr>",
	Short: "Connect the adb server to a TCP device",
	Long: `Connect the adb server to a device at ip:port.

The address may also be a nickname registered in the configuration
file, in which case the device's last known endpoint is used.`,
	Example: `  adbscan connect 192.168.1.34:5555
  adbscan connect livingroom-box
  adbscan connect 192.168.1.34:5555 --wait`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := c.Connect(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("connected to %s\n", c.Serial())

		if connectWait {
			fmt.Println("waiting for the device to finish booting...")
			if err := c.WaitForDevice(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("device is ready")
		}
		return nil
	},
}

func init() {
	connectCmd.Flags().BoolVar(&connectWait, "wait", false, "Block until the device has finished booting")
}

// nicknameCmd manages the user-friendly names the other commands accept
// in place of a serial
var nicknameCmd = &cobra.Command{
	Use:   "nickname <device> [name]",
	Short: "Set or show a device nickname",
	Long: `Set or show a user-friendly nickname for a device.

With a name the nickname is stored in the configuration file; without
one the current nickname is printed. An empty name ("") clears it.
Nicknames are accepted by every command that takes a device argument.`,
	Example: `  adbscan nickname 192.168.1.34:5555 livingroom-box
  adbscan connect livingroom-box`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		serial := args[0]
		if len(args) == 1 {
			dev := registry.GetDevice(serial)
			if dev == nil || dev.Nickname == "" {
				fmt.Printf("%s has no nickname\n", serial)
			} else {
				fmt.Println(dev.Nickname)
			}
			return nil
		}

		registry.SetDeviceNickname(serial, args[1])
		if err := registry.Save(); err != nil {
			return err
		}
		if args[1] == "" {
			fmt.Printf("cleared nickname for %s\n", serial)
		} else {
			fmt.Printf("%s is now %q\n", serial, args[1])
		}
		return nil
	},
}

// serverCmd groups the host adb server lifecycle operations
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the host adb server",
}

func init() {
	serverCmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the host adb server",
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := getTool(cmd.Context())
			if err != nil {
				return err
			}
			return tool.StartServer(cmd.Context())
		},
	})
	serverCmd.AddCommand(&cobra.Command{
		Use:   "kill",
		Short: "Stop the host adb server",
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := getTool(cmd.Context())
			if err != nil {
				return err
			}
			return tool.KillServer(cmd.Context())
		},
	})
}

// disconnectCmd detaches a TCP device (or all devices) from the adb server
var disconnectCmd = &cobra.Command{
	Use:   "disconnect [addr]",
	Short: "Disconnect a TCP device from the adb server",
	Long:  `Disconnect a device from the adb server. With no address, all TCP devices are disconnected.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := getTool(cmd.Context())
		if err != nil {
			return err
		}

		addr := ""
		if len(args) == 1 {
			addr = resolveSerial(args[0])
		}
		if err := tool.Disconnect(cmd.Context(), addr); err != nil {
			return err
		}
		if addr == "" {
			fmt.Println("disconnected all devices")
		} else {
			fmt.Printf("disconnected %s\n", addr)
		}
		return nil
	},
}
