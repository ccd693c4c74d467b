package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/adbscan/internal/adb"
	"github.com/muurk/adbscan/internal/client"
	"github.com/muurk/adbscan/internal/config"
)

var screencapOutput string

func init() {
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(getpropCmd)
	rootCmd.AddCommand(setpropCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(screencapCmd)

	screencapCmd.Flags().StringVarP(&screencapOutput, "output", "o", "screenshot.png", "Destination file for the screenshot")
}

// getTool locates the adb binary. The --adb flag wins, then the path
// from the configuration file, then PATH lookup.
func getTool(ctx context.Context) (*adb.Tool, error) {
	if adbPath != "" {
		return adb.FromPath(ctx, adbPath)
	}
	if registry, err := config.LoadRegistry(); err == nil {
		if registry.ADB != nil && registry.ADB.Path != "" {
			return adb.FromPath(ctx, registry.ADB.Path)
		}
	}
	return adb.Find()
}

// resolveSerial maps a registered nickname to its device serial. Input
// that is not a known nickname is returned unchanged.
func resolveSerial(arg string) string {
	registry, err := config.LoadRegistry()
	if err != nil {
		return arg
	}
	if serial, ok := registry.ResolveNickname(arg); ok {
		return serial
	}
	return arg
}

// getClient builds a device client for a serial, ip:port address or
// registered nickname.
func getClient(ctx context.Context, target string) (*client.Client, error) {
	tool, err := getTool(ctx)
	if err != nil {
		return nil, err
	}
	return client.New(tool, resolveSerial(target)), nil
}

// shellCmd runs a shell command on a device
var shellCmd = &cobra.Command{
	Use:   "shell <device> <command...>",
	Short: "Run a shell command on a device",
	Example: `  adbscan shell 192.168.1.34:5555 ls /sdcard
  adbscan shell livingroom-box getprop ro.build.version.release`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		output, err := c.Shell(cmd.Context(), args[1:]...)
		if err != nil {
			return err
		}
		if output != "" {
			fmt.Println(output)
		}
		return nil
	},
}

// getpropCmd reads system properties from a device
var getpropCmd = &cobra.Command{
	Use:   "getprop <device> [name]",
	Short: "Read system properties from a device",
	Long: `Read system properties from a device.

With a property name, the single value is printed. Without one, all
properties are listed sorted by name.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if len(args) == 2 {
			value, err := c.GetProp(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		}

		props, err := c.GetProps(cmd.Context())
		if err != nil {
			return err
		}
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("[%s]: [%s]\n", name, props[name])
		}
		return nil
	},
}

// setpropCmd writes a system property on a device
var setpropCmd = &cobra.Command{
	Use:   "setprop <device> <name> [value]",
	Short: "Set a system property on a device",
	Long:  `Set a system property on a device. Omitting the value clears the property.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		value := ""
		if len(args) == 3 {
			value = args[2]
		}
		return c.SetProp(cmd.Context(), args[1], value)
	},
}

// pushCmd copies a local file to a device
var pushCmd = &cobra.Command{
	Use:     "push <device> <local> <remote>",
	Short:   "Copy a local file to a device",
	Example: `  adbscan push 192.168.1.34:5555 config.yaml /data/local/tmp/config.yaml`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := c.Push(cmd.Context(), args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("pushed %s to %s\n", args[1], args[2])
		return nil
	},
}

// pullCmd copies a file from a device to the local filesystem
var pullCmd = &cobra.Command{
	Use:   "pull <device> <remote> [local]",
	Short: "Copy a file from a device",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		local := "."
		if len(args) == 3 {
			local = args[2]
		}
		if err := c.Pull(cmd.Context(), args[1], local); err != nil {
			return err
		}
		fmt.Printf("pulled %s to %s\n", args[1], local)
		return nil
	},
}

// installCmd installs an APK on a device
var installCmd = &cobra.Command{
	Use:   "install <device> <apk>",
	Short: "Install an APK on a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := c.Install(cmd.Context(), args[1]); err != nil {
			return err
		}
		fmt.Printf("installed %s\n", args[1])
		return nil
	},
}

// uninstallCmd removes a package from a device
var uninstallCmd = &cobra.Command{
	Use:   "uninstall <device> <package>",
	Short: "Uninstall a package from a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := c.Uninstall(cmd.Context(), args[1]); err != nil {
			return err
		}
		fmt.Printf("uninstalled %s\n", args[1])
		return nil
	},
}

// packagesCmd lists packages installed on a device
var packagesCmd = &cobra.Command{
	Use:   "packages <device> [filter]",
	Short: "List packages installed on a device",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		packages, err := c.ListPackages(cmd.Context())
		if err != nil {
			return err
		}
		filter := ""
		if len(args) == 2 {
			filter = args[1]
		}
		for _, pkg := range packages {
			if filter == "" || strings.Contains(pkg, filter) {
				fmt.Println(pkg)
			}
		}
		return nil
	},
}

// rebootCmd reboots a device
var rebootCmd = &cobra.Command{
	Use:       "reboot <device> [system|bootloader|recovery|sideload]",
	Short:     "Reboot a device",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"system", "bootloader", "recovery", "sideload"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		target := client.RebootSystem
		if len(args) == 2 {
			switch args[1] {
			case "system":
				target = client.RebootSystem
			case "bootloader":
				target = client.RebootBootloader
			case "recovery":
				target = client.RebootRecovery
			case "sideload":
				target = client.RebootSideload
			default:
				return fmt.Errorf("unknown reboot target %q", args[1])
			}
		}
		if err := c.Reboot(cmd.Context(), target); err != nil {
			return err
		}
		fmt.Printf("rebooting %s\n", c.Serial())
		return nil
	},
}

// screencapCmd captures a device screenshot
var screencapCmd = &cobra.Command{
	Use:   "screencap <device>",
	Short: "Capture a screenshot from a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := c.Screencap(cmd.Context(), screencapOutput); err != nil {
			return err
		}
		fmt.Printf("saved screenshot to %s\n", screencapOutput)
		return nil
	},
}
