package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/logger"
	"github.com/fbzwsqualitasag/qmactools/internal/macos"
)

// vpnCmd drives the macOS VPN connection through `scutil --nc`. The service
// name comes from the config file unless given as a second argument.
var vpnCmd = &cobra.Command{
	Use:       "vpn <start|stop|status> [service]",
	Short:     "Start, stop, or query the VPN connection via scutil",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"start", "stop", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := args[0]
		switch action {
		case "start", "stop", "status":
		default:
			return fmt.Errorf("unknown vpn action %q, expected start, stop, or status", action)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		service := cfg.VPN.Service
		if len(args) > 1 {
			service = args[1]
		}
		if service == "" {
			return fmt.Errorf("no VPN service configured; pass a service name or set vpn.service in %s", configPath)
		}

		// Status is read-only; starting or stopping a session is user-visible
		// and therefore confirmed first.
		if action != "status" {
			if !confirmer().Confirm(fmt.Sprintf("%s VPN service %q?", action, service)) {
				logger.Warn("[WARN] VPN %s declined\n", action)
				return nil
			}
		}

		logger.Start("vpn " + action)
		mac := macos.New(macos.ExecRunner{})
		if err := mac.VPN(action, service); err != nil {
			return err
		}
		logger.End("vpn " + action)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vpnCmd)
}
