package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/logger"
	"github.com/fbzwsqualitasag/qmactools/internal/macos"
	"github.com/fbzwsqualitasag/qmactools/internal/state"
)

// Flag overrides for the configured share entry.
var (
	mountHost  string
	mountShare string
	mountUser  string
	mountPoint string
)

// mountCmd mounts an SMB share via mount_smbfs. With no argument the first
// configured share is used; flags override individual fields.
var mountCmd = &cobra.Command{
	Use:   "mount [share]",
	Short: "Mount an SMB share via mount_smbfs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Start("mount")

		share, err := shareFor(args)
		if err != nil {
			return err
		}

		remote := fmt.Sprintf("//%s/%s", share.Host, share.Share)
		if !confirmer().Confirm(fmt.Sprintf("Mount %s?", remote)) {
			logger.Warn("[WARN] Mount of %s declined\n", remote)
			return nil
		}

		mac := macos.New(macos.ExecRunner{})
		mp, err := mac.MountShare(share)
		if err != nil {
			return err
		}

		st := state.Load(statePath)
		st.Mounts[share.Name] = mp
		if err := state.Save(statePath, st); err != nil {
			return err
		}
		logger.End("mount")
		return nil
	},
}

// umountCmd unmounts a previously mounted share. The mount point comes from
// the --mountpoint flag, the recorded state, or the share's configuration,
// in that order.
var umountCmd = &cobra.Command{
	Use:   "umount [share]",
	Short: "Unmount an SMB share",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Start("umount")

		share, err := shareFor(args)
		if err != nil {
			return err
		}

		st := state.Load(statePath)
		mp := mountPoint
		if mp == "" {
			mp = st.Mounts[share.Name]
		}
		if mp == "" {
			mp = share.MountPoint
		}
		if mp == "" {
			return fmt.Errorf("no mount point known for share %q; pass --mountpoint", share.Name)
		}

		if !confirmer().Confirm(fmt.Sprintf("Unmount %s?", mp)) {
			logger.Warn("[WARN] Unmount of %s declined\n", mp)
			return nil
		}

		mac := macos.New(macos.ExecRunner{})
		if err := mac.Unmount(mp); err != nil {
			return err
		}

		delete(st.Mounts, share.Name)
		if err := state.Save(statePath, st); err != nil {
			return err
		}
		logger.End("umount")
		return nil
	},
}

// shareFor resolves the share entry for the optional name argument and
// applies flag overrides.
func shareFor(args []string) (config.Share, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Share{}, err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	share, ok := cfg.Share(name)
	if !ok {
		// Shares are purely config/flag driven; allow a flags-only invocation.
		if mountHost == "" || mountShare == "" {
			if name != "" {
				return config.Share{}, fmt.Errorf("unknown share %q and no --host/--share given", name)
			}
			return config.Share{}, fmt.Errorf("no shares configured; pass --host and --share or add a share to %s", configPath)
		}
		share = config.Share{Name: name}
	}

	if mountHost != "" {
		share.Host = mountHost
	}
	if mountShare != "" {
		share.Share = mountShare
	}
	if mountUser != "" {
		share.User = mountUser
	}
	if mountPoint != "" {
		share.MountPoint = mountPoint
	}
	if share.Name == "" {
		share.Name = share.Share
	}
	return share, nil
}

func init() {
	for _, c := range []*cobra.Command{mountCmd, umountCmd} {
		c.Flags().StringVar(&mountHost, "host", "", "SMB server hostname")
		c.Flags().StringVar(&mountShare, "share", "", "Share name on the server")
		c.Flags().StringVar(&mountUser, "user", "", "Username for the mount")
		c.Flags().StringVar(&mountPoint, "mountpoint", "", "Local mount point")
	}

	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(umountCmd)
}
