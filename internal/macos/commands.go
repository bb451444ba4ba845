package macos

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/logger"
)

// Commands wraps the macOS utilities the tool drives: installer, open,
// mount_smbfs, umount, scutil, and git for the password database. Each
// wrapper builds the exact argument list and treats a non-zero exit as fatal,
// with the command output folded into the error.
type Commands struct {
	runner Runner
}

// New creates a Commands using the given runner.
func New(r Runner) *Commands {
	return &Commands{runner: r}
}

// InstallPkg installs a .pkg artifact system-wide via the macOS installer.
func (c *Commands) InstallPkg(path string) error {
	output, err := c.runner.Run("sudo", "installer", "-pkg", path, "-target", "/")
	if err != nil {
		return fmt.Errorf("installer failed for %s: %w\nOutput: %s", path, err, output)
	}
	logger.Info("[INFO] Installed %s\n", path)
	return nil
}

// Open hands a file or directory to the macOS open command. Disk images are
// mounted by Finder, documents open in their default application.
func (c *Commands) Open(target string) error {
	output, err := c.runner.Run("open", target)
	if err != nil {
		return fmt.Errorf("open failed for %s: %w\nOutput: %s", target, err, output)
	}
	return nil
}

// MountShare mounts the SMB share via mount_smbfs, creating the mount point
// first. Returns the mount point used.
func (c *Commands) MountShare(share config.Share) (string, error) {
	mountPoint := share.MountPoint
	if mountPoint == "" {
		mountPoint = filepath.Join(ExpandHome("~/mnt"), share.Share)
	}
	mountPoint = ExpandHome(mountPoint)

	if err := os.MkdirAll(mountPoint, 0755); err != nil {
		return "", fmt.Errorf("failed to create mount point %s: %w", mountPoint, err)
	}

	remote := fmt.Sprintf("//%s@%s/%s", share.User, share.Host, share.Share)
	if share.User == "" {
		remote = fmt.Sprintf("//%s/%s", share.Host, share.Share)
	}

	output, err := c.runner.Run("mount_smbfs", remote, mountPoint)
	if err != nil {
		return "", fmt.Errorf("mount_smbfs failed for %s: %w\nOutput: %s", remote, err, output)
	}
	logger.Info("[INFO] Mounted %s at %s\n", remote, mountPoint)
	return mountPoint, nil
}

// Unmount unmounts the given mount point.
func (c *Commands) Unmount(mountPoint string) error {
	mountPoint = ExpandHome(mountPoint)
	output, err := c.runner.Run("umount", mountPoint)
	if err != nil {
		return fmt.Errorf("umount failed for %s: %w\nOutput: %s", mountPoint, err, output)
	}
	logger.Info("[INFO] Unmounted %s\n", mountPoint)
	return nil
}

// VPN drives scutil --nc with the given action (start, stop, status) against
// the named service. The command output is shown to the user, scutil status
// is informational only.
func (c *Commands) VPN(action, service string) error {
	output, err := c.runner.Run("scutil", "--nc", action, service)
	if err != nil {
		return fmt.Errorf("scutil --nc %s failed for %s: %w\nOutput: %s", action, service, err, output)
	}
	if trimmed := strings.TrimSpace(string(output)); trimmed != "" {
		logger.Info("%s\n", trimmed)
	}
	return nil
}

// GitClone clones the repository into dir.
func (c *Commands) GitClone(repo, dir string) error {
	dir = ExpandHome(dir)
	output, err := c.runner.Run("git", "clone", repo, dir)
	if err != nil {
		return fmt.Errorf("git clone of %s failed: %w\nOutput: %s", repo, err, output)
	}
	logger.Info("[INFO] Cloned %s to %s\n", repo, dir)
	return nil
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
