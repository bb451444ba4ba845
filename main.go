package main

import (
	"github.com/fbzwsqualitasag/qmactools/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// qmactools automates routine macOS desktop-administration tasks:
//   - Downloads and installs applications (R, RStudio, LibreOffice, a virtual-world
//     viewer) by scraping the vendor's listing page for the latest version,
//     downloading the artifact, and handing it to the macOS installer or Finder
//   - Mounts and unmounts SMB shares via `mount_smbfs`/`umount`
//   - Starts, stops, and queries a VPN connection via `scutil --nc`
//   - Clones a password database repository and opens the database file
//
// Error handling strategy:
//   - Every step returns an error; the first failing step aborts the whole run,
//     the message is printed through the colored logger, and the process exits
//     with status 1
//   - Interactive actions (installing, deleting a downloaded artifact) are
//     guarded by a yes/no prompt that can be bypassed with --yes
//
// Integration points:
//   - Vendor listing pages are fetched over HTTP and scraped with per-app
//     regular expressions to discover the latest version or direct download URL
//   - macOS utilities (installer, open, mount_smbfs, umount, scutil) are invoked
//     as external processes
//   - A JSON state file tracks installed versions and active mounts so repeated
//     runs skip work that is already done
func main() {
	cmd.Execute()
}
