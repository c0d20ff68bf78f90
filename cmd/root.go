// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

// Package cmd implements the hashbridge CLI using cobra.
// It provides the root command structure and version management.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the application version string.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	profileDBPath string
	secureOrigin  bool
)

var rootCmd = &cobra.Command{
	Use:   "hashbridge",
	Short: "hashbridge - edit the messages hash through a REST bridge",
	Long: `hashbridge serves a small HTTP bridge in front of Redis and edits the
"messages" hash through it.

Run "hashbridge serve" next to Redis, then "hashbridge connect" from anywhere
that can reach the bridge.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("hashbridge v%s (built: %s)\n", Version, BuildTime))

	rootCmd.PersistentFlags().StringVar(&profileDBPath, "profile-db", "", "Connection profile database (default $HASHBRIDGE_PROFILE_DB or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&secureOrigin, "secure-origin", false, "Refuse plain http bridges, as a page served over https would")
}

// Execute runs the root command and handles any errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion updates the version and build time for display in help and version output.
func SetVersion(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("hashbridge v%s (built: %s)\n", version, buildTime))
}

// exitWithError is a helper function that exits with code 1.
// It can be overridden in tests to avoid actual exit.
var exitWithError = func() {
	os.Exit(1)
}
