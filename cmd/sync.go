// Copyright (C) 2026 Pradyun Gedam
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pradyunsg/vendoring/vendoring"
)

var syncCmd = &cobra.Command{
	Use:   "sync [location]",
	Short: "Vendor the pinned libraries into the configured destination",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		memory := setupLogging()

		cfg, err := vendoring.LoadConfig(locationArg(args))
		if err != nil {
			flushLogs(memory)
			return err
		}
		if _, err := vendoring.RunSync(cfg); err != nil {
			flushLogs(memory)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
