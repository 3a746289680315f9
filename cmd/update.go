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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pradyunsg/vendoring/vendoring"
)

var (
	updateSkip      []string
	updateOnly      []string
	updateFromStart bool
)

var updateCmd = &cobra.Command{
	Use:   "update [location]",
	Short: "Update the vendored libraries to their latest versions, one commit each",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(updateSkip) > 0 && len(updateOnly) > 0 {
			return errors.New("--skip and --only cannot be combined")
		}
		memory := setupLogging()

		cfg, err := vendoring.LoadConfig(locationArg(args))
		if err != nil {
			flushLogs(memory)
			return err
		}
		updater := vendoring.NewUpdater(cfg)
		if err := updater.Run(updateSkip, updateOnly, updateFromStart); err != nil {
			flushLogs(memory)
			return err
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringSliceVar(&updateSkip, "skip", nil,
		"Packages to not update")
	updateCmd.Flags().StringSliceVar(&updateOnly, "only", nil,
		"Only update these packages")
	updateCmd.Flags().BoolVar(&updateFromStart, "from-start", false,
		"Discard a previous session's progress and start over")
	rootCmd.AddCommand(updateCmd)
}
