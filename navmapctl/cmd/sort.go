// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/NVIDIA/navmap/navmap"
)

func newSortCmd(opts *optionsStruct) (sortCmd *cobra.Command) {
	sortCmd = &cobra.Command{
		Use:   "sort key...",
		Short: "Print the distinct keys in map order",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			err = opts.withMap(cmd, args, func(navMap navmap.NavigableMap) (err error) {
				err = opts.printKeys(cmd, navMap)
				return
			})
			return
		},
	}

	return
}
