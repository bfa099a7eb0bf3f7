// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/NVIDIA/navmap/navmap"
)

func newRangeCmd(opts *optionsStruct) (rangeCmd *cobra.Command) {
	var (
		from          string
		fromExclusive bool
		to            string
		toInclusive   bool
	)

	rangeCmd = &cobra.Command{
		Use:   "range [--from key] [--to key] key...",
		Short: "Print the keys of a range view in map order",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var (
				fromKey navmap.Key
				toKey   navmap.Key
			)

			haveFrom := cmd.Flags().Changed("from")
			haveTo := cmd.Flags().Changed("to")

			if haveFrom {
				fromKey, err = opts.parseKey(from)
				if nil != err {
					return
				}
			}
			if haveTo {
				toKey, err = opts.parseKey(to)
				if nil != err {
					return
				}
			}

			err = opts.withMap(cmd, args, func(navMap navmap.NavigableMap) (err error) {
				view := navMap

				switch {
				case haveFrom && haveTo:
					view, err = navMap.SubMap(fromKey, !fromExclusive, toKey, toInclusive)
				case haveFrom:
					view, err = navMap.TailMap(fromKey, !fromExclusive)
				case haveTo:
					view, err = navMap.HeadMap(toKey, toInclusive)
				}
				if nil != err {
					return
				}

				err = opts.printKeys(cmd, view)

				return
			})

			return
		},
	}

	rangeCmd.Flags().StringVar(&from, "from", "", "Lower bound of the view (inclusive unless --from-exclusive)")
	rangeCmd.Flags().BoolVar(&fromExclusive, "from-exclusive", false, "Exclude --from from the view")
	rangeCmd.Flags().StringVar(&to, "to", "", "Upper bound of the view (exclusive unless --to-inclusive)")
	rangeCmd.Flags().BoolVar(&toInclusive, "to-inclusive", false, "Include --to in the view")

	return
}
