// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/navmap/navmap"
	"github.com/NVIDIA/navmap/utils"
)

type probeResultStruct struct {
	Found bool        `json:"found"`
	Key   interface{} `json:"key"`
}

func newNavigateCmd(opts *optionsStruct) (navigateCmd *cobra.Command) {
	var (
		probe string
	)

	navigateCmd = &cobra.Command{
		Use:   "navigate --probe key key...",
		Short: "Print the floor, ceiling, higher, and lower keys of the probe key",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			probeKey, err := opts.parseKey(probe)
			if nil != err {
				return
			}

			err = opts.withMap(cmd, args, func(navMap navmap.NavigableMap) (err error) {
				var (
					key     navmap.Key
					ok      bool
					results = make(map[string]probeResultStruct)
				)

				for _, navigation := range []struct {
					name     string
					navigate func(key navmap.Key) (navmap.Key, bool, error)
				}{
					{"floor", navMap.FloorKey},
					{"ceiling", navMap.CeilingKey},
					{"higher", navMap.HigherKey},
					{"lower", navMap.LowerKey},
				} {
					key, ok, err = navigation.navigate(probeKey)
					if nil != err {
						return
					}

					results[navigation.name] = probeResultStruct{Found: ok, Key: key}

					if opts.jsonOutput {
						continue
					}

					if ok {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", navigation.name, formatKey(key))
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: none\n", navigation.name)
					}
				}

				if opts.jsonOutput {
					fmt.Fprintln(cmd.OutOrStdout(), utils.JSONify(results, false))
				}

				return
			})

			return
		},
	}

	navigateCmd.Flags().StringVar(&probe, "probe", "", "Key to navigate from")
	_ = navigateCmd.MarkFlagRequired("probe")

	return
}
