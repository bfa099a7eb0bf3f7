// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Program navmapctl loads the keys given on its command line into a
// navmap.NavigableMap and reports their order, the results of navigating
// around a probe key, or the contents of a range view.
//
// Usage:
//
//	navmapctl sort     [flags] key...
//	navmapctl navigate [flags] --probe key key...
//	navmapctl range    [flags] [--from key] [--to key] key...
//
// The key "null" denotes the nil key.
package main

import (
	"fmt"
	"os"

	"github.com/NVIDIA/navmap/navmapctl/cmd"
)

func main() {
	err := cmd.Execute()
	if nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
