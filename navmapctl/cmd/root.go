// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/NVIDIA/navmap/blunder"
	"github.com/NVIDIA/navmap/bucketstats"
	"github.com/NVIDIA/navmap/conf"
	"github.com/NVIDIA/navmap/logger"
	"github.com/NVIDIA/navmap/navmap"
	"github.com/NVIDIA/navmap/trackedlock"
	"github.com/NVIDIA/navmap/utils"
)

const (
	nullKeyToken = "null"

	orderNatural    = "natural"
	orderNullsFirst = "nulls-first"
	orderNullsLast  = "nulls-last"

	navMapSectionName = "NavMap"
)

type optionsStruct struct {
	order       string
	reverse     bool
	stringKeys  bool
	engine      string
	configPath  string
	confStrings []string
	jsonOutput  bool
	showStats   bool
	fs          afero.Fs
}

// Execute runs navmapctl against os.Args
func Execute() (err error) {
	err = newRootCmd(afero.NewOsFs()).Execute()
	return
}

func newRootCmd(fs afero.Fs) (rootCmd *cobra.Command) {
	opts := &optionsStruct{fs: fs}

	rootCmd = &cobra.Command{
		Use:           "navmapctl",
		Short:         "Load keys into a navigable map and query it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.order, "order", orderNatural, "Key ordering: natural, nulls-first, or nulls-last")
	rootCmd.PersistentFlags().BoolVar(&opts.reverse, "reverse", false, "Reverse the key ordering")
	rootCmd.PersistentFlags().BoolVar(&opts.stringKeys, "strings", false, "Treat keys as strings rather than integers")
	rootCmd.PersistentFlags().StringVar(&opts.engine, "engine", "", "Storage engine (llrb or btree), overriding [NavMap]Engine")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file to load")
	rootCmd.PersistentFlags().StringArrayVar(&opts.confStrings, "set", nil, "Configuration override of the form Section.Option=Value (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Emit results as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.showStats, "stats", false, "Append navmap operation statistics and elapsed time")

	rootCmd.AddCommand(newSortCmd(opts))
	rootCmd.AddCommand(newNavigateCmd(opts))
	rootCmd.AddCommand(newRangeCmd(opts))

	return
}

func (opts *optionsStruct) confMap() (confMap conf.ConfMap, err error) {
	confMap = conf.MakeConfMap()

	if "" != opts.configPath {
		err = confMap.UpdateFromFile(opts.fs, opts.configPath)
		if nil != err {
			return
		}
	}

	err = confMap.UpdateFromStrings(opts.confStrings)

	return
}

func (opts *optionsStruct) policy() (policy navmap.OrderingPolicy, err error) {
	compare := navmap.CompareInt
	if opts.stringKeys {
		compare = navmap.CompareString
	}

	switch opts.order {
	case orderNatural:
		policy = navmap.NaturalOrder()
	case orderNullsFirst:
		policy = navmap.ComparatorOrder(navmap.NullsFirst(compare), true)
	case orderNullsLast:
		policy = navmap.ComparatorOrder(navmap.NullsLast(compare), true)
	default:
		err = blunder.NewError(blunder.InvalidArgError, "--order %q not one of %v, %v, or %v", opts.order, orderNatural, orderNullsFirst, orderNullsLast)
		return
	}

	if opts.reverse {
		policy = policy.Reversed()
	}

	return
}

func (opts *optionsStruct) parseKey(token string) (key navmap.Key, err error) {
	if nullKeyToken == token {
		return
	}

	if opts.stringKeys {
		key = token
		return
	}

	key, err = strconv.Atoi(token)
	if nil != err {
		err = blunder.NewError(blunder.InvalidArgError, "key %q is not an integer (use --strings for string keys)", token)
	}

	return
}

// withMap loads tokens into a freshly configured map and hands it to query.
// Logging is up for the duration of query.
func (opts *optionsStruct) withMap(cmd *cobra.Command, tokens []string, query func(navMap navmap.NavigableMap) (err error)) (err error) {
	confMap, err := opts.confMap()
	if nil != err {
		return
	}

	err = logger.Up(confMap)
	if nil != err {
		return
	}
	defer func() {
		_ = logger.Down()
	}()

	err = trackedlock.Up(confMap)
	if nil != err {
		return
	}
	defer func() {
		_ = trackedlock.Down()
	}()

	config, err := navmap.FetchConfig(confMap, navMapSectionName)
	if nil != err {
		return
	}
	if "" != opts.engine {
		config.Engine = opts.engine
	}

	policy, err := opts.policy()
	if nil != err {
		return
	}

	stopwatch := utils.NewStopwatch()

	navMap, err := navmap.NewWithConfig(policy, config)
	if nil != err {
		return
	}

	for position, token := range tokens {
		key, parseErr := opts.parseKey(token)
		if nil != parseErr {
			err = parseErr
			return
		}
		_, _, err = navMap.Put(key, position)
		if nil != err {
			err = fmt.Errorf("key %q rejected: %v", token, blunder.ErrorString(err))
			return
		}
	}

	logger.Tracef("loaded %v keys into navmap %v", len(tokens), navMap.ID())

	err = query(navMap)
	if nil != err {
		return
	}

	stopwatch.Stop()

	if opts.showStats {
		fmt.Fprint(cmd.OutOrStdout(), bucketstats.SprintStats(bucketstats.StatFormatParsable1, "navmap", "*"))
		fmt.Fprintf(cmd.OutOrStdout(), "elapsed: %s\n", stopwatch.ElapsedString())
	}

	return
}

func formatKey(key navmap.Key) string {
	if nil == key {
		return nullKeyToken
	}
	return fmt.Sprintf("%v", key)
}

func (opts *optionsStruct) printKeys(cmd *cobra.Command, navMap navmap.NavigableMap) (err error) {
	keys, err := navMap.Keys()
	if nil != err {
		return
	}

	if opts.jsonOutput {
		fmt.Fprintln(cmd.OutOrStdout(), utils.JSONify(keys, false))
		return
	}

	for _, key := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), formatKey(key))
	}

	return
}
