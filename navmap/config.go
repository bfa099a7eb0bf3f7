// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

import (
	"github.com/NVIDIA/navmap/blunder"
	"github.com/NVIDIA/navmap/conf"
)

const (
	LLRBEngine  = "llrb"
	BTreeEngine = "btree"

	DefaultEngine      = LLRBEngine
	DefaultBTreeDegree = 32

	minBTreeDegree = 2
)

// Config selects and tunes the storage engine of a map
type Config struct {
	Name        string // Reported in trace logs
	Engine      string // One of LLRBEngine or BTreeEngine
	BTreeDegree int    // Only consulted for BTreeEngine
}

func DefaultConfig() (config Config) {
	config = Config{
		Name:        "",
		Engine:      DefaultEngine,
		BTreeDegree: DefaultBTreeDegree,
	}
	return
}

// FetchConfig fills in a Config from the options of confMap's [sectionName]:
//
//	[sectionName]
//	Name:        <free form>
//	Engine:      llrb | btree
//	BTreeDegree: <uint, at least 2>
//
// Absent options (or an absent section) take their DefaultConfig() value.
func FetchConfig(confMap conf.ConfMap, sectionName string) (config Config, err error) {
	var (
		btreeDegree uint64
	)

	config = DefaultConfig()

	section, ok := confMap[sectionName]
	if !ok {
		return
	}

	if _, ok = section["Name"]; ok {
		config.Name, err = confMap.FetchOptionValueString(sectionName, "Name")
		if nil != err {
			err = blunder.AddError(err, blunder.InvalidArgError)
			return
		}
	}

	if _, ok = section["Engine"]; ok {
		config.Engine, err = confMap.FetchOptionValueString(sectionName, "Engine")
		if nil != err {
			err = blunder.AddError(err, blunder.InvalidArgError)
			return
		}
	}

	if _, ok = section["BTreeDegree"]; ok {
		btreeDegree, err = confMap.FetchOptionValueUint64(sectionName, "BTreeDegree")
		if nil != err {
			err = blunder.AddError(err, blunder.InvalidArgError)
			return
		}
		if btreeDegree > uint64(^uint32(0)) {
			err = blunder.NewError(blunder.InvalidArgError, "[%v]BTreeDegree (%v) too large", sectionName, btreeDegree)
			return
		}
		config.BTreeDegree = int(btreeDegree)
	}

	err = config.validate()

	return
}

func (config Config) validate() (err error) {
	switch config.Engine {
	case LLRBEngine:
	case BTreeEngine:
		if minBTreeDegree > config.BTreeDegree {
			err = blunder.NewError(blunder.InvalidArgError, "BTreeDegree (%v) must be at least %v", config.BTreeDegree, minBTreeDegree)
		}
	default:
		err = blunder.NewError(blunder.NotSupportedError, "Engine %q not supported (expected %q or %q)", config.Engine, LLRBEngine, BTreeEngine)
	}
	return
}
