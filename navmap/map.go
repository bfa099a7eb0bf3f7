// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

import (
	"github.com/google/uuid"

	"github.com/NVIDIA/navmap/blunder"
	"github.com/NVIDIA/navmap/bucketstats"
	"github.com/NVIDIA/navmap/logger"
	"github.com/NVIDIA/navmap/trackedlock"
)

// mapStruct is the state shared by a map and every view derived from it
type mapStruct struct {
	trackedlock.Mutex
	id     uuid.UUID
	name   string
	policy OrderingPolicy
	engine engine
}

type statsStruct struct {
	MapsCreated   bucketstats.Total
	ViewsCreated  bucketstats.Total
	Puts          bucketstats.Total
	Gets          bucketstats.Total
	Removes       bucketstats.Total
	Navigations   bucketstats.Total
	InvalidKeys   bucketstats.Total
	ForEachVisits bucketstats.Average
}

type globalsStruct struct {
	stats statsStruct
}

var globals globalsStruct

func init() {
	bucketstats.Register("navmap", "ops", &globals.stats)
}

func newMap(policy OrderingPolicy, config Config) (navMap NavigableMap, err error) {
	if nil == policy.Compare {
		err = blunder.NewError(blunder.InvalidArgError, "OrderingPolicy.Compare must not be nil")
		return
	}

	if 0 == config.BTreeDegree {
		config.BTreeDegree = DefaultBTreeDegree
	}

	err = config.validate()
	if nil != err {
		return
	}

	m := &mapStruct{
		id:     uuid.New(),
		name:   config.Name,
		policy: policy,
	}

	switch config.Engine {
	case LLRBEngine:
		m.engine = newLLRBEngine(policy)
	case BTreeEngine:
		m.engine = newBTreeEngine(policy, config.BTreeDegree)
	}

	globals.stats.MapsCreated.Increment()

	logger.Tracef("navmap %v %q created with %v on %v engine", m.id, m.name, policy, config.Engine)

	navMap = &viewStruct{m: m}

	return
}

// checkKey verifies that key may be compared under m's policy. Called with
// the lock held.
func (m *mapStruct) checkKey(key Key) (err error) {
	_, err = m.policy.compare(key, key)
	if nil != err {
		globals.stats.InvalidKeys.Increment()
		logger.TracefWithError(err, "navmap %v %q rejected key %v", m.id, m.name, key)
	}
	return
}

// validate checks engine structure and that keys are strictly ascending.
// Called with the lock held.
func (m *mapStruct) validate() (err error) {
	var (
		counted       int
		numberOfItems int
		orderErr      error
		prevKey       Key
		result        int
	)

	err = m.engine.validate()
	if nil != err {
		err = blunder.AddError(err, blunder.CorruptMapError)
		return
	}

	err = m.engine.ascend(func(entry Entry) bool {
		if 0 < counted {
			result, orderErr = m.policy.compare(prevKey, entry.Key)
			if nil != orderErr {
				orderErr = blunder.NewError(blunder.CorruptMapError, "keys %v and %v could not be compared: %v", prevKey, entry.Key, orderErr)
				return false
			}
			if 0 <= result {
				orderErr = blunder.NewError(blunder.CorruptMapError, "key %v not strictly before key %v", prevKey, entry.Key)
				return false
			}
		}
		prevKey = entry.Key
		counted++
		return true
	})
	if nil != err {
		err = blunder.AddError(err, blunder.CorruptMapError)
		return
	}
	if nil != orderErr {
		err = orderErr
		return
	}

	numberOfItems, err = m.engine.len()
	if nil != err {
		err = blunder.AddError(err, blunder.CorruptMapError)
		return
	}
	if counted != numberOfItems {
		err = blunder.NewError(blunder.CorruptMapError, "engine reports %v items but %v were traversed", numberOfItems, counted)
	}

	return
}
