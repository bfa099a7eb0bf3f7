// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

import (
	"fmt"

	"github.com/google/btree"
)

// btreeItemStruct adapts an Entry to btree.Item. As btree.Item.Less() cannot
// fail, the first comparison error of an operation is parked in the engine.
type btreeItemStruct struct {
	Entry
	engine *btreeEngineStruct
}

type btreeEngineStruct struct {
	policy     OrderingPolicy
	degree     int
	tree       *btree.BTree
	compareErr error
}

func newBTreeEngine(policy OrderingPolicy, degree int) (btreeEngine *btreeEngineStruct) {
	btreeEngine = &btreeEngineStruct{
		policy: policy,
		degree: degree,
		tree:   btree.New(degree),
	}
	return
}

func (item *btreeItemStruct) Less(than btree.Item) bool {
	result, err := item.engine.policy.compare(item.Key, than.(*btreeItemStruct).Key)
	if nil != err {
		if nil == item.engine.compareErr {
			item.engine.compareErr = err
		}
		return false
	}
	return result < 0
}

func (btreeEngine *btreeEngineStruct) pivot(key Key) (pivot *btreeItemStruct) {
	pivot = &btreeItemStruct{Entry: Entry{Key: key}, engine: btreeEngine}
	return
}

// takeCompareErr returns and resets the parked comparison error
func (btreeEngine *btreeEngineStruct) takeCompareErr() (err error) {
	err = btreeEngine.compareErr
	btreeEngine.compareErr = nil
	return
}

// probe locates key without modifying the tree so that a failing comparison
// along the search path surfaces before any mutation is attempted. Mutations
// still clone the tree first, as rebalancing compares items the search never
// visited.
func (btreeEngine *btreeEngineStruct) probe(key Key) (item *btreeItemStruct, err error) {
	found := btreeEngine.tree.Get(btreeEngine.pivot(key))
	err = btreeEngine.takeCompareErr()
	if (nil != err) || (nil == found) {
		return
	}

	item = found.(*btreeItemStruct)

	return
}

func (btreeEngine *btreeEngineStruct) put(key Key, value Value) (previous Value, replaced bool, err error) {
	item, err := btreeEngine.probe(key)
	if nil != err {
		return
	}

	if nil != item {
		// Keep the originally stored key
		previous = item.Value
		replaced = true
		item.Value = value
		return
	}

	snapshot := btreeEngine.tree.Clone()

	btreeEngine.tree.ReplaceOrInsert(&btreeItemStruct{Entry: Entry{Key: key, Value: value}, engine: btreeEngine})
	err = btreeEngine.takeCompareErr()
	if nil != err {
		// A split may have compared against a promoted item in the failing direction
		btreeEngine.tree = snapshot
	}

	return
}

func (btreeEngine *btreeEngineStruct) get(key Key) (value Value, ok bool, err error) {
	item, err := btreeEngine.probe(key)
	if (nil != err) || (nil == item) {
		return
	}

	value = item.Value
	ok = true

	return
}

func (btreeEngine *btreeEngineStruct) remove(key Key) (value Value, ok bool, err error) {
	item, err := btreeEngine.probe(key)
	if (nil != err) || (nil == item) {
		return
	}

	snapshot := btreeEngine.tree.Clone()

	btreeEngine.tree.Delete(item)
	err = btreeEngine.takeCompareErr()
	if nil != err {
		btreeEngine.tree = snapshot
		return
	}

	value = item.Value
	ok = true

	return
}

func (btreeEngine *btreeEngineStruct) floor(key Key) (entry Entry, ok bool, err error) {
	btreeEngine.tree.DescendLessOrEqual(btreeEngine.pivot(key), func(i btree.Item) bool {
		entry = i.(*btreeItemStruct).Entry
		ok = true
		return false
	})
	err = btreeEngine.takeCompareErr()
	if nil != err {
		entry, ok = Entry{}, false
	}
	return
}

func (btreeEngine *btreeEngineStruct) ceiling(key Key) (entry Entry, ok bool, err error) {
	btreeEngine.tree.AscendGreaterOrEqual(btreeEngine.pivot(key), func(i btree.Item) bool {
		entry = i.(*btreeItemStruct).Entry
		ok = true
		return false
	})
	err = btreeEngine.takeCompareErr()
	if nil != err {
		entry, ok = Entry{}, false
	}
	return
}

func (btreeEngine *btreeEngineStruct) higher(key Key) (entry Entry, ok bool, err error) {
	pivot := btreeEngine.pivot(key)
	btreeEngine.tree.AscendGreaterOrEqual(pivot, func(i btree.Item) bool {
		if !pivot.Less(i) {
			return true
		}
		entry = i.(*btreeItemStruct).Entry
		ok = true
		return false
	})
	err = btreeEngine.takeCompareErr()
	if nil != err {
		entry, ok = Entry{}, false
	}
	return
}

func (btreeEngine *btreeEngineStruct) lower(key Key) (entry Entry, ok bool, err error) {
	pivot := btreeEngine.pivot(key)
	btreeEngine.tree.DescendLessOrEqual(pivot, func(i btree.Item) bool {
		if !i.Less(pivot) {
			return true
		}
		entry = i.(*btreeItemStruct).Entry
		ok = true
		return false
	})
	err = btreeEngine.takeCompareErr()
	if nil != err {
		entry, ok = Entry{}, false
	}
	return
}

func (btreeEngine *btreeEngineStruct) first() (entry Entry, ok bool, err error) {
	min := btreeEngine.tree.Min()
	if nil != min {
		entry = min.(*btreeItemStruct).Entry
		ok = true
	}
	return
}

func (btreeEngine *btreeEngineStruct) last() (entry Entry, ok bool, err error) {
	max := btreeEngine.tree.Max()
	if nil != max {
		entry = max.(*btreeItemStruct).Entry
		ok = true
	}
	return
}

func (btreeEngine *btreeEngineStruct) ascend(visitor func(entry Entry) (keepGoing bool)) (err error) {
	btreeEngine.tree.Ascend(func(i btree.Item) bool {
		return visitor(i.(*btreeItemStruct).Entry)
	})
	return
}

func (btreeEngine *btreeEngineStruct) len() (numberOfItems int, err error) {
	numberOfItems = btreeEngine.tree.Len()
	return
}

func (btreeEngine *btreeEngineStruct) clear() (err error) {
	btreeEngine.tree = btree.New(btreeEngine.degree)
	return
}

func (btreeEngine *btreeEngineStruct) validate() (err error) {
	var (
		counted int
	)

	btreeEngine.tree.Ascend(func(i btree.Item) bool {
		if i.(*btreeItemStruct).engine != btreeEngine {
			err = fmt.Errorf("item with key %v not owned by this engine", i.(*btreeItemStruct).Key)
			return false
		}
		counted++
		return true
	})
	if nil != err {
		return
	}

	if counted != btreeEngine.tree.Len() {
		err = fmt.Errorf("btree.Len() == %v but Ascend() visited %v items", btreeEngine.tree.Len(), counted)
	}

	return
}
