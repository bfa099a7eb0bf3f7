// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

import (
	"fmt"

	"github.com/NVIDIA/sortedmap"
)

type llrbEngineStruct struct {
	compare sortedmap.Compare
	tree    sortedmap.LLRBTree
}

func newLLRBEngine(policy OrderingPolicy) (llrbEngine *llrbEngineStruct) {
	llrbEngine = &llrbEngineStruct{
		compare: func(key1 sortedmap.Key, key2 sortedmap.Key) (result int, err error) {
			result, err = policy.compare(key1, key2)
			return
		},
	}
	llrbEngine.tree = sortedmap.NewLLRBTree(llrbEngine.compare, llrbEngine)
	return
}

func (llrbEngine *llrbEngineStruct) DumpKey(key sortedmap.Key) (keyAsString string, err error) {
	keyAsString = fmt.Sprintf("%v", key)
	return
}

func (llrbEngine *llrbEngineStruct) DumpValue(value sortedmap.Value) (valueAsString string, err error) {
	valueAsString = fmt.Sprintf("%v", value)
	return
}

func (llrbEngine *llrbEngineStruct) put(key Key, value Value) (previous Value, replaced bool, err error) {
	previous, replaced, err = llrbEngine.tree.GetByKey(key)
	if nil != err {
		return
	}

	if replaced {
		_, err = llrbEngine.tree.PatchByKey(key, value)
		return
	}

	previous = nil

	ok, err := llrbEngine.tree.Put(key, value)
	if (nil == err) && !ok {
		err = fmt.Errorf("llrbEngine.tree.Put() unexpectedly found key %v", key)
	}

	return
}

func (llrbEngine *llrbEngineStruct) get(key Key) (value Value, ok bool, err error) {
	value, ok, err = llrbEngine.tree.GetByKey(key)
	return
}

func (llrbEngine *llrbEngineStruct) remove(key Key) (value Value, ok bool, err error) {
	value, ok, err = llrbEngine.tree.GetByKey(key)
	if (nil != err) || !ok {
		value = nil
		return
	}

	_, err = llrbEngine.tree.DeleteByKey(key)

	return
}

// entryAt fetches the Entry at index, reporting !ok if index is off either end
func (llrbEngine *llrbEngineStruct) entryAt(index int) (entry Entry, ok bool, err error) {
	if 0 > index {
		return
	}

	key, value, ok, err := llrbEngine.tree.GetByIndex(index)
	if (nil != err) || !ok {
		return
	}

	entry = Entry{Key: key, Value: value}

	return
}

func (llrbEngine *llrbEngineStruct) floor(key Key) (entry Entry, ok bool, err error) {
	index, _, err := llrbEngine.tree.BisectLeft(key)
	if nil != err {
		return
	}

	entry, ok, err = llrbEngine.entryAt(index)

	return
}

func (llrbEngine *llrbEngineStruct) ceiling(key Key) (entry Entry, ok bool, err error) {
	index, _, err := llrbEngine.tree.BisectRight(key)
	if nil != err {
		return
	}

	entry, ok, err = llrbEngine.entryAt(index)

	return
}

func (llrbEngine *llrbEngineStruct) higher(key Key) (entry Entry, ok bool, err error) {
	index, found, err := llrbEngine.tree.BisectRight(key)
	if nil != err {
		return
	}

	if found {
		index++
	}

	entry, ok, err = llrbEngine.entryAt(index)

	return
}

func (llrbEngine *llrbEngineStruct) lower(key Key) (entry Entry, ok bool, err error) {
	index, found, err := llrbEngine.tree.BisectLeft(key)
	if nil != err {
		return
	}

	if found {
		index--
	}

	entry, ok, err = llrbEngine.entryAt(index)

	return
}

func (llrbEngine *llrbEngineStruct) first() (entry Entry, ok bool, err error) {
	entry, ok, err = llrbEngine.entryAt(0)
	return
}

func (llrbEngine *llrbEngineStruct) last() (entry Entry, ok bool, err error) {
	numberOfItems, err := llrbEngine.tree.Len()
	if nil != err {
		return
	}

	entry, ok, err = llrbEngine.entryAt(numberOfItems - 1)

	return
}

func (llrbEngine *llrbEngineStruct) ascend(visitor func(entry Entry) (keepGoing bool)) (err error) {
	numberOfItems, err := llrbEngine.tree.Len()
	if nil != err {
		return
	}

	for index := 0; index < numberOfItems; index++ {
		entry, ok, entryErr := llrbEngine.entryAt(index)
		if nil != entryErr {
			err = entryErr
			return
		}
		if !ok {
			err = fmt.Errorf("llrbEngine.tree.GetByIndex(%v) unexpectedly !ok with Len() == %v", index, numberOfItems)
			return
		}
		if !visitor(entry) {
			return
		}
	}

	return
}

func (llrbEngine *llrbEngineStruct) len() (numberOfItems int, err error) {
	numberOfItems, err = llrbEngine.tree.Len()
	return
}

func (llrbEngine *llrbEngineStruct) clear() (err error) {
	llrbEngine.tree = sortedmap.NewLLRBTree(llrbEngine.compare, llrbEngine)
	return
}

func (llrbEngine *llrbEngineStruct) validate() (err error) {
	err = llrbEngine.tree.Validate()
	return
}
