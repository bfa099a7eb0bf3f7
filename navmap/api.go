// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package navmap provides a sorted key:value map whose keys are kept in the
// total order defined by an OrderingPolicy.
//
// In addition to the usual Put/Get/Remove operations, a NavigableMap answers
// navigation queries (floor, ceiling, higher, lower, first, last) and hands
// out range views (SubMap, HeadMap, TailMap, DescendingMap) that are backed
// by, and write through to, the map they were derived from.
//
// Keys are compared either by CompareNatural (see NaturalOrder()) or by an
// injected Compare (see ComparatorOrder()). The nil interface value is the
// null key. It is only accepted by comparator ordering policies declaring
// NullKeys, typically built with NullsFirst() or NullsLast():
//
//	navMap := navmap.New(navmap.ComparatorOrder(navmap.NullsFirst(navmap.CompareInt), true))
//	_, _, _ = navMap.Put(5, "five")
//	_, _, _ = navMap.Put(nil, "none")
//	keys, _ := navMap.Keys() // [<nil> 5]
//
// Every error returned carries a blunder error value. A rejected key (nil
// key not permitted, or a Compare failure) is blunder.InvalidKeyError and
// leaves the map unchanged.
//
// All operations on a map and on any of its views are serialized by a single
// lock shared among them.
package navmap

import (
	"github.com/google/uuid"
)

type Key interface{}
type Value interface{}

type Entry struct {
	Key   Key
	Value Value
}

type NavigableMap interface {
	ID() (id uuid.UUID)
	Policy() (policy OrderingPolicy)

	Put(key Key, value Value) (previous Value, replaced bool, err error)
	PutAll(from NavigableMap) (err error)
	Get(key Key) (value Value, ok bool, err error)
	ContainsKey(key Key) (ok bool, err error)
	ContainsValue(value Value) (ok bool, err error)
	Remove(key Key) (value Value, ok bool, err error)
	Len() (numberOfItems int, err error)
	IsEmpty() (empty bool, err error)
	Clear() (err error)

	FirstEntry() (entry Entry, ok bool, err error)
	LastEntry() (entry Entry, ok bool, err error)
	PollFirstEntry() (entry Entry, ok bool, err error)
	PollLastEntry() (entry Entry, ok bool, err error)
	FloorEntry(key Key) (entry Entry, ok bool, err error)   // Greatest entry with key <= key
	CeilingEntry(key Key) (entry Entry, ok bool, err error) // Least entry with key >= key
	HigherEntry(key Key) (entry Entry, ok bool, err error)  // Least entry with key >  key
	LowerEntry(key Key) (entry Entry, ok bool, err error)   // Greatest entry with key <  key
	FirstKey() (firstKey Key, ok bool, err error)
	LastKey() (lastKey Key, ok bool, err error)
	FloorKey(key Key) (floorKey Key, ok bool, err error)
	CeilingKey(key Key) (ceilingKey Key, ok bool, err error)
	HigherKey(key Key) (higherKey Key, ok bool, err error)
	LowerKey(key Key) (lowerKey Key, ok bool, err error)

	// ForEach calls visitor for each entry in order until visitor returns false.
	// The lock is not held while visitor runs, so visitor may operate on the map.
	// Entries added or removed in the not yet visited portion during the walk
	// may or may not be visited.
	ForEach(visitor func(key Key, value Value) (keepGoing bool)) (err error)
	Keys() (keys []Key, err error)
	Values() (values []Value, err error)
	Entries() (entries []Entry, err error)

	SubMap(fromKey Key, fromInclusive bool, toKey Key, toInclusive bool) (view NavigableMap, err error)
	HeadMap(toKey Key, inclusive bool) (view NavigableMap, err error)
	TailMap(fromKey Key, inclusive bool) (view NavigableMap, err error)
	DescendingMap() (view NavigableMap)

	Equal(other NavigableMap) (equal bool, err error)
	Digest() (digest uint64, err error)
	String() string
	Validate() (err error)
}

// New returns an empty NavigableMap ordered by policy using DefaultConfig().
//
// New panics if policy has no Compare.
func New(policy OrderingPolicy) (navMap NavigableMap) {
	navMap, err := NewWithConfig(policy, DefaultConfig())
	if nil != err {
		panic(err)
	}
	return
}

// NewWithConfig returns an empty NavigableMap ordered by policy whose
// storage engine is selected by config.
func NewWithConfig(policy OrderingPolicy, config Config) (navMap NavigableMap, err error) {
	navMap, err = newMap(policy, config)
	return
}
