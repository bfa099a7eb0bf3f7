// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/creachadair/cityhash"
	"github.com/google/uuid"

	"github.com/NVIDIA/navmap/blunder"
	"github.com/NVIDIA/navmap/logger"
)

type boundStruct struct {
	present   bool
	key       Key
	inclusive bool
}

// viewStruct implements NavigableMap over the keys of m lying between lo and
// hi. Bounds are always expressed in m's (ascending) order; descending only
// reverses the order in which the view presents them. A map returned by
// New() is simply a view with neither bound present.
type viewStruct struct {
	m          *mapStruct
	lo         boundStruct
	hi         boundStruct
	descending bool
}

func (view *viewStruct) bounded() bool {
	return view.lo.present || view.hi.present
}

// Range tests below are called with the lock held

func (view *viewStruct) tooLow(key Key) (tooLow bool, err error) {
	if !view.lo.present {
		return
	}

	result, err := view.m.policy.compare(key, view.lo.key)
	if nil != err {
		return
	}

	tooLow = (result < 0) || ((0 == result) && !view.lo.inclusive)

	return
}

func (view *viewStruct) tooHigh(key Key) (tooHigh bool, err error) {
	if !view.hi.present {
		return
	}

	result, err := view.m.policy.compare(key, view.hi.key)
	if nil != err {
		return
	}

	tooHigh = (result > 0) || ((0 == result) && !view.hi.inclusive)

	return
}

func (view *viewStruct) inRange(key Key) (inRange bool, err error) {
	tooLow, err := view.tooLow(key)
	if (nil != err) || tooLow {
		return
	}

	tooHigh, err := view.tooHigh(key)
	if (nil != err) || tooHigh {
		return
	}

	inRange = true

	return
}

// inClosedRange is inRange with both bounds treated as inclusive
func (view *viewStruct) inClosedRange(key Key) (inRange bool, err error) {
	var (
		result int
	)

	if view.lo.present {
		result, err = view.m.policy.compare(key, view.lo.key)
		if (nil != err) || (result < 0) {
			return
		}
	}

	if view.hi.present {
		result, err = view.m.policy.compare(key, view.hi.key)
		if (nil != err) || (result > 0) {
			return
		}
	}

	inRange = true

	return
}

// boundAllowed reports whether key may serve as a bound of a view derived
// from this one. An exclusive bound may coincide with an exclusive bound of
// this view.
func (view *viewStruct) boundAllowed(key Key, inclusive bool) (allowed bool, err error) {
	if inclusive {
		allowed, err = view.inRange(key)
	} else {
		allowed, err = view.inClosedRange(key)
	}
	return
}

// Navigation in m's order clipped to the view. Called with the lock held.

func (view *viewStruct) clipHigh(entry Entry, ok bool, err error) (Entry, bool, error) {
	if (nil != err) || !ok {
		return Entry{}, false, err
	}
	tooHigh, err := view.tooHigh(entry.Key)
	if (nil != err) || tooHigh {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (view *viewStruct) clipLow(entry Entry, ok bool, err error) (Entry, bool, error) {
	if (nil != err) || !ok {
		return Entry{}, false, err
	}
	tooLow, err := view.tooLow(entry.Key)
	if (nil != err) || tooLow {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (view *viewStruct) absLowest() (entry Entry, ok bool, err error) {
	switch {
	case !view.lo.present:
		entry, ok, err = view.m.engine.first()
	case view.lo.inclusive:
		entry, ok, err = view.m.engine.ceiling(view.lo.key)
	default:
		entry, ok, err = view.m.engine.higher(view.lo.key)
	}
	return view.clipHigh(entry, ok, err)
}

func (view *viewStruct) absHighest() (entry Entry, ok bool, err error) {
	switch {
	case !view.hi.present:
		entry, ok, err = view.m.engine.last()
	case view.hi.inclusive:
		entry, ok, err = view.m.engine.floor(view.hi.key)
	default:
		entry, ok, err = view.m.engine.lower(view.hi.key)
	}
	return view.clipLow(entry, ok, err)
}

func (view *viewStruct) absCeiling(key Key) (entry Entry, ok bool, err error) {
	tooLow, err := view.tooLow(key)
	if nil != err {
		return
	}
	if tooLow {
		return view.absLowest()
	}
	return view.clipHigh(view.m.engine.ceiling(key))
}

func (view *viewStruct) absHigher(key Key) (entry Entry, ok bool, err error) {
	tooLow, err := view.tooLow(key)
	if nil != err {
		return
	}
	if tooLow {
		return view.absLowest()
	}
	return view.clipHigh(view.m.engine.higher(key))
}

func (view *viewStruct) absFloor(key Key) (entry Entry, ok bool, err error) {
	tooHigh, err := view.tooHigh(key)
	if nil != err {
		return
	}
	if tooHigh {
		return view.absHighest()
	}
	return view.clipLow(view.m.engine.floor(key))
}

func (view *viewStruct) absLower(key Key) (entry Entry, ok bool, err error) {
	tooHigh, err := view.tooHigh(key)
	if nil != err {
		return
	}
	if tooHigh {
		return view.absHighest()
	}
	return view.clipLow(view.m.engine.lower(key))
}

// Navigation in view order. Called with the lock held.

func (view *viewStruct) navFirst() (Entry, bool, error) {
	if view.descending {
		return view.absHighest()
	}
	return view.absLowest()
}

func (view *viewStruct) navLast() (Entry, bool, error) {
	if view.descending {
		return view.absLowest()
	}
	return view.absHighest()
}

func (view *viewStruct) navFloor(key Key) (Entry, bool, error) {
	if view.descending {
		return view.absCeiling(key)
	}
	return view.absFloor(key)
}

func (view *viewStruct) navCeiling(key Key) (Entry, bool, error) {
	if view.descending {
		return view.absFloor(key)
	}
	return view.absCeiling(key)
}

func (view *viewStruct) navHigher(key Key) (Entry, bool, error) {
	if view.descending {
		return view.absLower(key)
	}
	return view.absHigher(key)
}

func (view *viewStruct) navLower(key Key) (Entry, bool, error) {
	if view.descending {
		return view.absHigher(key)
	}
	return view.absLower(key)
}

// walk visits the view's entries in view order. Called with the lock held.
func (view *viewStruct) walk(visitor func(entry Entry) (keepGoing bool)) (err error) {
	entry, ok, err := view.navFirst()
	for (nil == err) && ok {
		if !visitor(entry) {
			return
		}
		entry, ok, err = view.navHigher(entry.Key)
	}
	return
}

func (view *viewStruct) ID() (id uuid.UUID) {
	id = view.m.id
	return
}

func (view *viewStruct) Policy() (policy OrderingPolicy) {
	if view.descending {
		policy = view.m.policy.Reversed()
	} else {
		policy = view.m.policy
	}
	return
}

func (view *viewStruct) Put(key Key, value Value) (previous Value, replaced bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	globals.stats.Puts.Increment()

	err = view.m.checkKey(key)
	if nil != err {
		return
	}

	inRange, err := view.inRange(key)
	if nil != err {
		return
	}
	if !inRange {
		err = blunder.NewError(blunder.OutOfRangeError, "key %v outside of view", key)
		return
	}

	previous, replaced, err = view.m.engine.put(key, value)

	return
}

func (view *viewStruct) PutAll(from NavigableMap) (err error) {
	if nil == from {
		err = blunder.NewError(blunder.InvalidArgError, "PutAll() requires a non-nil NavigableMap")
		return
	}

	entries, err := from.Entries()
	if nil != err {
		return
	}

	for _, entry := range entries {
		_, _, err = view.Put(entry.Key, entry.Value)
		if nil != err {
			return
		}
	}

	return
}

func (view *viewStruct) Get(key Key) (value Value, ok bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	globals.stats.Gets.Increment()

	err = view.m.checkKey(key)
	if nil != err {
		return
	}

	inRange, err := view.inRange(key)
	if (nil != err) || !inRange {
		return
	}

	value, ok, err = view.m.engine.get(key)

	return
}

func (view *viewStruct) ContainsKey(key Key) (ok bool, err error) {
	_, ok, err = view.Get(key)
	return
}

func (view *viewStruct) ContainsValue(value Value) (ok bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	err = view.walk(func(entry Entry) bool {
		ok = reflect.DeepEqual(entry.Value, value)
		return !ok
	})

	return
}

func (view *viewStruct) Remove(key Key) (value Value, ok bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	globals.stats.Removes.Increment()

	err = view.m.checkKey(key)
	if nil != err {
		return
	}

	inRange, err := view.inRange(key)
	if (nil != err) || !inRange {
		return
	}

	value, ok, err = view.m.engine.remove(key)

	return
}

func (view *viewStruct) Len() (numberOfItems int, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	if !view.bounded() {
		numberOfItems, err = view.m.engine.len()
		return
	}

	err = view.walk(func(entry Entry) bool {
		numberOfItems++
		return true
	})

	return
}

func (view *viewStruct) IsEmpty() (empty bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	_, ok, err := view.navFirst()
	empty = !ok

	return
}

func (view *viewStruct) Clear() (err error) {
	var (
		keys []Key
	)

	view.m.Lock()
	defer view.m.Unlock()

	if !view.bounded() {
		err = view.m.engine.clear()
		return
	}

	err = view.walk(func(entry Entry) bool {
		keys = append(keys, entry.Key)
		return true
	})
	if nil != err {
		return
	}

	for _, key := range keys {
		_, _, err = view.m.engine.remove(key)
		if nil != err {
			return
		}
	}

	return
}

func (view *viewStruct) navigate(navigator func() (Entry, bool, error)) (entry Entry, ok bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	globals.stats.Navigations.Increment()

	entry, ok, err = navigator()

	return
}

func (view *viewStruct) navigateFrom(key Key, navigator func(key Key) (Entry, bool, error)) (entry Entry, ok bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	globals.stats.Navigations.Increment()

	err = view.m.checkKey(key)
	if nil != err {
		return
	}

	entry, ok, err = navigator(key)

	return
}

func (view *viewStruct) poll(navigator func() (Entry, bool, error)) (entry Entry, ok bool, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	globals.stats.Navigations.Increment()

	entry, ok, err = navigator()
	if (nil != err) || !ok {
		return
	}

	_, _, err = view.m.engine.remove(entry.Key)
	if nil != err {
		entry, ok = Entry{}, false
	}

	return
}

func (view *viewStruct) FirstEntry() (entry Entry, ok bool, err error) {
	return view.navigate(view.navFirst)
}

func (view *viewStruct) LastEntry() (entry Entry, ok bool, err error) {
	return view.navigate(view.navLast)
}

func (view *viewStruct) PollFirstEntry() (entry Entry, ok bool, err error) {
	return view.poll(view.navFirst)
}

func (view *viewStruct) PollLastEntry() (entry Entry, ok bool, err error) {
	return view.poll(view.navLast)
}

func (view *viewStruct) FloorEntry(key Key) (entry Entry, ok bool, err error) {
	return view.navigateFrom(key, view.navFloor)
}

func (view *viewStruct) CeilingEntry(key Key) (entry Entry, ok bool, err error) {
	return view.navigateFrom(key, view.navCeiling)
}

func (view *viewStruct) HigherEntry(key Key) (entry Entry, ok bool, err error) {
	return view.navigateFrom(key, view.navHigher)
}

func (view *viewStruct) LowerEntry(key Key) (entry Entry, ok bool, err error) {
	return view.navigateFrom(key, view.navLower)
}

func (view *viewStruct) FirstKey() (firstKey Key, ok bool, err error) {
	entry, ok, err := view.FirstEntry()
	firstKey = entry.Key
	return
}

func (view *viewStruct) LastKey() (lastKey Key, ok bool, err error) {
	entry, ok, err := view.LastEntry()
	lastKey = entry.Key
	return
}

func (view *viewStruct) FloorKey(key Key) (floorKey Key, ok bool, err error) {
	entry, ok, err := view.FloorEntry(key)
	floorKey = entry.Key
	return
}

func (view *viewStruct) CeilingKey(key Key) (ceilingKey Key, ok bool, err error) {
	entry, ok, err := view.CeilingEntry(key)
	ceilingKey = entry.Key
	return
}

func (view *viewStruct) HigherKey(key Key) (higherKey Key, ok bool, err error) {
	entry, ok, err := view.HigherEntry(key)
	higherKey = entry.Key
	return
}

func (view *viewStruct) LowerKey(key Key) (lowerKey Key, ok bool, err error) {
	entry, ok, err := view.LowerEntry(key)
	lowerKey = entry.Key
	return
}

func (view *viewStruct) ForEach(visitor func(key Key, value Value) (keepGoing bool)) (err error) {
	var (
		entry  Entry
		ok     bool
		visits uint64
	)

	defer func() {
		globals.stats.ForEachVisits.Add(visits)
	}()

	view.m.Lock()
	entry, ok, err = view.navFirst()
	view.m.Unlock()

	for (nil == err) && ok {
		visits++
		if !visitor(entry.Key, entry.Value) {
			return
		}

		view.m.Lock()
		entry, ok, err = view.navHigher(entry.Key)
		view.m.Unlock()
	}

	return
}

func (view *viewStruct) Entries() (entries []Entry, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	entries = make([]Entry, 0)

	err = view.walk(func(entry Entry) bool {
		entries = append(entries, entry)
		return true
	})

	return
}

func (view *viewStruct) Keys() (keys []Key, err error) {
	entries, err := view.Entries()
	if nil != err {
		return
	}

	keys = make([]Key, len(entries))
	for i, entry := range entries {
		keys[i] = entry.Key
	}

	return
}

func (view *viewStruct) Values() (values []Value, err error) {
	entries, err := view.Entries()
	if nil != err {
		return
	}

	values = make([]Value, len(entries))
	for i, entry := range entries {
		values[i] = entry.Value
	}

	return
}

// subView returns a view of view.m bounded (in view.m's order) by lo and hi
func (view *viewStruct) subView(lo boundStruct, hi boundStruct, descending bool) (subView NavigableMap, err error) {
	var (
		allowed bool
		result  int
	)

	if lo.present && hi.present {
		result, err = view.m.policy.compare(lo.key, hi.key)
		if nil != err {
			return
		}
		if 0 < result {
			err = blunder.NewError(blunder.InvalidArgError, "view lower bound %v after upper bound %v", lo.key, hi.key)
			return
		}
	}

	for _, bound := range []boundStruct{lo, hi} {
		if !bound.present {
			continue
		}
		allowed, err = view.boundAllowed(bound.key, bound.inclusive)
		if nil != err {
			return
		}
		if !allowed {
			err = blunder.NewError(blunder.InvalidArgError, "view bound %v outside of enclosing view", bound.key)
			return
		}
	}

	globals.stats.ViewsCreated.Increment()

	logger.Tracef("navmap %v %q view created with lo:%+v hi:%+v descending:%v", view.m.id, view.m.name, lo, hi, descending)

	subView = &viewStruct{m: view.m, lo: lo, hi: hi, descending: descending}

	return
}

func (view *viewStruct) SubMap(fromKey Key, fromInclusive bool, toKey Key, toInclusive bool) (subMap NavigableMap, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	err = view.m.checkKey(fromKey)
	if nil != err {
		return
	}
	err = view.m.checkKey(toKey)
	if nil != err {
		return
	}

	from := boundStruct{present: true, key: fromKey, inclusive: fromInclusive}
	to := boundStruct{present: true, key: toKey, inclusive: toInclusive}

	if view.descending {
		subMap, err = view.subView(to, from, true)
	} else {
		subMap, err = view.subView(from, to, false)
	}

	return
}

func (view *viewStruct) HeadMap(toKey Key, inclusive bool) (headMap NavigableMap, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	err = view.m.checkKey(toKey)
	if nil != err {
		return
	}

	to := boundStruct{present: true, key: toKey, inclusive: inclusive}

	if view.descending {
		headMap, err = view.subView(to, view.hi, true)
	} else {
		headMap, err = view.subView(view.lo, to, false)
	}

	return
}

func (view *viewStruct) TailMap(fromKey Key, inclusive bool) (tailMap NavigableMap, err error) {
	view.m.Lock()
	defer view.m.Unlock()

	err = view.m.checkKey(fromKey)
	if nil != err {
		return
	}

	from := boundStruct{present: true, key: fromKey, inclusive: inclusive}

	if view.descending {
		tailMap, err = view.subView(view.lo, from, true)
	} else {
		tailMap, err = view.subView(from, view.hi, false)
	}

	return
}

func (view *viewStruct) DescendingMap() (descendingMap NavigableMap) {
	globals.stats.ViewsCreated.Increment()

	descendingMap = &viewStruct{m: view.m, lo: view.lo, hi: view.hi, descending: !view.descending}

	return
}

// Equal reports whether other holds the same key:value mappings as view,
// regardless of the order either presents them in. Keys that other cannot
// compare make the maps unequal rather than failing.
func (view *viewStruct) Equal(other NavigableMap) (equal bool, err error) {
	if nil == other {
		err = blunder.NewError(blunder.InvalidArgError, "Equal() requires a non-nil NavigableMap")
		return
	}

	if NavigableMap(view) == other {
		equal = true
		return
	}

	entries, err := view.Entries()
	if nil != err {
		return
	}

	otherLen, err := other.Len()
	if nil != err {
		return
	}
	if len(entries) != otherLen {
		return
	}

	for _, entry := range entries {
		otherValue, ok, getErr := other.Get(entry.Key)
		if nil != getErr {
			if blunder.Is(getErr, blunder.InvalidKeyError) {
				return
			}
			err = getErr
			return
		}
		if !ok || !reflect.DeepEqual(entry.Value, otherValue) {
			return
		}
	}

	equal = true

	return
}

// Digest returns a hash of the view's mappings independent of their order.
// Each mapping contributes the cityhash of its key's "%v" formatting XORed
// with that of its value.
func (view *viewStruct) Digest() (digest uint64, err error) {
	entries, err := view.Entries()
	if nil != err {
		return
	}

	for _, entry := range entries {
		keyHash := cityhash.Hash64([]byte(fmt.Sprintf("%v", entry.Key)))
		valueHash := cityhash.Hash64([]byte(fmt.Sprintf("%v", entry.Value)))
		digest += keyHash ^ valueHash
	}

	return
}

func formatElement(element interface{}) string {
	if nil == element {
		return "null"
	}
	return fmt.Sprintf("%v", element)
}

func (view *viewStruct) String() string {
	var (
		sb strings.Builder
	)

	entries, err := view.Entries()
	if nil != err {
		return fmt.Sprintf("{<%v>}", err)
	}

	sb.WriteString("{")
	for i, entry := range entries {
		if 0 < i {
			sb.WriteString(", ")
		}
		sb.WriteString(formatElement(entry.Key))
		sb.WriteString("=")
		sb.WriteString(formatElement(entry.Value))
	}
	sb.WriteString("}")

	return sb.String()
}

func (view *viewStruct) Validate() (err error) {
	view.m.Lock()
	defer view.m.Unlock()

	err = view.m.validate()

	return
}
