// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Compare returns <0 if key1 < key2, 0 if key1 == key2, >0 if key1 > key2
//
// A Compare must be consistent and transitive. Neither property is checked;
// a Compare violating them yields an undefined iteration order.
type Compare func(key1 Key, key2 Key) (result int, err error)

// Comparable is implemented by key types that define their own natural order
// for use by CompareNatural.
type Comparable interface {
	CompareTo(other Key) (result int, err error)
}

func CompareInt(key1 Key, key2 Key) (result int, err error) {
	key1Int, ok := key1.(int)
	if !ok {
		err = fmt.Errorf("CompareInt(non-int,) not supported")
		return
	}
	key2Int, ok := key2.(int)
	if !ok {
		err = fmt.Errorf("CompareInt(int, non-int) not supported")
		return
	}

	switch {
	case key1Int < key2Int:
		result = -1
	case key1Int > key2Int:
		result = 1
	}

	return
}

func CompareInt64(key1 Key, key2 Key) (result int, err error) {
	key1Int64, ok := key1.(int64)
	if !ok {
		err = fmt.Errorf("CompareInt64(non-int64,) not supported")
		return
	}
	key2Int64, ok := key2.(int64)
	if !ok {
		err = fmt.Errorf("CompareInt64(int64, non-int64) not supported")
		return
	}

	switch {
	case key1Int64 < key2Int64:
		result = -1
	case key1Int64 > key2Int64:
		result = 1
	}

	return
}

func CompareUint64(key1 Key, key2 Key) (result int, err error) {
	key1Uint64, ok := key1.(uint64)
	if !ok {
		err = fmt.Errorf("CompareUint64(non-uint64,) not supported")
		return
	}
	key2Uint64, ok := key2.(uint64)
	if !ok {
		err = fmt.Errorf("CompareUint64(uint64, non-uint64) not supported")
		return
	}

	switch {
	case key1Uint64 < key2Uint64:
		result = -1
	case key1Uint64 > key2Uint64:
		result = 1
	}

	return
}

// CompareFloat64 orders NaN after every other value (including +Inf) and
// equal to itself so that float64 keys are totally ordered.
func CompareFloat64(key1 Key, key2 Key) (result int, err error) {
	key1Float64, ok := key1.(float64)
	if !ok {
		err = fmt.Errorf("CompareFloat64(non-float64,) not supported")
		return
	}
	key2Float64, ok := key2.(float64)
	if !ok {
		err = fmt.Errorf("CompareFloat64(float64, non-float64) not supported")
		return
	}

	key1IsNaN := math.IsNaN(key1Float64)
	key2IsNaN := math.IsNaN(key2Float64)

	switch {
	case key1IsNaN && key2IsNaN:
		result = 0
	case key1IsNaN:
		result = 1
	case key2IsNaN:
		result = -1
	case key1Float64 < key2Float64:
		result = -1
	case key1Float64 > key2Float64:
		result = 1
	}

	return
}

func CompareString(key1 Key, key2 Key) (result int, err error) {
	key1String, ok := key1.(string)
	if !ok {
		err = fmt.Errorf("CompareString(non-string,) not supported")
		return
	}
	key2String, ok := key2.(string)
	if !ok {
		err = fmt.Errorf("CompareString(string, non-string) not supported")
		return
	}

	result = strings.Compare(key1String, key2String)

	return
}

func CompareByteSlice(key1 Key, key2 Key) (result int, err error) {
	key1Slice, ok := key1.([]byte)
	if !ok {
		err = fmt.Errorf("CompareByteSlice(non-[]byte,) not supported")
		return
	}
	key2Slice, ok := key2.([]byte)
	if !ok {
		err = fmt.Errorf("CompareByteSlice([]byte, non-[]byte) not supported")
		return
	}

	result = bytes.Compare(key1Slice, key2Slice)

	return
}

// CompareBool orders false before true
func CompareBool(key1 Key, key2 Key) (result int, err error) {
	key1Bool, ok := key1.(bool)
	if !ok {
		err = fmt.Errorf("CompareBool(non-bool,) not supported")
		return
	}
	key2Bool, ok := key2.(bool)
	if !ok {
		err = fmt.Errorf("CompareBool(bool, non-bool) not supported")
		return
	}

	switch {
	case key1Bool == key2Bool:
		result = 0
	case key2Bool:
		result = -1
	default:
		result = 1
	}

	return
}

// CompareNatural dispatches on the dynamic type of key1 to the matching
// CompareXxx function (or to key1.CompareTo() for a Comparable). Keys of
// differing types, nil keys, and unsupported types fail.
func CompareNatural(key1 Key, key2 Key) (result int, err error) {
	switch key1Typed := key1.(type) {
	case nil:
		err = fmt.Errorf("CompareNatural(nil,) not supported")
	case int:
		result, err = CompareInt(key1, key2)
	case int64:
		result, err = CompareInt64(key1, key2)
	case uint64:
		result, err = CompareUint64(key1, key2)
	case float64:
		result, err = CompareFloat64(key1, key2)
	case string:
		result, err = CompareString(key1, key2)
	case []byte:
		result, err = CompareByteSlice(key1, key2)
	case bool:
		result, err = CompareBool(key1, key2)
	case Comparable:
		result, err = key1Typed.CompareTo(key2)
	default:
		err = fmt.Errorf("CompareNatural(%T,) not supported", key1)
	}

	return
}

// NullsFirst returns a Compare that orders a nil key before every non-nil
// key, treats two nil keys as equal, and otherwise defers to compare.
func NullsFirst(compare Compare) Compare {
	return func(key1 Key, key2 Key) (result int, err error) {
		if nil == key1 {
			if nil == key2 {
				return 0, nil
			}
			return -1, nil
		}
		if nil == key2 {
			return 1, nil
		}
		return compare(key1, key2)
	}
}

// NullsLast returns a Compare that orders a nil key after every non-nil key,
// treats two nil keys as equal, and otherwise defers to compare.
func NullsLast(compare Compare) Compare {
	return func(key1 Key, key2 Key) (result int, err error) {
		if nil == key1 {
			if nil == key2 {
				return 0, nil
			}
			return 1, nil
		}
		if nil == key2 {
			return -1, nil
		}
		return compare(key1, key2)
	}
}

// Reverse returns a Compare imposing the reverse of compare's order
func Reverse(compare Compare) Compare {
	return func(key1 Key, key2 Key) (result int, err error) {
		return compare(key2, key1)
	}
}
