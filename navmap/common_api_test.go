// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

// Meta Test library exercising NavigableMap APIs under a metaTestConfig
//
// Each metaTestXxx() is driven by TestNaturalOrderXxx(), TestComparatorOrderXxx(),
// and TestNullsFirstComparatorXxx() for every engine.

import (
	"fmt"
	mathRand "math/rand"
	"reflect"
	"sync"
	"testing"

	"github.com/NVIDIA/navmap/blunder"
)

const (
	testNumKeys = 200

	testPseudoRandomSeed = int64(0)

	testNumGoroutines     = 8
	testKeysPerGoroutine  = 100
	testSmallBTreeDegree  = 2
	testNavigationNumKeys = 4
)

// metaTestConfig is what a test fixture customizes: how keys are ordered and
// whether that ordering admits the nil key
type metaTestConfig struct {
	policy     OrderingPolicy
	useNullKey bool
	config     Config
}

var testEngines = []string{LLRBEngine, BTreeEngine}

func testEngineConfig(engine string) (config Config) {
	config = DefaultConfig()
	config.Name = "test-" + engine
	config.Engine = engine
	config.BTreeDegree = testSmallBTreeDegree
	return
}

func naturalOrderConfig(engine string) metaTestConfig {
	return metaTestConfig{policy: NaturalOrder(), useNullKey: false, config: testEngineConfig(engine)}
}

func comparatorOrderConfig(engine string) metaTestConfig {
	return metaTestConfig{policy: ComparatorOrder(CompareInt, false), useNullKey: false, config: testEngineConfig(engine)}
}

func nullsFirstComparatorConfig(engine string) metaTestConfig {
	return metaTestConfig{policy: ComparatorOrder(NullsFirst(CompareInt), true), useNullKey: true, config: testEngineConfig(engine)}
}

// runMetaTest runs metaTest against every engine for the config built by configFor
func runMetaTest(t *testing.T, configFor func(engine string) metaTestConfig, metaTest func(t *testing.T, c metaTestConfig)) {
	for _, engine := range testEngines {
		c := configFor(engine)
		t.Run(engine, func(t *testing.T) {
			metaTest(t, c)
		})
	}
}

func (c metaTestConfig) newMap(t *testing.T) (navMap NavigableMap) {
	navMap, err := NewWithConfig(c.policy, c.config)
	if nil != err {
		t.Fatalf("NewWithConfig() failed: %v", err)
	}
	return
}

func (c metaTestConfig) newPopulatedMap(t *testing.T, keys ...int) (navMap NavigableMap) {
	navMap = c.newMap(t)
	for _, key := range keys {
		_, _, err := navMap.Put(key, fmt.Sprintf("%d", key))
		if nil != err {
			t.Fatalf("Put(%v) failed: %v", key, err)
		}
	}
	return
}

func intKeys(from int, to int) (keys []int) {
	for key := from; key <= to; key++ {
		keys = append(keys, key)
	}
	return
}

func expectKeys(t *testing.T, what string, navMap NavigableMap, expectedKeys ...Key) {
	t.Helper()

	keys, err := navMap.Keys()
	if nil != err {
		t.Fatalf("%s: Keys() failed: %v", what, err)
	}
	if nil == expectedKeys {
		expectedKeys = []Key{}
	}
	if !reflect.DeepEqual(keys, expectedKeys) {
		t.Fatalf("%s: Keys() returned %v... expected %v", what, keys, expectedKeys)
	}
}

func expectKey(t *testing.T, what string, key Key, ok bool, err error, expectedKey Key, expectedOK bool) {
	t.Helper()

	if nil != err {
		t.Fatalf("%s failed: %v", what, err)
	}
	if expectedOK != ok {
		t.Fatalf("%s.ok should have been %v", what, expectedOK)
	}
	if ok && !reflect.DeepEqual(key, expectedKey) {
		t.Fatalf("%s returned %v... expected %v", what, key, expectedKey)
	}
}

func expectError(t *testing.T, what string, err error, expectedError blunder.NavMapError) {
	t.Helper()

	if nil == err {
		t.Fatalf("%s should have failed", what)
	}
	if !blunder.Is(err, expectedError) {
		t.Fatalf("%s returned %v (errno %v)... expected %v", what, err, blunder.Errno(err), expectedError)
	}
}

func metaTestPutGetRemove(t *testing.T, c metaTestConfig) {
	navMap := c.newMap(t)

	empty, err := navMap.IsEmpty()
	if nil != err {
		t.Fatal(err)
	}
	if !empty {
		t.Fatalf("IsEmpty() of just created map should have been true")
	}

	numberOfItems, err := navMap.Len()
	if nil != err {
		t.Fatal(err)
	}
	if 0 != numberOfItems {
		t.Fatalf("Len() of just created map should have been 0... instead it was %v", numberOfItems)
	}

	_, ok, err := navMap.Get(5)
	if nil != err {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("Get(5).ok of just created map should have been false")
	}

	for _, key := range []int{5, 3, 7} {
		previous, replaced, err := navMap.Put(key, fmt.Sprintf("%d", key))
		if nil != err {
			t.Fatal(err)
		}
		if replaced || (nil != previous) {
			t.Fatalf("Put(%v) of a new key should not have replaced anything", key)
		}
	}

	value, ok, err := navMap.Get(3)
	if nil != err {
		t.Fatal(err)
	}
	if !ok || ("3" != value.(string)) {
		t.Fatalf("Get(3) should have returned \"3\"... instead it returned %v, %v", value, ok)
	}

	previous, replaced, err := navMap.Put(3, "three")
	if nil != err {
		t.Fatal(err)
	}
	if !replaced || ("3" != previous.(string)) {
		t.Fatalf("Put(3, \"three\") should have replaced \"3\"... instead it returned %v, %v", previous, replaced)
	}

	value, _, _ = navMap.Get(3)
	if "three" != value.(string) {
		t.Fatalf("Get(3) after replacement should have returned \"three\"... instead it returned %v", value)
	}

	numberOfItems, _ = navMap.Len()
	if 3 != numberOfItems {
		t.Fatalf("Len() should have been 3... instead it was %v", numberOfItems)
	}

	ok, err = navMap.ContainsKey(7)
	if (nil != err) || !ok {
		t.Fatalf("ContainsKey(7) should have been true")
	}
	ok, err = navMap.ContainsKey(4)
	if (nil != err) || ok {
		t.Fatalf("ContainsKey(4) should have been false")
	}

	ok, err = navMap.ContainsValue("three")
	if (nil != err) || !ok {
		t.Fatalf("ContainsValue(\"three\") should have been true")
	}
	ok, err = navMap.ContainsValue("3")
	if (nil != err) || ok {
		t.Fatalf("ContainsValue(\"3\") should have been false")
	}

	value, ok, err = navMap.Remove(5)
	if nil != err {
		t.Fatal(err)
	}
	if !ok || ("5" != value.(string)) {
		t.Fatalf("Remove(5) should have returned \"5\"... instead it returned %v, %v", value, ok)
	}

	_, ok, err = navMap.Remove(5)
	if nil != err {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("second Remove(5).ok should have been false")
	}

	expectKeys(t, "after Remove(5)", navMap, 3, 7)

	values, err := navMap.Values()
	if nil != err {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, []Value{"three", "7"}) {
		t.Fatalf("Values() returned %v", values)
	}

	if "{3=three, 7=7}" != navMap.String() {
		t.Fatalf("String() returned %v", navMap.String())
	}

	err = navMap.Validate()
	if nil != err {
		t.Fatal(err)
	}

	err = navMap.Clear()
	if nil != err {
		t.Fatal(err)
	}

	empty, _ = navMap.IsEmpty()
	if !empty {
		t.Fatalf("IsEmpty() after Clear() should have been true")
	}

	other := c.newPopulatedMap(t, 1, 2)
	err = navMap.PutAll(other)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "after PutAll()", navMap, 1, 2)
}

func metaTestIterationOrder(t *testing.T, c metaTestConfig) {
	randSource := mathRand.New(mathRand.NewSource(testPseudoRandomSeed))

	navMap := c.newMap(t)

	for _, key := range randSource.Perm(testNumKeys) {
		_, _, err := navMap.Put(key, fmt.Sprintf("%d", key))
		if nil != err {
			t.Fatalf("Put(%v) failed: %v", key, err)
		}
	}

	err := navMap.Validate()
	if nil != err {
		t.Fatalf("Validate() after inserts failed: %v", err)
	}

	expectedKeys := make([]Key, 0, testNumKeys)
	for key := 0; key < testNumKeys; key++ {
		expectedKeys = append(expectedKeys, key)
	}
	expectKeys(t, "after random inserts", navMap, expectedKeys...)

	for _, key := range randSource.Perm(testNumKeys) {
		if 0 == key%2 {
			_, ok, err := navMap.Remove(key)
			if (nil != err) || !ok {
				t.Fatalf("Remove(%v) failed: %v %v", key, ok, err)
			}
		}
	}

	err = navMap.Validate()
	if nil != err {
		t.Fatalf("Validate() after removes failed: %v", err)
	}

	expectedKeys = make([]Key, 0, testNumKeys/2)
	for key := 1; key < testNumKeys; key += 2 {
		expectedKeys = append(expectedKeys, key)
	}
	expectKeys(t, "after removing even keys", navMap, expectedKeys...)

	if !c.useNullKey {
		return
	}

	_, _, err = navMap.Put(nil, "nil")
	if nil != err {
		t.Fatal(err)
	}

	expectKeys(t, "after Put(nil)", navMap, append([]Key{nil}, expectedKeys...)...)

	err = navMap.Validate()
	if nil != err {
		t.Fatalf("Validate() after Put(nil) failed: %v", err)
	}
}

func metaTestNullKey(t *testing.T, c metaTestConfig) {
	navMap := c.newMap(t)

	if !c.useNullKey {
		_, _, err := navMap.Put(nil, "a")
		expectError(t, "Put(nil)", err, blunder.InvalidKeyError)

		numberOfItems, _ := navMap.Len()
		if 0 != numberOfItems {
			t.Fatalf("Len() after rejected Put(nil) should have been 0... instead it was %v", numberOfItems)
		}

		_, _, err = navMap.Get(nil)
		expectError(t, "Get(nil)", err, blunder.InvalidKeyError)
		_, _, err = navMap.Remove(nil)
		expectError(t, "Remove(nil)", err, blunder.InvalidKeyError)
		_, _, err = navMap.FloorKey(nil)
		expectError(t, "FloorKey(nil)", err, blunder.InvalidKeyError)
		_, err = navMap.HeadMap(nil, true)
		expectError(t, "HeadMap(nil)", err, blunder.InvalidKeyError)

		return
	}

	for _, put := range []struct {
		key   Key
		value Value
	}{{nil, "a"}, {5, "b"}, {3, "c"}, {nil, "d"}} {
		_, _, err := navMap.Put(put.key, put.value)
		if nil != err {
			t.Fatalf("Put(%v, %v) failed: %v", put.key, put.value, err)
		}
	}

	expectKeys(t, "after inserting [nil 5 3 nil]", navMap, nil, 3, 5)

	value, ok, err := navMap.Get(nil)
	if nil != err {
		t.Fatal(err)
	}
	if !ok || ("d" != value.(string)) {
		t.Fatalf("Get(nil) should have returned the overwriting value \"d\"... instead it returned %v, %v", value, ok)
	}

	key, ok, err := navMap.FirstKey()
	expectKey(t, "FirstKey()", key, ok, err, nil, true)
	key, ok, err = navMap.FloorKey(nil)
	expectKey(t, "FloorKey(nil)", key, ok, err, nil, true)
	key, ok, err = navMap.LowerKey(3)
	expectKey(t, "LowerKey(3)", key, ok, err, nil, true)
	key, ok, err = navMap.HigherKey(nil)
	expectKey(t, "HigherKey(nil)", key, ok, err, 3, true)
	_, ok, err = navMap.LowerKey(nil)
	expectKey(t, "LowerKey(nil)", nil, ok, err, nil, false)

	if "{null=d, 3=c, 5=b}" != navMap.String() {
		t.Fatalf("String() returned %v", navMap.String())
	}

	err = navMap.Validate()
	if nil != err {
		t.Fatal(err)
	}

	value, ok, err = navMap.Remove(nil)
	if (nil != err) || !ok || ("d" != value.(string)) {
		t.Fatalf("Remove(nil) should have returned \"d\"... instead it returned %v, %v, %v", value, ok, err)
	}

	expectKeys(t, "after Remove(nil)", navMap, 3, 5)
}

func metaTestInvalidKey(t *testing.T, c metaTestConfig) {
	navMap := c.newPopulatedMap(t, 1)

	_, _, err := navMap.Put("a", "a")
	expectError(t, "Put(\"a\")", err, blunder.InvalidKeyError)

	_, _, err = navMap.Get("a")
	expectError(t, "Get(\"a\")", err, blunder.InvalidKeyError)

	_, _, err = navMap.CeilingKey(1.5)
	expectError(t, "CeilingKey(1.5)", err, blunder.InvalidKeyError)

	expectKeys(t, "after rejected keys", navMap, 1)

	err = navMap.Validate()
	if nil != err {
		t.Fatal(err)
	}
}

// expectAppliedOrUntouched checks that an operation that tripped over a
// failing comparison either failed with InvalidKeyError leaving before intact
// or succeeded leaving after
func expectAppliedOrUntouched(t *testing.T, what string, navMap NavigableMap, err error, before []Key, after []Key) {
	t.Helper()

	if nil == err {
		expectKeys(t, what+" succeeded", navMap, after...)
	} else {
		expectError(t, what, err, blunder.InvalidKeyError)
		expectKeys(t, what+" failed", navMap, before...)
	}

	err = navMap.Validate()
	if nil != err {
		t.Fatalf("%s: Validate() failed: %v", what, err)
	}
}

// metaTestOneSidedCompareFailure uses a comparator that fails for key1:key2
// while still ordering key2:key1, as CompareNatural does for a Comparable
// key compared with a plain int
func metaTestOneSidedCompareFailure(t *testing.T, c metaTestConfig) {
	failingPairs := [][2]Key{{4, 6}, {6, 4}, {2, 4}, {4, 2}, {5, 6}, {6, 3}}

	for _, failingPair := range failingPairs {
		var (
			failing bool
		)

		compare := func(key1 Key, key2 Key) (result int, err error) {
			if failing && (failingPair[0] == key1) && (failingPair[1] == key2) {
				err = fmt.Errorf("cannot compare %v with %v", key1, key2)
				return
			}
			result, err = c.policy.compare(key1, key2)
			return
		}

		oneSided := metaTestConfig{
			policy:     ComparatorOrder(compare, c.policy.NullKeys),
			useNullKey: c.useNullKey,
			config:     c.config,
		}

		navMap := oneSided.newPopulatedMap(t, intKeys(1, 5)...)

		what := fmt.Sprintf("failing %v:%v Put(6)", failingPair[0], failingPair[1])
		failing = true
		_, _, err := navMap.Put(6, "6")
		failing = false
		expectAppliedOrUntouched(t, what, navMap, err, intKeysAsKeys(1, 5), intKeysAsKeys(1, 6))

		before, err := navMap.Keys()
		if nil != err {
			t.Fatal(err)
		}
		after := make([]Key, 0, len(before))
		for _, key := range before {
			if 2 != key {
				after = append(after, key)
			}
		}

		what = fmt.Sprintf("failing %v:%v Remove(2)", failingPair[0], failingPair[1])
		failing = true
		_, _, err = navMap.Remove(2)
		failing = false
		expectAppliedOrUntouched(t, what, navMap, err, before, after)
	}
}

func metaTestIdempotentPut(t *testing.T, c metaTestConfig) {
	navMap := c.newPopulatedMap(t, 4, 2, 8, 6)

	if c.useNullKey {
		_, _, err := navMap.Put(nil, "nil")
		if nil != err {
			t.Fatal(err)
		}
	}

	before, err := navMap.Entries()
	if nil != err {
		t.Fatal(err)
	}

	for _, entry := range before {
		previous, replaced, err := navMap.Put(entry.Key, entry.Value)
		if nil != err {
			t.Fatal(err)
		}
		if !replaced || !reflect.DeepEqual(previous, entry.Value) {
			t.Fatalf("re-Put(%v) should have replaced %v... instead it returned %v, %v", entry.Key, entry.Value, previous, replaced)
		}
	}

	after, err := navMap.Entries()
	if nil != err {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("Entries() changed by re-Put(): %v became %v", before, after)
	}
}

func metaTestNavigation(t *testing.T, c metaTestConfig) {
	navMap := c.newMap(t)

	_, ok, err := navMap.PollFirstEntry()
	if (nil != err) || ok {
		t.Fatalf("PollFirstEntry() of just created map should have been !ok")
	}
	_, ok, err = navMap.FirstKey()
	expectKey(t, "FirstKey() of empty map", nil, ok, err, nil, false)
	_, ok, err = navMap.FloorKey(10)
	expectKey(t, "FloorKey(10) of empty map", nil, ok, err, nil, false)

	for key := 10; key <= 10*testNavigationNumKeys; key += 10 {
		_, _, err = navMap.Put(key, fmt.Sprintf("%d", key))
		if nil != err {
			t.Fatal(err)
		}
	}

	for _, navigation := range []struct {
		name        string
		navigate    func(key Key) (Key, bool, error)
		key         int
		expectedKey int
		expectedOK  bool
	}{
		{"FloorKey", navMap.FloorKey, 5, 0, false},
		{"FloorKey", navMap.FloorKey, 10, 10, true},
		{"FloorKey", navMap.FloorKey, 15, 10, true},
		{"FloorKey", navMap.FloorKey, 45, 40, true},
		{"CeilingKey", navMap.CeilingKey, 5, 10, true},
		{"CeilingKey", navMap.CeilingKey, 10, 10, true},
		{"CeilingKey", navMap.CeilingKey, 15, 20, true},
		{"CeilingKey", navMap.CeilingKey, 45, 0, false},
		{"HigherKey", navMap.HigherKey, 5, 10, true},
		{"HigherKey", navMap.HigherKey, 10, 20, true},
		{"HigherKey", navMap.HigherKey, 40, 0, false},
		{"LowerKey", navMap.LowerKey, 10, 0, false},
		{"LowerKey", navMap.LowerKey, 11, 10, true},
		{"LowerKey", navMap.LowerKey, 45, 40, true},
	} {
		key, ok, err := navigation.navigate(navigation.key)
		expectKey(t, fmt.Sprintf("%s(%d)", navigation.name, navigation.key), key, ok, err, navigation.expectedKey, navigation.expectedOK)
	}

	key, ok, err := navMap.FirstKey()
	expectKey(t, "FirstKey()", key, ok, err, 10, true)
	key, ok, err = navMap.LastKey()
	expectKey(t, "LastKey()", key, ok, err, 40, true)

	entry, ok, err := navMap.FloorEntry(25)
	if (nil != err) || !ok || !reflect.DeepEqual(entry, Entry{Key: 20, Value: "20"}) {
		t.Fatalf("FloorEntry(25) returned %v, %v, %v", entry, ok, err)
	}

	entry, ok, err = navMap.PollFirstEntry()
	if (nil != err) || !ok || (10 != entry.Key.(int)) {
		t.Fatalf("PollFirstEntry() returned %v, %v, %v", entry, ok, err)
	}
	entry, ok, err = navMap.PollLastEntry()
	if (nil != err) || !ok || (40 != entry.Key.(int)) {
		t.Fatalf("PollLastEntry() returned %v, %v, %v", entry, ok, err)
	}

	expectKeys(t, "after polls", navMap, 20, 30)

	if !c.useNullKey {
		return
	}

	_, _, err = navMap.Put(nil, "nil")
	if nil != err {
		t.Fatal(err)
	}

	key, ok, err = navMap.LowerKey(20)
	expectKey(t, "LowerKey(20)", key, ok, err, nil, true)
	key, ok, err = navMap.CeilingKey(nil)
	expectKey(t, "CeilingKey(nil)", key, ok, err, nil, true)

	entry, ok, err = navMap.PollFirstEntry()
	if (nil != err) || !ok || (nil != entry.Key) || ("nil" != entry.Value.(string)) {
		t.Fatalf("PollFirstEntry() with nil key present returned %v, %v, %v", entry, ok, err)
	}
}

func metaTestViews(t *testing.T, c metaTestConfig) {
	navMap := c.newPopulatedMap(t, intKeys(0, 9)...)

	subMap, err := navMap.SubMap(2, true, 6, false)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "SubMap(2, true, 6, false)", subMap, 2, 3, 4, 5)

	if subMap.ID() != navMap.ID() {
		t.Fatalf("SubMap().ID() should match its backing map's ID()")
	}

	numberOfItems, err := subMap.Len()
	if (nil != err) || (4 != numberOfItems) {
		t.Fatalf("SubMap().Len() returned %v, %v", numberOfItems, err)
	}

	key, ok, err := subMap.FloorKey(100)
	expectKey(t, "SubMap().FloorKey(100)", key, ok, err, 5, true)
	key, ok, err = subMap.CeilingKey(-1)
	expectKey(t, "SubMap().CeilingKey(-1)", key, ok, err, 2, true)
	_, ok, err = subMap.HigherKey(5)
	expectKey(t, "SubMap().HigherKey(5)", nil, ok, err, nil, false)
	_, ok, err = subMap.LowerKey(2)
	expectKey(t, "SubMap().LowerKey(2)", nil, ok, err, nil, false)

	_, ok, err = subMap.Get(7)
	if (nil != err) || ok {
		t.Fatalf("SubMap().Get(7) should have been !ok")
	}

	_, _, err = subMap.Put(7, "7")
	expectError(t, "SubMap().Put(7)", err, blunder.OutOfRangeError)
	_, _, err = subMap.Put(6, "6")
	expectError(t, "SubMap().Put(6)", err, blunder.OutOfRangeError)

	_, replaced, err := subMap.Put(2, "two")
	if (nil != err) || !replaced {
		t.Fatalf("SubMap().Put(2) should have replaced through the view")
	}
	value, _, _ := navMap.Get(2)
	if "two" != value.(string) {
		t.Fatalf("SubMap().Put(2) not visible in backing map")
	}

	_, _, _ = navMap.Remove(3)
	expectKeys(t, "SubMap() after backing Remove(3)", subMap, 2, 4, 5)
	_, _, _ = navMap.Put(3, "3")

	nested, err := subMap.SubMap(3, true, 5, true)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "SubMap().SubMap(3, true, 5, true)", nested, 3, 4, 5)

	_, err = subMap.SubMap(1, true, 4, true)
	expectError(t, "SubMap().SubMap(1, ...)", err, blunder.InvalidArgError)
	_, err = subMap.SubMap(5, true, 3, true)
	expectError(t, "SubMap().SubMap(5, ..., 3, ...)", err, blunder.InvalidArgError)
	_, err = subMap.SubMap(2, true, 6, true)
	expectError(t, "SubMap().SubMap(..., 6, true)", err, blunder.InvalidArgError)
	_, err = subMap.SubMap(2, true, 6, false)
	if nil != err {
		t.Fatalf("SubMap().SubMap(2, true, 6, false) should have been allowed: %v", err)
	}

	headMap, err := navMap.HeadMap(3, false)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "HeadMap(3, false)", headMap, 0, 1, 2)

	tailMap, err := navMap.TailMap(7, true)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "TailMap(7, true)", tailMap, 7, 8, 9)

	tailHeadMap, err := tailMap.HeadMap(8, true)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "TailMap(7, true).HeadMap(8, true)", tailHeadMap, 7, 8)

	descendingMap := navMap.DescendingMap()
	expectKeys(t, "DescendingMap()", descendingMap, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0)

	key, ok, err = descendingMap.FirstKey()
	expectKey(t, "DescendingMap().FirstKey()", key, ok, err, 9, true)
	key, ok, err = descendingMap.FloorKey(4)
	expectKey(t, "DescendingMap().FloorKey(4)", key, ok, err, 4, true)
	key, ok, err = descendingMap.HigherKey(4)
	expectKey(t, "DescendingMap().HigherKey(4)", key, ok, err, 3, true)
	key, ok, err = descendingMap.LowerKey(4)
	expectKey(t, "DescendingMap().LowerKey(4)", key, ok, err, 5, true)
	_, ok, err = descendingMap.HigherKey(0)
	expectKey(t, "DescendingMap().HigherKey(0)", nil, ok, err, nil, false)

	result, err := descendingMap.Policy().Compare(1, 2)
	if (nil != err) || (0 >= result) {
		t.Fatalf("DescendingMap().Policy().Compare(1, 2) should have been positive")
	}

	descendingSubMap, err := descendingMap.SubMap(7, true, 3, false)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "DescendingMap().SubMap(7, true, 3, false)", descendingSubMap, 7, 6, 5, 4)

	_, err = descendingMap.SubMap(3, true, 7, true)
	expectError(t, "DescendingMap().SubMap(3, ..., 7, ...)", err, blunder.InvalidArgError)

	descendingHeadMap, err := descendingMap.HeadMap(6, false)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "DescendingMap().HeadMap(6, false)", descendingHeadMap, 9, 8, 7)

	descendingTailMap, err := descendingMap.TailMap(2, true)
	if nil != err {
		t.Fatal(err)
	}
	expectKeys(t, "DescendingMap().TailMap(2, true)", descendingTailMap, 2, 1, 0)

	expectKeys(t, "DescendingMap().DescendingMap()", descendingMap.DescendingMap(), intKeysAsKeys(0, 9)...)

	entry, ok, err := descendingSubMap.PollFirstEntry()
	if (nil != err) || !ok || (7 != entry.Key.(int)) {
		t.Fatalf("DescendingMap().SubMap().PollFirstEntry() returned %v, %v, %v", entry, ok, err)
	}
	_, _, _ = navMap.Put(7, "7")

	err = subMap.Clear()
	if nil != err {
		t.Fatal(err)
	}
	empty, err := subMap.IsEmpty()
	if (nil != err) || !empty {
		t.Fatalf("SubMap().IsEmpty() after SubMap().Clear() should have been true")
	}
	expectKeys(t, "after SubMap().Clear()", navMap, 0, 1, 6, 7, 8, 9)

	err = navMap.Validate()
	if nil != err {
		t.Fatal(err)
	}
}

func intKeysAsKeys(from int, to int) (keys []Key) {
	for _, key := range intKeys(from, to) {
		keys = append(keys, key)
	}
	return
}

func metaTestForEach(t *testing.T, c metaTestConfig) {
	var (
		visited []Key
	)

	navMap := c.newPopulatedMap(t, intKeys(0, 9)...)

	err := navMap.ForEach(func(key Key, value Value) bool {
		visited = append(visited, key)
		if 2 == key.(int) {
			_, _, _ = navMap.Remove(3)
			_, _, _ = navMap.Put(100, "100")
		}
		return true
	})
	if nil != err {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(visited, []Key{0, 1, 2, 4, 5, 6, 7, 8, 9, 100}) {
		t.Fatalf("ForEach() with mutation visited %v", visited)
	}

	visited = nil
	err = navMap.ForEach(func(key Key, value Value) bool {
		visited = append(visited, key)
		return 5 != key.(int)
	})
	if nil != err {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(visited, []Key{0, 1, 2, 4, 5}) {
		t.Fatalf("ForEach() stopping at 5 visited %v", visited)
	}

	visited = nil
	headMap, err := navMap.HeadMap(5, true)
	if nil != err {
		t.Fatal(err)
	}
	err = headMap.DescendingMap().ForEach(func(key Key, value Value) bool {
		visited = append(visited, key)
		return true
	})
	if nil != err {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(visited, []Key{5, 4, 2, 1, 0}) {
		t.Fatalf("HeadMap(5, true).DescendingMap().ForEach() visited %v", visited)
	}
}

func metaTestEqualAndDigest(t *testing.T, c metaTestConfig) {
	navMapA := c.newPopulatedMap(t, 1, 2, 3, 4)
	navMapB := c.newPopulatedMap(t, 4, 3, 2, 1)

	equal, err := navMapA.Equal(navMapB)
	if (nil != err) || !equal {
		t.Fatalf("Equal() of maps with identical contents should have been true (err: %v)", err)
	}

	digestA, err := navMapA.Digest()
	if nil != err {
		t.Fatal(err)
	}
	digestB, err := navMapB.Digest()
	if nil != err {
		t.Fatal(err)
	}
	if digestA != digestB {
		t.Fatalf("Digest() of equal maps differ: %016X != %016X", digestA, digestB)
	}

	equal, err = navMapA.Equal(navMapA.DescendingMap())
	if (nil != err) || !equal {
		t.Fatalf("Equal() of a map and its DescendingMap() should have been true")
	}

	_, _, _ = navMapB.Put(2, "two")

	equal, err = navMapA.Equal(navMapB)
	if (nil != err) || equal {
		t.Fatalf("Equal() of maps with differing values should have been false")
	}
	digestB, _ = navMapB.Digest()
	if digestA == digestB {
		t.Fatalf("Digest() of maps with differing values should (almost certainly) differ")
	}

	_, _, _ = navMapB.Remove(2)

	equal, err = navMapA.Equal(navMapB)
	if (nil != err) || equal {
		t.Fatalf("Equal() of maps with differing lengths should have been false")
	}

	stringMap := New(NaturalOrder())
	for _, key := range []string{"a", "b", "c", "d"} {
		_, _, _ = stringMap.Put(key, key)
	}

	equal, err = navMapA.Equal(stringMap)
	if nil != err {
		t.Fatalf("Equal() against incomparable keys should not fail: %v", err)
	}
	if equal {
		t.Fatalf("Equal() against incomparable keys should have been false")
	}

	emptyDigest, err := c.newMap(t).Digest()
	if (nil != err) || (0 != emptyDigest) {
		t.Fatalf("Digest() of empty map should have been 0")
	}
}

func metaTestConcurrentPuts(t *testing.T, c metaTestConfig) {
	var (
		wg sync.WaitGroup
	)

	navMap := c.newMap(t)

	errChan := make(chan error, testNumGoroutines)

	for g := 0; g < testNumGoroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < testKeysPerGoroutine; i++ {
				key := g*testKeysPerGoroutine + i
				if _, _, err := navMap.Put(key, key); nil != err {
					errChan <- err
					return
				}
			}
		}(g)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Fatal(err)
	}

	numberOfItems, err := navMap.Len()
	if nil != err {
		t.Fatal(err)
	}
	if testNumGoroutines*testKeysPerGoroutine != numberOfItems {
		t.Fatalf("Len() after concurrent Put()s should have been %v... instead it was %v", testNumGoroutines*testKeysPerGoroutine, numberOfItems)
	}

	err = navMap.Validate()
	if nil != err {
		t.Fatal(err)
	}
}
