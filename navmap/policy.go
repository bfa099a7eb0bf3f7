// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

import (
	"github.com/NVIDIA/navmap/blunder"
)

type OrderingKind int

const (
	NaturalOrdering OrderingKind = iota
	ComparatorOrdering
)

func (kind OrderingKind) String() string {
	switch kind {
	case NaturalOrdering:
		return "natural"
	case ComparatorOrdering:
		return "comparator"
	default:
		return "unknown"
	}
}

// OrderingPolicy is the rule determining the relative order of two keys of a
// map. A map's OrderingPolicy is fixed when the map is constructed.
//
// NullKeys reports whether Compare defines an order for the nil key. When it
// is false, any operation handed a nil key fails with blunder.InvalidKeyError
// without consulting Compare.
type OrderingPolicy struct {
	Kind     OrderingKind
	Compare  Compare
	NullKeys bool
}

// NaturalOrder orders keys by CompareNatural and rejects nil keys
func NaturalOrder() OrderingPolicy {
	return OrderingPolicy{Kind: NaturalOrdering, Compare: CompareNatural, NullKeys: false}
}

// ComparatorOrder orders keys by compare. Pass nullKeys == true only if
// compare orders the nil key (e.g. a Compare returned by NullsFirst()).
func ComparatorOrder(compare Compare, nullKeys bool) OrderingPolicy {
	return OrderingPolicy{Kind: ComparatorOrdering, Compare: compare, NullKeys: nullKeys}
}

// Reversed returns the policy imposing the reverse order
func (policy OrderingPolicy) Reversed() OrderingPolicy {
	return OrderingPolicy{Kind: ComparatorOrdering, Compare: Reverse(policy.Compare), NullKeys: policy.NullKeys}
}

func (policy OrderingPolicy) String() string {
	if policy.NullKeys {
		return policy.Kind.String() + " ordering (nil keys ordered)"
	}
	return policy.Kind.String() + " ordering (nil keys rejected)"
}

// compare is Compare guarded by the nil key rule. Any failure is reported
// as a blunder.InvalidKeyError.
func (policy OrderingPolicy) compare(key1 Key, key2 Key) (result int, err error) {
	if !policy.NullKeys && ((nil == key1) || (nil == key2)) {
		err = blunder.NewError(blunder.InvalidKeyError, "nil key not permitted by %v", policy)
		return
	}

	result, err = policy.Compare(key1, key2)
	if nil != err {
		err = blunder.AddError(err, blunder.InvalidKeyError)
	}

	return
}
