// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package navmap

// engine is the ordered storage behind a map. An engine is not safe for
// concurrent use; mapStruct serializes access to it.
//
// Every keyed method reports a comparison failure as an err and leaves the
// engine unmodified.
type engine interface {
	put(key Key, value Value) (previous Value, replaced bool, err error)
	get(key Key) (value Value, ok bool, err error)
	remove(key Key) (value Value, ok bool, err error)
	floor(key Key) (entry Entry, ok bool, err error)
	ceiling(key Key) (entry Entry, ok bool, err error)
	higher(key Key) (entry Entry, ok bool, err error)
	lower(key Key) (entry Entry, ok bool, err error)
	first() (entry Entry, ok bool, err error)
	last() (entry Entry, ok bool, err error)
	ascend(visitor func(entry Entry) (keepGoing bool)) (err error)
	len() (numberOfItems int, err error)
	clear() (err error)
	validate() (err error)
}
