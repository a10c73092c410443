// Copyright 2024 The go-dece Authors
// This file is part of the go-dece library.
//
// The go-dece library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-dece library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-dece library. If not, see <http://www.gnu.org/licenses/>.

package lru

import (
	"reflect"
	"testing"
)

func TestBasicLRUEviction(t *testing.T) {
	cache := NewBasicLRU[int, int](64)

	for i := 0; i < 128; i++ {
		cache.Add(i, i)
	}
	if cache.Len() != 64 {
		t.Fatalf("wrong len: %d", cache.Len())
	}
	for i := 0; i < 64; i++ {
		if _, ok := cache.Get(i); ok {
			t.Fatalf("key %d should have been evicted", i)
		}
	}
	for i := 64; i < 128; i++ {
		if v, ok := cache.Get(i); !ok || v != i {
			t.Fatalf("key %d missing or wrong value %d", i, v)
		}
	}
}

func TestBasicLRURecency(t *testing.T) {
	cache := NewBasicLRU[string, int](2)
	cache.Add("a", 1)
	cache.Add("b", 2)

	// Touch "a", then insert a third item. "b" is now the oldest.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("a missing")
	}
	cache.Add("c", 3)
	if cache.Contains("b") {
		t.Fatal("b should have been evicted")
	}
	if !cache.Contains("a") || !cache.Contains("c") {
		t.Fatal("a and c should be cached")
	}
}

func TestBasicLRUPeekKeepsRecency(t *testing.T) {
	cache := NewBasicLRU[string, int](2)
	cache.Add("a", 1)
	cache.Add("b", 2)

	// Peek must not promote "a".
	if _, ok := cache.Peek("a"); !ok {
		t.Fatal("a missing")
	}
	cache.Add("c", 3)
	if cache.Contains("a") {
		t.Fatal("Peek should not have updated recency of a")
	}
}

func TestBasicLRUAddExisting(t *testing.T) {
	cache := NewBasicLRU[string, int](2)
	cache.Add("a", 1)
	if evicted := cache.Add("a", 2); evicted {
		t.Fatal("overwriting should not evict")
	}
	if v, _ := cache.Get("a"); v != 2 {
		t.Fatalf("wrong value after overwrite: %d", v)
	}
	if cache.Len() != 1 {
		t.Fatalf("wrong len: %d", cache.Len())
	}
}

func TestBasicLRUAddReturnValue(t *testing.T) {
	cache := NewBasicLRU[int, int](1)
	if cache.Add(1, 1) {
		t.Error("first add should not report eviction")
	}
	if !cache.Add(2, 2) {
		t.Error("second add should report eviction")
	}
}

func TestBasicLRURemove(t *testing.T) {
	cache := NewBasicLRU[int, int](4)
	for i := 0; i < 4; i++ {
		cache.Add(i, i)
	}
	if !cache.Remove(2) {
		t.Fatal("remove of present key failed")
	}
	if cache.Remove(2) {
		t.Fatal("remove of absent key succeeded")
	}
	if cache.Len() != 3 {
		t.Fatalf("wrong len: %d", cache.Len())
	}
}

func TestBasicLRUOldest(t *testing.T) {
	cache := NewBasicLRU[int, int](4)
	for i := 0; i < 8; i++ {
		cache.Add(i, i)
	}

	k, _, ok := cache.GetOldest()
	if !ok || k != 4 {
		t.Fatalf("wrong oldest key: %d", k)
	}
	k, _, ok = cache.RemoveOldest()
	if !ok || k != 4 {
		t.Fatalf("wrong removed key: %d", k)
	}
	k, _, ok = cache.RemoveOldest()
	if !ok || k != 5 {
		t.Fatalf("wrong next oldest key: %d", k)
	}
}

func TestBasicLRUKeysOrder(t *testing.T) {
	cache := NewBasicLRU[int, int](4)
	for i := 0; i < 4; i++ {
		cache.Add(i, i)
	}
	cache.Get(0) // 0 becomes the newest

	want := []int{1, 2, 3, 0}
	if keys := cache.Keys(); !reflect.DeepEqual(keys, want) {
		t.Fatalf("wrong key order: %v, want %v", keys, want)
	}
}

func TestBasicLRUPurge(t *testing.T) {
	cache := NewBasicLRU[int, int](8)
	for i := 0; i < 8; i++ {
		cache.Add(i, i)
	}
	cache.Purge()
	if cache.Len() != 0 {
		t.Fatalf("wrong len after purge: %d", cache.Len())
	}
	if _, ok := cache.Get(1); ok {
		t.Fatal("cache should be empty")
	}
	// The cache must be usable after Purge.
	cache.Add(100, 100)
	if v, ok := cache.Get(100); !ok || v != 100 {
		t.Fatal("add after purge failed")
	}
}

func TestConcurrentCache(t *testing.T) {
	cache := NewCache[int, int](128)
	done := make(chan struct{})
	for w := 0; w < 4; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 256; i++ {
				cache.Add(i, i*w)
				cache.Get(i)
				cache.Contains(i)
			}
		}(w)
	}
	for w := 0; w < 4; w++ {
		<-done
	}
	if cache.Len() != 128 {
		t.Fatalf("wrong len: %d", cache.Len())
	}
}
