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

// Package lru implements generically-typed LRU caches.
package lru

// BasicLRU is a simple LRU cache.
//
// This type is not safe for concurrent use.
// The zero value is not valid, instances must be created using NewBasicLRU.
type BasicLRU[K comparable, V any] struct {
	list  *list[K]
	items map[K]cacheItem[K, V]
	cap   int
}

type cacheItem[K any, V any] struct {
	elem  *listElem[K]
	value V
}

// NewBasicLRU creates a new LRU cache.
func NewBasicLRU[K comparable, V any](capacity int) BasicLRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return BasicLRU[K, V]{
		list:  new(list[K]),
		items: make(map[K]cacheItem[K, V]),
		cap:   capacity,
	}
}

// Add adds a value to the cache. Returns true if an item was evicted to store the new item.
func (c *BasicLRU[K, V]) Add(key K, value V) (evicted bool) {
	item, ok := c.items[key]
	if ok {
		// Already exists in cache.
		item.value = value
		c.items[key] = item
		c.list.moveToFront(item.elem)
		return false
	}

	var elem *listElem[K]
	if c.Len() >= c.cap {
		// Evict the oldest item. Its list element is reused for the new key.
		elem = c.list.removeLast()
		delete(c.items, elem.v)
		evicted = true
	} else {
		elem = new(listElem[K])
	}

	elem.v = key
	c.items[key] = cacheItem[K, V]{elem, value}
	c.list.pushFront(elem)
	return evicted
}

// Contains reports whether the given key exists in the cache.
func (c *BasicLRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Get retrieves a value from the cache. This marks the key as recently used.
func (c *BasicLRU[K, V]) Get(key K) (value V, ok bool) {
	item, ok := c.items[key]
	if !ok {
		return value, false
	}
	c.list.moveToFront(item.elem)
	return item.value, true
}

// GetOldest retrieves the least-recently-used item.
// Note that this does not update the item's recency.
func (c *BasicLRU[K, V]) GetOldest() (key K, value V, ok bool) {
	elem := c.list.tail
	if elem == nil {
		return key, value, false
	}
	item := c.items[elem.v]
	return elem.v, item.value, true
}

// Len returns the current number of items in the cache.
func (c *BasicLRU[K, V]) Len() int {
	return len(c.items)
}

// Peek retrieves a value from the cache, but does not mark the key as recently used.
func (c *BasicLRU[K, V]) Peek(key K) (value V, ok bool) {
	item, ok := c.items[key]
	return item.value, ok
}

// Purge empties the cache.
func (c *BasicLRU[K, V]) Purge() {
	c.list.init()
	clear(c.items)
}

// Remove drops an item from the cache. Returns true if the key was present in cache.
func (c *BasicLRU[K, V]) Remove(key K) bool {
	item, ok := c.items[key]
	if ok {
		delete(c.items, key)
		c.list.remove(item.elem)
	}
	return ok
}

// RemoveOldest drops the least recently used item if there is one.
func (c *BasicLRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	elem := c.list.tail
	if elem == nil {
		return key, value, false
	}
	item := c.items[elem.v]
	delete(c.items, elem.v)
	c.list.remove(elem)
	return elem.v, item.value, true
}

// Keys returns all keys of items currently in the cache, from oldest to newest.
func (c *BasicLRU[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.items))
	for elem := c.list.tail; elem != nil; elem = elem.prev {
		keys = append(keys, elem.v)
	}
	return keys
}

// list is a doubly-linked list of cache keys, most recent first.
type list[T any] struct {
	head, tail *listElem[T]
}

type listElem[T any] struct {
	next, prev *listElem[T]
	v          T
}

// init reinitializes the list, making it empty.
func (l *list[T]) init() {
	l.head, l.tail = nil, nil
}

// pushFront adds an element to the front of the list.
func (l *list[T]) pushFront(e *listElem[T]) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	} else {
		l.tail = e
	}
	l.head = e
}

// moveToFront makes 'e' the head of the list.
func (l *list[T]) moveToFront(e *listElem[T]) {
	l.remove(e)
	l.pushFront(e)
}

// remove unlinks an element from the list.
func (l *list[T]) remove(e *listElem[T]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.next, e.prev = nil, nil
}

// removeLast unlinks and returns the last element, if any.
func (l *list[T]) removeLast() *listElem[T] {
	e := l.tail
	if e != nil {
		l.remove(e)
	}
	return e
}
