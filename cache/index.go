package cache

import (
	"container/list"

	"github.com/IvanBrykalov/diskcache/policy"
)

// index is an insertion-ordered key -> entry mapping.
// Upserting an existing key keeps its position; iteration is deterministic.
type index struct {
	order *list.List // element.Value is *policy.Entry
	items map[string]*list.Element
}

func newIndex() *index {
	return &index{
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

// Len implements policy.Index.
func (ix *index) Len() int { return len(ix.items) }

// Entries implements policy.Index. Metadata maps are shared with the index
// and must be treated as read-only.
func (ix *index) Entries() []policy.Entry {
	out := make([]policy.Entry, 0, len(ix.items))
	for el := ix.order.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value.(*policy.Entry))
	}
	return out
}

func (ix *index) get(key string) (policy.Entry, bool) {
	el, ok := ix.items[key]
	if !ok {
		return policy.Entry{}, false
	}
	return *el.Value.(*policy.Entry), true
}

func (ix *index) upsert(e policy.Entry) {
	if el, ok := ix.items[e.Key]; ok {
		*el.Value.(*policy.Entry) = e
		return
	}
	ix.items[e.Key] = ix.order.PushBack(&e)
}

func (ix *index) remove(key string) (policy.Entry, bool) {
	el, ok := ix.items[key]
	if !ok {
		return policy.Entry{}, false
	}
	delete(ix.items, key)
	ix.order.Remove(el)
	return *el.Value.(*policy.Entry), true
}

func (ix *index) keys() []string {
	out := make([]string, 0, len(ix.items))
	for el := ix.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*policy.Entry).Key)
	}
	return out
}

var _ policy.Index = (*index)(nil)
