// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package templatetest

import (
	"sort"
	"strconv"
	"sync"
)

// Template is a stored template as the server decoded it. Leaf values are
// strings for form bodies and JSON types for JSON bodies.
type Template map[string]any

func (t Template) clone() Template {
	c := make(Template, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

type inMem struct {
	data   map[string]Template
	nextID int64
	lock   sync.Mutex
}

func newInMem() *inMem {
	return &inMem{
		data: map[string]Template{},
	}
}

// push stores t under id, assigning a new id when id is empty. It reports
// whether the template was created rather than replaced.
func (i *inMem) push(id string, t Template) (Template, bool) {
	i.lock.Lock()
	defer i.lock.Unlock()

	if len(id) < 1 {
		i.nextID++
		id = strconv.FormatInt(i.nextID, 10)
	} else if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > i.nextID {
		i.nextID = n
	}

	_, exists := i.data[id]
	stored := t.clone()
	stored["id"] = id
	i.data[id] = stored
	return stored.clone(), !exists
}

func (i *inMem) get(id string) (Template, bool) {
	i.lock.Lock()
	defer i.lock.Unlock()
	t, ok := i.data[id]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}

func (i *inMem) getAll() []Template {
	i.lock.Lock()
	defer i.lock.Unlock()

	ids := make([]string, 0, len(i.data))
	for id := range i.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		if len(ids[a]) != len(ids[b]) {
			return len(ids[a]) < len(ids[b])
		}
		return ids[a] < ids[b]
	})

	result := make([]Template, 0, len(ids))
	for _, id := range ids {
		result = append(result, i.data[id].clone())
	}
	return result
}

func (i *inMem) delete(id string) (Template, bool) {
	i.lock.Lock()
	defer i.lock.Unlock()
	t, ok := i.data[id]
	if !ok {
		return nil, false
	}
	delete(i.data, id)
	return t, true
}
