package utils

import (
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
)

var bboxListPool = sync.Pool{
	New: func() any {
		s := make([]cube.BBox, 0, 16)
		return &s
	},
}

// GetBBoxList returns an empty box list from the pool. It should be handed back with PutBBoxList
// once it is no longer used.
func GetBBoxList() *[]cube.BBox {
	list := bboxListPool.Get().(*[]cube.BBox)
	*list = (*list)[:0]
	return list
}

// PutBBoxList returns a box list to the pool.
func PutBBoxList(list *[]cube.BBox) {
	if list == nil {
		return
	}
	clear(*list)
	*list = (*list)[:0]
	bboxListPool.Put(list)
}
