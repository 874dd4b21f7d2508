package shelf

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// elementTypes holds one table.ElementType per component type for the whole
// process. Worlds on different goroutines share it.
var elementTypes = struct {
	sync.RWMutex
	byType map[reflect.Type]table.ElementType
}{
	byType: make(map[reflect.Type]table.ElementType),
}

// elementTypeFor returns T's element type, creating it on first use.
func elementTypeFor[T any]() table.ElementType {
	typ := reflect.TypeFor[T]()

	elementTypes.RLock()
	et, ok := elementTypes.byType[typ]
	elementTypes.RUnlock()
	if ok {
		return et
	}

	elementTypes.Lock()
	defer elementTypes.Unlock()
	if et, ok := elementTypes.byType[typ]; ok {
		return et
	}
	et = table.FactoryNewElementType[T]()
	elementTypes.byType[typ] = et
	return et
}
