package buffered

import "reflect"

// PutAny inserts data at the back of b, guessing whether data is one record or a batch.
//
// Data is a batch when it's a slice or an array whose first element is itself a slice, an
// array or a map; each element of a batch is inserted with [Buffer.PutMany]. Anything else,
// including empty collections and collections of scalars, is inserted as a single item.
//
// PutAny exists for code that receives untyped data. Prefer [Buffer.Put] and [Buffer.PutMany]
// when the shape is known.
func PutAny(b *Buffer[any], data any) {
	if batch, ok := flatten(data); ok {
		b.PutMany(batch...)
	} else {
		b.Put(data)
	}
}

// PutBackAny works like [PutAny], but inserts at the front with [Buffer.PutBack] and
// [Buffer.PutBackMany].
func PutBackAny(b *Buffer[any], data any) {
	if batch, ok := flatten(data); ok {
		b.PutBackMany(batch...)
	} else {
		b.PutBack(data)
	}
}

// DumpAny drains b with the limit semantics of older callers:
//   - -1 returns all items without removing them, like [Buffer.Snapshot];
//   - 0 removes all items;
//   - below -1 removes nothing;
//   - above 0 removes up to limit items.
func DumpAny[Item any](b *Buffer[Item], limit int) []Item {
	switch {
	case limit == -1:
		return b.Snapshot()
	case limit < -1:
		return []Item{}
	default:
		return b.DumpN(limit)
	}
}

func flatten(data any) ([]any, bool) {
	v := reflect.ValueOf(data)
	if !isCollection(v) || v.Len() == 0 {
		return nil, false
	}

	first := v.Index(0)
	if first.Kind() == reflect.Interface {
		first = first.Elem()
	}
	if !isCollection(first) && first.Kind() != reflect.Map {
		return nil, false
	}

	batch := make([]any, v.Len())
	for i := range batch {
		batch[i] = v.Index(i).Interface()
	}
	return batch, true
}

func isCollection(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		return v.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}
