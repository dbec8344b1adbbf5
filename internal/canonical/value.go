package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// Value is a tagged tree over structured evidence payloads. Rule evaluation
// resolves dotted field paths against it with explicit recursion, not
// reflection.
type Value struct {
	Kind Kind
	Str  string
	Num  json.Number
	Bool bool
	Obj  map[string]Value
	Arr  []Value
}

// ParseValue decodes a JSON document into a Value tree.
func ParseValue(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return Value{}, fmt.Errorf("parse payload: %w", err)
	}
	return fromAny(tree), nil
}

func fromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	case json.Number:
		return Value{Kind: KindNumber, Num: t}
	case string:
		return Value{Kind: KindString, Str: t}
	case []any:
		arr := make([]Value, len(t))
		for i, elem := range t {
			arr[i] = fromAny(elem)
		}
		return Value{Kind: KindArray, Arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, elem := range t {
			obj[k] = fromAny(elem)
		}
		return Value{Kind: KindObject, Obj: obj}
	default:
		// json.Decoder with UseNumber never produces other types.
		return Value{Kind: KindNull}
	}
}

// IsDefined reports whether the value exists and is not JSON null.
func (v Value) IsDefined() bool { return v.Kind != KindNull }

// ResolvePath walks a dotted path ("operator.licence.number") through the
// tree. Numeric segments index into arrays. Returns false when any segment
// is absent or traverses a scalar.
func (v Value) ResolvePath(path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}
	current := v
	for _, segment := range strings.Split(path, ".") {
		switch current.Kind {
		case KindObject:
			child, ok := current.Obj[segment]
			if !ok {
				return Value{}, false
			}
			current = child
		case KindArray:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(current.Arr) {
				return Value{}, false
			}
			current = current.Arr[idx]
		default:
			return Value{}, false
		}
	}
	return current, true
}
