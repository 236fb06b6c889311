package schema

import (
	"github.com/structsearch/structsearch/internal/valuetype"
)

// Type keys accepted in schema declarations.
const (
	TypeText    = "text"
	TypeKeyword = "keyword"
	TypeInt     = "int"
	TypeLong    = "long"
	TypeFloat   = "float"
	TypeDouble  = "double"
	TypeDate    = "date"
)

// TypeOptions carries per-field configuration for builtin descriptors.
type TypeOptions struct {
	// Store controls whether the backend stores the value for retrieval.
	Store bool

	// Resolution applies to date fields only.
	Resolution valuetype.Resolution

	// Layout is the time.Parse layout for date string inputs; empty means
	// the builtin default layouts.
	Layout string
}

// Builtin returns the descriptor for a builtin type key.
// ok=false means the key is not a known type.
func Builtin(key string, opts TypeOptions) (Descriptor, bool) {
	switch key {
	case TypeText:
		return Descriptor{Key: key, New: func(f string) valuetype.ValueType {
			return valuetype.NewText(f, opts.Store)
		}}, true
	case TypeKeyword:
		return Descriptor{Key: key, New: func(f string) valuetype.ValueType {
			return valuetype.NewKeyword(f, opts.Store)
		}}, true
	case TypeInt:
		return Descriptor{Key: key, New: func(f string) valuetype.ValueType {
			return valuetype.NewInt(f, opts.Store)
		}}, true
	case TypeLong:
		return Descriptor{Key: key, New: func(f string) valuetype.ValueType {
			return valuetype.NewLong(f, opts.Store)
		}}, true
	case TypeFloat:
		return Descriptor{Key: key, New: func(f string) valuetype.ValueType {
			return valuetype.NewFloat(f, opts.Store)
		}}, true
	case TypeDouble:
		return Descriptor{Key: key, New: func(f string) valuetype.ValueType {
			return valuetype.NewDouble(f, opts.Store)
		}}, true
	case TypeDate:
		return Descriptor{Key: key, New: func(f string) valuetype.ValueType {
			return valuetype.NewDate(f, opts.Store, opts.Resolution, opts.Layout)
		}}, true
	default:
		return Descriptor{}, false
	}
}
