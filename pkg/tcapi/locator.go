package tcapi

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Value is a single locator dimension value. It is one of String, Int, Bool,
// Time or a nested Locator.
type Value interface {
	locatorValue()
}

// String is a plain scalar value rendered verbatim.
type String string

// Int is a numeric scalar value.
type Int int64

// Bool renders as the literal true or false.
type Bool bool

// Time renders using the TeamCity date format.
type Time time.Time

func (String) locatorValue()  {}
func (Int) locatorValue()     {}
func (Bool) locatorValue()    {}
func (Time) locatorValue()    {}
func (Locator) locatorValue() {}

// unsupported carries a value ToValue could not convert so that Compile can
// report it against the field path.
type unsupported struct {
	value interface{}
}

func (unsupported) locatorValue() {}

// Field is one key/value dimension of a locator.
type Field struct {
	Key   string
	Value Value
}

// Locator is an ordered set of dimensions. Rendering preserves the order in
// which fields were added. Values are rendered verbatim: a value containing
// the locator syntax characters , ( or ) changes the meaning of the locator.
// The client escapes % ? and # when a locator is sent as a URL path segment.
//
// See https://www.jetbrains.com/help/teamcity/rest/locator.html for the
// dimensions supported by each resource.
type Locator []Field

// NewLocator creates a locator from the given fields.
func NewLocator(fields ...Field) Locator {
	return Locator(fields)
}

// With returns a copy of the locator with key appended. value may be a Value
// or a native Go value accepted by ToValue.
func (l Locator) With(key string, value interface{}) Locator {
	out := make(Locator, len(l), len(l)+1)
	copy(out, l)

	return append(out, Field{Key: key, Value: ToValue(value)})
}

// Compile renders the locator into the TeamCity locator string syntax.
func (l Locator) Compile() (string, error) {
	return l.compile("")
}

// CompileLocator renders locator into the TeamCity locator string syntax.
func CompileLocator(locator Locator) (string, error) {
	return locator.Compile()
}

func (l Locator) compile(prefix string) (string, error) {
	parts := make([]string, 0, len(l))

	for _, field := range l {
		path := prefix + field.Key

		switch value := field.Value.(type) {
		case nil:
			return "", &LocatorFieldUndefinedError{Field: path}
		case Time:
			parts = append(parts, field.Key+":"+FormatDate(time.Time(value)))
		case Locator:
			nested, err := value.compile(path + ".")
			if err != nil {
				return "", err
			}

			parts = append(parts, field.Key+":("+nested+")")
		case Bool:
			parts = append(parts, field.Key+":"+strconv.FormatBool(bool(value)))
		case Int:
			parts = append(parts, field.Key+":"+strconv.FormatInt(int64(value), 10))
		case String:
			parts = append(parts, field.Key+":"+string(value))
		case unsupported:
			return "", fmt.Errorf("%w: %T for field %s", ErrUnsupportedLocatorValue, value.value, path)
		default:
			return "", fmt.Errorf("%w: %T for field %s", ErrUnsupportedLocatorValue, field.Value, path)
		}
	}

	return strings.Join(parts, ","), nil
}

// ToValue converts a native Go value into a locator Value. A nil input, or a
// nil pointer, yields a nil Value, which Compile reports as an undefined
// field. Pointers are dereferenced. Values that have no locator rendering,
// such as maps, slices and structs, are reported by Compile as
// ErrUnsupportedLocatorValue.
func ToValue(value interface{}) Value {
	switch typed := value.(type) {
	case nil:
		return nil
	case Value:
		return typed
	case string:
		return String(typed)
	case bool:
		return Bool(typed)
	case int:
		return Int(typed)
	case int32:
		return Int(typed)
	case int64:
		return Int(typed)
	case uint:
		return String(strconv.FormatUint(uint64(typed), 10))
	case uint32:
		return Int(typed)
	case uint64:
		return String(strconv.FormatUint(typed, 10))
	case float32:
		return String(strconv.FormatFloat(float64(typed), 'f', -1, 32))
	case float64:
		return String(strconv.FormatFloat(typed, 'f', -1, 64))
	case time.Time:
		return Time(typed)
	case []Field:
		return Locator(typed)
	}

	return reflectValue(reflect.ValueOf(value))
}

func reflectValue(rv reflect.Value) Value {
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}

		return ToValue(rv.Elem().Interface())
	}

	if stringer, ok := rv.Interface().(fmt.Stringer); ok {
		return String(stringer.String())
	}

	switch rv.Kind() {
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return String(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		return String(strconv.FormatFloat(rv.Float(), 'f', -1, 32))
	case reflect.Float64:
		return String(strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	default:
		return unsupported{value: rv.Interface()}
	}
}

// IDLocator selects a single resource by id.
func IDLocator(id interface{}) Locator {
	return Locator{}.With("id", id)
}

// SnapshotDependencyLocator selects the builds that buildID depends on through
// snapshot dependencies, excluding buildID itself and bypassing the server's
// default filter (so failed, canceled and personal builds are included).
func SnapshotDependencyLocator(buildID int64) Locator {
	return Locator{}.
		With("snapshotDependency", Locator{}.
			With("to", IDLocator(buildID)).
			With("includeInitial", false)).
		With("defaultFilter", false)
}

// BuildChangesLocator selects the changes of a single build.
func BuildChangesLocator(buildID int64) Locator {
	return Locator{}.With("build", IDLocator(buildID))
}
