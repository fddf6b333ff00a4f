package table

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// NullToken is the string cast of a missing value in value counts.
const NullToken = "<NA>"

// IsNull reports whether v is the missing sentinel. A float NaN is treated as missing.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// Hashable reports whether v can be used as a set member. Slices, maps and
// functions are not, and neither is a struct, array or interface holding one.
func Hashable(v any) bool {
	switch v.(type) {
	case nil, int64, float64, bool, string, time.Time:
		return true
	}
	return hashableValue(reflect.ValueOf(v))
}

func hashableValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Interface:
		return rv.IsNil() || hashableValue(rv.Elem())
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !hashableValue(rv.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !hashableValue(rv.Index(i)) {
				return false
			}
		}
		return true
	}
	return rv.Type().Comparable()
}

type timeKey struct{ ns int64 }

// Key returns a comparable key for v. Missing and unhashable values yield no key.
func Key(v any) (any, bool) {
	if IsNull(v) || !Hashable(v) {
		return nil, false
	}
	if t, ok := v.(time.Time); ok {
		return timeKey{t.UnixNano()}, true
	}
	return v, true
}

func rank(v any) int {
	switch v.(type) {
	case bool:
		return 0
	case int64, float64:
		return 1
	case time.Time:
		return 2
	case string:
		return 3
	}
	return 4
}

// Compare orders two values: booleans, numbers, times, strings, then anything else.
// Missing values sort last.
func Compare(a, b any) int {
	an, bn := IsNull(a), IsNull(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case int64, float64:
		fa, _ := AsFloat(a)
		fb, _ := AsFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		// equal magnitudes: int64 before float64
		_, ai := a.(int64)
		_, bi := b.(int64)
		switch {
		case ai == bi:
			return 0
		case ai:
			return -1
		}
		return 1
	case time.Time:
		return x.Compare(b.(time.Time))
	case string:
		return strings.Compare(x, b.(string))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// AsFloat converts numeric cells to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	}
	return 0, false
}

// FormatValue casts a cell to its string form.
func FormatValue(v any) string {
	if IsNull(v) {
		return NullToken
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return FormatTime(x, x.Location() != time.UTC)
	}
	return fmt.Sprint(v)
}

// FormatTime renders t as ISO-8601. Naive times carry no offset.
func FormatTime(t time.Time, zoned bool) string {
	if zoned {
		return t.Format(time.RFC3339Nano)
	}
	return t.Format("2006-01-02T15:04:05.999999999")
}

func timeOf(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}
