package clone

import "reflect"

// Clone returns a deep copy of value so callers can hand snapshots to a store
// or a memo cell without retaining a mutable reference into them. Only
// exported struct fields are copied; unexported fields come back as their
// zero values, so snapshot types should keep their data exported.
func Clone[T any](value T) T {
	var zero T
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		return zero
	}
	target := reflect.TypeOf(zero)
	if target == nil {
		// T is an interface type; hand back the concrete clone directly.
		return cloned.Interface().(T)
	}
	if cloned.Type() != target {
		// The clone might be addressable when T is not; convert back.
		result := reflect.New(target).Elem()
		result.Set(cloned.Convert(target))
		return result.Interface().(T)
	}
	return cloned.Interface().(T)
}

// Equal reports deep value equality between a and b.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		return reflect.ValueOf(v.Interface())
	}
}
