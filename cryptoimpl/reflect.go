// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cryptoimpl

import (
	"reflect"
	"sync"

	"github.com/fldhash/stablehash/addr"
	"github.com/fldhash/stablehash/cryptohasher"
)

func reflectValueOf(v any) reflect.Value {
	return reflect.ValueOf(v)
}

type fieldPlan struct {
	index int
}

var structPlans sync.Map // map[reflect.Type][]fieldPlan

func planFor(t reflect.Type) []fieldPlan {
	if cached, ok := structPlans.Load(t); ok {
		return cached.([]fieldPlan)
	}
	var plan []fieldPlan
	fields := reflect.VisibleFields(t)
	for i := range fields {
		if fields[i].PkgPath != "" || len(fields[i].Index) != 1 {
			continue
		}
		if tag, ok := fields[i].Tag.Lookup("stablehash"); ok && tag == "-" {
			continue
		}
		plan = append(plan, fieldPlan{index: fields[i].Index[0]})
	}
	structPlans.Store(t, plan)
	return plan
}

func hashReflect(a addr.Crypto, h *cryptohasher.Hasher, v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.CanInterface() {
		if sh, ok := v.Interface().(StableHash); ok {
			sh.StableHash(a, h)
			return
		}
	}
	switch v.Kind() {
	case reflect.Bool:
		Bool(a, h, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		Sint(a, h, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		Uint(a, h, v.Uint())
	case reflect.String:
		String(a, h, v.String())
	case reflect.Ptr:
		if v.IsNil() {
			return
		}
		hashReflect(a.Child(0), h, v.Elem())
		h.Write(a, nil)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			Bytes(a, h, v.Bytes())
			return
		}
		n := v.Len()
		for i := 0; i < n; i++ {
			hashReflect(a.Child(uint64(i)), h, v.Index(i))
		}
		Uint(a, h, uint64(n))
	case reflect.Map:
		hashReflectMap(a, h, v)
	case reflect.Struct:
		hashReflectStruct(a, h, v)
	case reflect.Interface:
		if v.IsNil() {
			return
		}
		hashReflect(a, h, v.Elem())
	default:
		panic("cryptoimpl: no stable hashing rule for kind " + v.Kind().String())
	}
}

func hashReflectStruct(a addr.Crypto, h *cryptohasher.Hasher, v reflect.Value) {
	plan := planFor(v.Type())
	for pos, f := range plan {
		hashReflect(a.Child(uint64(pos)), h, v.Field(f.index))
	}
}

func hashReflectMap(a addr.Crypto, h *cryptohasher.Hasher, v reflect.Value) {
	rollup, member := a.Unordered()
	sub := cryptohasher.New()
	isSet := v.Type().Elem().Kind() == reflect.Struct && v.Type().Elem().NumField() == 0
	iter := v.MapRange()
	for iter.Next() {
		if isSet {
			hashReflect(member, sub, iter.Key())
			continue
		}
		hashReflectPair(member, sub, iter.Key(), iter.Value())
	}
	digest := sub.Finish()
	h.Write(rollup, digest[:])
	Uint(a.Child(reservedCountChild), h, uint64(v.Len()))
}

func hashReflectPair(a addr.Crypto, h *cryptohasher.Hasher, k, val reflect.Value) {
	hashReflect(a.Child(0), h, k)
	hashReflect(a.Child(1), h, val)
}
