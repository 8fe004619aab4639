// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dcrjson provides a minimal command registry for the one RPC
// command rpcresult defines: it records a command's concrete type against
// its method name so a host's dispatcher can look up which struct to
// decode a request's params into. It intentionally does not attempt the
// full marshal/unmarshal/usage-text machinery a general-purpose JSON-RPC
// command framework would carry, since nothing in this module calls any
// of that beyond registration.
package dcrjson

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	registryMu    sync.Mutex
	typeByMethod  = make(map[string]reflect.Type)
	methodForType = make(map[reflect.Type]string)
)

// Register records cmd's concrete type under method. cmd must be a nil
// pointer to a struct whose fields are all exported, e.g. (*FooCmd)(nil).
// Registering the same method with the same type twice is a no-op;
// registering it with a different type is an error.
func Register(method string, cmd interface{}) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	rt := reflect.TypeOf(cmd)
	if rt == nil || rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dcrjson: command %q must be a nil pointer to a struct, got %T", method, cmd)
	}

	elem := rt.Elem()
	for i := 0; i < elem.NumField(); i++ {
		if f := elem.Field(i); f.PkgPath != "" {
			return fmt.Errorf("dcrjson: command %q has unexported field %q", method, f.Name)
		}
	}

	if existing, ok := typeByMethod[method]; ok {
		if existing == rt {
			return nil
		}
		return fmt.Errorf("dcrjson: method %q already registered for type %s", method, existing)
	}

	typeByMethod[method] = rt
	methodForType[rt] = method
	return nil
}

// MustRegister is Register, except it panics on error. It is meant to be
// called from a command type's init function, the way every RPC command
// registers itself.
func MustRegister(method string, cmd interface{}) {
	if err := Register(method, cmd); err != nil {
		panic(err)
	}
}

// RegisteredMethods returns every registered method name, sorted.
func RegisteredMethods() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	methods := make([]string, 0, len(typeByMethod))
	for m := range typeByMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// MethodForType returns the method name cmd's concrete type was registered
// under, or false if it was never registered.
func MethodForType(cmd interface{}) (string, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()

	m, ok := methodForType[reflect.TypeOf(cmd)]
	return m, ok
}
