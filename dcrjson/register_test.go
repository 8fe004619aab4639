// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dcrjson

import "testing"

type fooCmd struct {
	Bar *string
}

type bareCmd struct {
	baz string
}

type otherCmd struct {
	Qux *int
}

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()

	if err := Register("foo", (*fooCmd)(nil)); err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}

	method, ok := MethodForType((*fooCmd)(nil))
	if !ok || method != "foo" {
		t.Fatalf("MethodForType() = (%q, %v), want (%q, true)", method, ok, "foo")
	}
}

func TestRegisterIdempotent(t *testing.T) {
	t.Parallel()

	if err := Register("idempotent", (*fooCmd)(nil)); err != nil {
		t.Fatalf("first Register() = %v, want nil", err)
	}
	if err := Register("idempotent", (*fooCmd)(nil)); err != nil {
		t.Fatalf("second Register() = %v, want nil", err)
	}
}

func TestRegisterConflictingType(t *testing.T) {
	t.Parallel()

	if err := Register("conflict", (*fooCmd)(nil)); err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}
	if err := Register("conflict", (*otherCmd)(nil)); err == nil {
		t.Fatalf("Register() with a different type = nil, want an error")
	}
}

func TestRegisterRejectsUnexportedField(t *testing.T) {
	t.Parallel()

	if err := Register("bare", (*bareCmd)(nil)); err == nil {
		t.Fatalf("Register() of a struct with an unexported field = nil, want an error")
	}
}

func TestRegisterRejectsNonStruct(t *testing.T) {
	t.Parallel()

	var notAStruct int
	if err := Register("notastruct", &notAStruct); err == nil {
		t.Fatalf("Register() of a non-struct = nil, want an error")
	}
}

func TestMustRegisterPanicsOnConflict(t *testing.T) {
	t.Parallel()

	if err := Register("mustconflict", (*fooCmd)(nil)); err != nil {
		t.Fatalf("Register() = %v, want nil", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("MustRegister() did not panic on a conflicting type")
		}
	}()
	MustRegister("mustconflict", (*otherCmd)(nil))
}

func TestRegisteredMethodsSorted(t *testing.T) {
	t.Parallel()

	for _, m := range []string{"zzz-sorted-b", "aaa-sorted-a"} {
		if err := Register(m, (*fooCmd)(nil)); err != nil {
			t.Fatalf("Register(%q) = %v, want nil", m, err)
		}
	}

	methods := RegisteredMethods()
	var aIdx, bIdx = -1, -1
	for i, m := range methods {
		switch m {
		case "aaa-sorted-a":
			aIdx = i
		case "zzz-sorted-b":
			bIdx = i
		}
	}
	if aIdx == -1 || bIdx == -1 || aIdx > bIdx {
		t.Fatalf("RegisteredMethods() = %v, want aaa-sorted-a before zzz-sorted-b", methods)
	}
}
