// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package object

import "github.com/refpersys/rpscore/internal/value"

// ApplySignature tags the calling convention a Routine expects, mirroring
// spec.md §4.4's description of the handful of native-code shapes a
// closure's connective may have.
type ApplySignature int

const (
	// SigValue takes the closure's captures and no extra argument,
	// returning one value.
	SigValue ApplySignature = iota

	// SigValueInt takes the captures plus one int argument.
	SigValueInt

	// SigTwoValue takes the captures plus two value arguments.
	SigTwoValue

	// SigDumperCallback takes the captures plus a Sink to write dumped
	// code fragments to, returning no value. Spec.md's dumper-callback
	// closures use this shape; this implementation simplifies the
	// callback's argument to a single rpsfmt.Sink-shaped function value
	// rather than the original's multi-argument dumper-state struct.
	SigDumperCallback
)

// Routine is a native Go function a Closure's connective object may
// carry, attached via RoutineHolder. Only one of the four fields
// matching Signature is meaningful for a given Routine.
type Routine struct {
	Signature ApplySignature

	ValueFn        func(captures []value.Value) (value.Value, error)
	ValueIntFn     func(captures []value.Value, arg int) (value.Value, error)
	TwoValueFn     func(captures []value.Value, a, b value.Value) (value.Value, error)
	DumperCallback func(captures []value.Value, emit func(string)) error
}

// RoutineHolder is implemented by a connective object's payload when that
// object wraps a native Go routine rather than user-defined, interpreted
// behavior. Defined here, analogous to MethodTable, so package payload
// can satisfy it without object importing payload.
type RoutineHolder interface {
	Routine() Routine
}

// resolveRoutine looks up c's connective object and the native Routine its
// payload carries, if any. The bool result is false whenever spec.md §4.4
// says application is a no-op rather than a fault: null connective,
// non-object connective, or a connective whose payload isn't a
// RoutineHolder.
func (c ClosureApplier) resolveRoutine() (captures []value.Value, routine Routine, ok bool) {
	ref := c.closure.Connective()
	if ref == nil {
		return nil, Routine{}, false
	}
	conn, isObj := ref.(*Object)
	if !isObj {
		return nil, Routine{}, false
	}
	holder, isHolder := conn.Payload().(RoutineHolder)
	if !isHolder {
		return nil, Routine{}, false
	}
	return c.closure.Captures(), holder.Routine(), true
}

// Apply invokes c's connective (spec.md §4.4). A null or non-routine
// connective yields a nil result and no error: spec.md treats applying an
// unresolved closure as a no-op, not a fault.
func (c ClosureApplier) Apply(arg0 value.Value) (value.Value, error) {
	captures, routine, ok := c.resolveRoutine()
	if !ok {
		return nil, nil
	}

	switch routine.Signature {
	case SigValue:
		if routine.ValueFn == nil {
			return nil, nil
		}
		return routine.ValueFn(captures)
	case SigValueInt:
		if routine.ValueIntFn == nil {
			return nil, nil
		}
		n, _ := arg0.(value.Int)
		return routine.ValueIntFn(captures, int(n))
	case SigTwoValue:
		if routine.TwoValueFn == nil {
			return nil, nil
		}
		return routine.TwoValueFn(captures, arg0, nil)
	case SigDumperCallback:
		// The dumper-callback shape takes an emit sink instead of a
		// value argument; callers that only have a value.Value to pass
		// (the common Apply path) can't drive it. ApplyDumperCallback is
		// the entry point for that shape.
		return nil, nil
	default:
		return nil, nil
	}
}

// ApplyDumperCallback invokes c's connective under the dumper-callback
// apply signature (spec.md §4.4), the fourth of the four fixed shapes: the
// closure's captures plus a sink function the routine writes emitted code
// fragments to. A null or non-routine connective, or a connective whose
// signature isn't SigDumperCallback, is a no-op, matching Apply's
// null-connective contract rather than a fault.
func (c ClosureApplier) ApplyDumperCallback(emit func(string)) error {
	captures, routine, ok := c.resolveRoutine()
	if !ok || routine.Signature != SigDumperCallback {
		return nil
	}
	if routine.DumperCallback == nil {
		return nil
	}
	return routine.DumperCallback(captures, emit)
}

// ClosureApplier pairs a value.Closure with the Runtime needed to resolve
// and invoke its connective. value.Closure itself stays free of any
// object-package dependency (its Connective method returns a
// value.ObjectRef), so ClosureApplier is the adapter that narrows that
// back to *Object and does the actual call.
type ClosureApplier struct {
	rt      *Runtime
	closure value.Closure
}

// NewClosureApplier wraps clo for application under rt.
func NewClosureApplier(rt *Runtime, clo value.Closure) ClosureApplier {
	return ClosureApplier{rt: rt, closure: clo}
}
