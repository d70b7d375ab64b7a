// Package task adapts plain functions into schedulable tasks: it derives a
// read/write capability set from a function's parameter list and resolves
// the arguments out of a resource pool at execution time.
//
// Parameter classification is structural. A pointer parameter *T claims
// read+write on the resource type T. A non-pointer parameter T claims
// read-only: the callee receives a copy and cannot write back. Parameter
// kinds that alias shared storage behind a value (maps, slices, channels,
// funcs, interfaces) cannot be classified and are rejected at construction.
package task

import (
	"fmt"
	"reflect"
	"time"

	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	derror "github.com/s6i-dev/taskres/pkg/errors"
	"github.com/s6i-dev/taskres/pkg/permission"
	"github.com/s6i-dev/taskres/pkg/resources"
)

// ID identifies one task within its graph.
type ID int64

// Task is the unit a hosting scheduler dispatches: a capability set to
// order execution with, and a synchronous, non-blocking Exec. Two tasks may
// run concurrently iff their permissions do not conflict.
type Task interface {
	ID() ID
	Permission() *permission.Permission
	Exec(pool *resources.Pool)
}

// resolver produces one call argument from the primary and task-local
// pools.
type resolver func(primary, local *resources.Pool) (reflect.Value, bool)

var _ Task = (*TaskFunc)(nil)

// TaskFunc wraps a concrete function together with the capability set
// derived from its signature and a private pool for task-local state. It
// implements Task.
//
// A TaskFunc holds no execution-order state and is re-invocable; running
// two conflicting TaskFuncs concurrently is the scheduler's bug to avoid.
type TaskFunc struct {
	id         ID
	name       string
	fn         reflect.Value
	perm       permission.Permission
	paramTypes []reflect.Type
	resolvers  []resolver
	local      *resources.Pool
	binding    *Binding
	lastExec   atomic.Duration
}

// New adapts fn into a TaskFunc. fn must be a non-variadic function with no
// results; effects go through the mutated resources. The derived permission
// is fixed for the lifetime of the task.
func New(binding *Binding, fn any) (*TaskFunc, error) {
	if fn == nil {
		return nil, derror.ErrInvalidTaskFunc.GenWithStackByArgs("fn is nil")
	}
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, derror.ErrInvalidTaskFunc.GenWithStackByArgs(
			fmt.Sprintf("%T is not a function", fn))
	}
	if fnType.NumOut() != 0 {
		return nil, derror.ErrInvalidTaskFunc.GenWithStackByArgs(
			"task functions must not return values")
	}
	if fnType.IsVariadic() {
		return nil, derror.ErrInvalidTaskFunc.GenWithStackByArgs(
			"task functions must not be variadic")
	}

	builder := permission.NewBuilder(binding.permSpace)
	paramTypes := make([]reflect.Type, 0, fnType.NumIn())
	resolvers := make([]resolver, 0, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		paramType := fnType.In(i)
		resType, access, resolve, err := classify(paramType, i)
		if err != nil {
			return nil, err
		}
		builder.Declare(resType, access)
		paramTypes = append(paramTypes, paramType)
		resolvers = append(resolvers, resolve)
	}

	return &TaskFunc{
		id:         ID(binding.ids.AllocID()),
		name:       binding.names.AllocID(),
		fn:         fnVal,
		perm:       builder.Build(),
		paramTypes: paramTypes,
		resolvers:  resolvers,
		local:      resources.NewPool(binding.poolSpace),
		binding:    binding,
	}, nil
}

// classify maps one parameter type to its resource type, access level and
// resolver.
func classify(paramType reflect.Type, pos int) (reflect.Type, permission.Access, resolver, error) {
	switch paramType.Kind() {
	case reflect.Ptr:
		return paramType.Elem(), permission.ReadWrite, resolvePtr(paramType.Elem()), nil
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Slice, reflect.UnsafePointer:
		// a value of these kinds still aliases shared storage, so a copy
		// is not read-only
		return nil, 0, nil, derror.ErrUnsupportedParamKind.GenWithStackByArgs(
			paramType.Kind().String(), pos)
	default:
		return paramType, permission.ReadOnly, resolveValue(paramType), nil
	}
}

// resolvePtr hands the writable resource pointer straight through.
func resolvePtr(resType reflect.Type) resolver {
	return func(primary, _ *resources.Pool) (reflect.Value, bool) {
		return lookup(primary, resType)
	}
}

// resolveValue dereferences the resource so the callee gets a copy.
func resolveValue(resType reflect.Type) resolver {
	return func(primary, _ *resources.Pool) (reflect.Value, bool) {
		ptr, ok := lookup(primary, resType)
		if !ok {
			return reflect.Value{}, false
		}
		return ptr.Elem(), true
	}
}

func lookup(pool *resources.Pool, resType reflect.Type) (reflect.Value, bool) {
	slot := pool.GetByType(resType)
	if slot == nil {
		return reflect.Value{}, false
	}
	ptr := reflect.ValueOf(slot)
	if ptr.IsNil() {
		return reflect.Value{}, false
	}
	return ptr, true
}

// ID returns the task's graph-scoped identifier.
func (t *TaskFunc) ID() ID {
	return t.id
}

// Name returns the task's globally unique name, for logs.
func (t *TaskFunc) Name() string {
	return t.name
}

// Permission returns the capability set derived at construction. Callers
// must treat it as read-only.
func (t *TaskFunc) Permission() *permission.Permission {
	return &t.perm
}

// Exec resolves every parameter from pool and invokes the wrapped function
// with the arguments in declared order.
//
// A missing resource means the task graph was assembled against an
// incomplete pool; that is a fatal precondition violation and Exec panics
// at the point of resolution rather than skipping the call.
func (t *TaskFunc) Exec(pool *resources.Pool) {
	start := t.binding.clock.Now()
	args := make([]reflect.Value, len(t.resolvers))
	for i, resolve := range t.resolvers {
		arg, ok := resolve(pool, t.local)
		if !ok {
			log.L().Panic("task resource missing",
				zap.Int64("task-id", int64(t.id)),
				zap.String("task-name", t.name),
				zap.Int("param", i),
				zap.String("param-type", t.paramTypes[i].String()))
		}
		args[i] = arg
	}
	t.fn.Call(args)
	t.lastExec.Store(t.binding.clock.Now().Sub(start))
}

// LastExecDuration returns the duration of the most recent Exec, zero
// before the first one.
func (t *TaskFunc) LastExecDuration() time.Duration {
	return t.lastExec.Load()
}

// Close releases the task-local pool. The task must not be executed after
// Close.
func (t *TaskFunc) Close() {
	t.local.Release()
}
