package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/wippyai/mxbridge/errors"
	"github.com/wippyai/mxbridge/mx"
)

// Engine is an in-process implementation of mx.Engine. Array planes live in
// a wazero linear memory, variables in a Go map, and commands run through a
// small interpreter for the subset of the command language the bridge emits.
//
// An Engine is single-owner like any mx.Engine session. Destroy may be
// called on its arrays from any goroutine.
type Engine struct {
	mem    *linearMemory
	alloc  *allocator
	vars   map[string]*Array
	funcs  map[string]function
	closed bool

	live   atomic.Int64
	opened atomic.Int64
	freed  atomic.Int64
}

var _ mx.Engine = (*Engine)(nil)

// Stats is a snapshot of the engine's array accounting.
type Stats struct {
	// Live counts arrays not yet destroyed, workspace variables included.
	Live int64
	// Opened counts arrays handed out by GetVariable and the Create calls.
	Opened int64
	// Closed counts handed-out arrays that were destroyed.
	Closed int64
	// BytesInUse is the linear memory taken by live planes.
	BytesInUse uint64
	// Variables is the number of workspace variables.
	Variables int
}

// Outstanding is the number of handed-out arrays not yet destroyed.
func (s Stats) Outstanding() int64 { return s.Opened - s.Closed }

// New creates an engine with default configuration.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	mem, err := newLinearMemory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		mem:   mem,
		alloc: newAllocator(mem),
		vars:  make(map[string]*Array),
		funcs: builtins(),
	}
	Logger().Debug("engine started",
		zap.Uint32("initial_pages", cfg.InitialPages),
		zap.Uint32("limit_pages", cfg.MemoryLimitPages))
	return e, nil
}

// Close destroys every workspace variable and releases the linear memory.
// Arrays still held by callers become invalid.
func (e *Engine) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	e.clearAll()
	e.closed = true
	if n := e.Stats().Outstanding(); n > 0 {
		Logger().Warn("engine closed with arrays outstanding", zap.Int64("arrays", n))
	}
	return e.mem.close(ctx)
}

func (e *Engine) check(ctx context.Context) error {
	if e.closed {
		return errors.Closed(errors.PhaseSession, "engine")
	}
	return ctx.Err()
}

// Stats returns the current array accounting.
func (e *Engine) Stats() Stats {
	return Stats{
		Live:       e.live.Load(),
		Opened:     e.opened.Load(),
		Closed:     e.freed.Load(),
		BytesInUse: e.alloc.InUse(),
		Variables:  len(e.vars),
	}
}

func (e *Engine) arrayDestroyed(a *Array) {
	e.live.Add(-1)
	if a.handed {
		e.freed.Add(1)
	}
}

func (e *Engine) handOut(a *Array) *Array {
	a.handed = true
	e.opened.Add(1)
	return a
}

// Eval runs one or more commands separated by semicolons or newlines.
// Execution stops at the first failing command; its message is returned as
// an eval error.
func (e *Engine) Eval(ctx context.Context, command string) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	Logger().Debug("eval", zap.String("command", command))
	if err := e.run(command); err != nil {
		return errors.Eval(command, err.Error())
	}
	return nil
}

// GetVariable returns a caller-owned copy of name.
func (e *Engine) GetVariable(ctx context.Context, name string) (mx.Array, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	v, ok := e.vars[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseSession, "variable", name)
	}
	cp, err := v.clone()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSession, errors.KindResource, err, "copy variable "+name)
	}
	return e.handOut(cp), nil
}

// PutVariable stores a copy of a under name, replacing any previous value.
func (e *Engine) PutVariable(ctx context.Context, name string, a mx.Array) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	if !mx.ValidName(name) {
		return errors.InvalidInput(errors.PhaseSession, "invalid variable name %q", name)
	}
	src, ok := a.(*Array)
	if !ok || src.eng != e {
		return errors.InvalidInput(errors.PhaseSession, "array %T does not belong to this engine", a)
	}
	if src.freed {
		return errors.InvalidInput(errors.PhaseSession, "array was destroyed")
	}
	cp, err := src.clone()
	if err != nil {
		return errors.Wrap(errors.PhaseSession, errors.KindResource, err, "copy variable "+name)
	}
	e.bind(name, cp)
	return nil
}

// CreateNumericArray returns a zero-filled caller-owned array.
func (e *Engine) CreateNumericArray(dims []int, class mx.ClassID, complexity mx.Complexity) (mx.Array, error) {
	if e.closed {
		return nil, errors.Closed(errors.PhaseSession, "engine")
	}
	a, err := e.newNumeric(class, dims, complexity == mx.Complex)
	if err != nil {
		return nil, err
	}
	return e.handOut(a), nil
}

// CreateCharArray returns a caller-owned char matrix with one row per
// string, shorter rows padded with blanks.
func (e *Engine) CreateCharArray(rows []string) (mx.Array, error) {
	if e.closed {
		return nil, errors.Closed(errors.PhaseSession, "engine")
	}
	a, err := e.newChar(rows)
	if err != nil {
		return nil, err
	}
	return e.handOut(a), nil
}

// Set binds a to name. The engine takes ownership of a.
func (e *Engine) Set(name string, a *Array) error {
	if e.closed {
		return errors.Closed(errors.PhaseSession, "engine")
	}
	if !mx.ValidName(name) {
		return errors.InvalidInput(errors.PhaseSession, "invalid variable name %q", name)
	}
	if a == nil || a.eng != e || a.freed {
		return errors.InvalidInput(errors.PhaseSession, "array does not belong to this engine")
	}
	e.bind(name, a)
	return nil
}

// Has reports whether name is a workspace variable.
func (e *Engine) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Variable returns the workspace array bound to name without copying it.
// The engine keeps ownership.
func (e *Engine) Variable(name string) (*Array, bool) {
	a, ok := e.vars[name]
	return a, ok
}

// Names returns the workspace variable names in sorted order.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes variables. Missing names are ignored.
func (e *Engine) Clear(names ...string) {
	for _, name := range names {
		if a, ok := e.vars[name]; ok {
			delete(e.vars, name)
			a.Destroy()
		}
	}
}

func (e *Engine) clearAll() {
	for name, a := range e.vars {
		delete(e.vars, name)
		a.Destroy()
	}
}

func (e *Engine) bind(name string, a *Array) {
	if old, ok := e.vars[name]; ok && old != a {
		old.Destroy()
	}
	e.vars[name] = a
}

// Constructors. Arrays built here are engine-owned until Set binds them or
// Destroy frees them; they do not count as handed out.

// NewNumeric builds a dense numeric or logical array from column-major
// values. im may be nil for a real array.
func (e *Engine) NewNumeric(class mx.ClassID, dims []int, re, im []float64) (*Array, error) {
	a, err := e.newNumeric(class, dims, im != nil)
	if err != nil {
		return nil, err
	}
	if err := a.fill(a.re, re); err != nil {
		a.Destroy()
		return nil, err
	}
	if im != nil {
		if err := a.fill(a.im, im); err != nil {
			a.Destroy()
			return nil, err
		}
	}
	return a, nil
}

// NewScalar builds a 1x1 double.
func (e *Engine) NewScalar(v float64) (*Array, error) {
	return e.NewNumeric(mx.ClassDouble, []int{1, 1}, []float64{v}, nil)
}

// NewChar builds a char matrix, one row per string.
func (e *Engine) NewChar(rows ...string) (*Array, error) {
	return e.newChar(rows)
}

// NewSparse builds a sparse array from raw planes. The planes are stored
// as given, without validation, so callers can build malformed layouts.
// ir and re must hold at most nzmax entries; jc must hold cols+1.
func (e *Engine) NewSparse(class mx.ClassID, rows, cols, nzmax int, ir, jc []int, re, im []float64) (*Array, error) {
	if class != mx.ClassDouble && class != mx.ClassLogical {
		return nil, fmt.Errorf("sparse arrays must be double or logical, got %s", class)
	}
	if len(ir) > nzmax || len(re) > nzmax || len(im) > nzmax {
		return nil, fmt.Errorf("planes exceed nzmax %d", nzmax)
	}
	if len(jc) != cols+1 {
		return nil, fmt.Errorf("column pointer has %d entries, want %d", len(jc), cols+1)
	}
	a := &Array{eng: e, class: class, dims: []int{rows, cols}, sparse: true, complex: im != nil, nzmax: nzmax}
	width := classWidths[class]
	var err error
	if a.re, err = e.block(nzmax * width); err == nil {
		if im != nil {
			a.im, err = e.block(nzmax * width)
		}
	}
	if err == nil {
		a.ir, err = e.block(nzmax * mx.IndexSize)
	}
	if err == nil {
		a.jc, err = e.block((cols + 1) * mx.IndexSize)
	}
	e.live.Add(1)
	if err != nil {
		a.Destroy()
		return nil, err
	}

	if len(re) > 0 {
		err = a.fill(block{ptr: a.re.ptr, size: uint32(len(re) * width)}, re)
	}
	if err == nil && len(im) > 0 {
		err = a.fill(block{ptr: a.im.ptr, size: uint32(len(im) * width)}, im)
	}
	if err == nil {
		err = e.writeIndices(a.ir, ir)
	}
	if err == nil {
		err = e.writeIndices(a.jc, jc)
	}
	if err != nil {
		a.Destroy()
		return nil, err
	}
	return a, nil
}

// NewCell builds a cell array and takes ownership of elems. Missing or nil
// elements become empty doubles.
func (e *Engine) NewCell(dims []int, elems ...*Array) (*Array, error) {
	dims = normDims(dims)
	n := numel(dims)
	if len(elems) > n {
		return nil, fmt.Errorf("%d elements for a cell of %d", len(elems), n)
	}
	a := &Array{eng: e, class: mx.ClassCell, dims: dims, elems: make([]*Array, n)}
	e.live.Add(1)
	copy(a.elems, elems)
	for i, el := range a.elems {
		if el != nil {
			continue
		}
		empty, err := e.newNumeric(mx.ClassDouble, []int{0, 0}, false)
		if err != nil {
			a.Destroy()
			return nil, err
		}
		a.elems[i] = empty
	}
	return a, nil
}

// NewStruct builds a 1x1 struct and takes ownership of values, which pair
// with fields by position.
func (e *Engine) NewStruct(fields []string, values ...*Array) (*Array, error) {
	return e.NewStructArray([]int{1, 1}, fields, values...)
}

// NewStructArray builds a struct array. values holds len(fields) entries
// per element, elements in column-major order.
func (e *Engine) NewStructArray(dims []int, fields []string, values ...*Array) (*Array, error) {
	return e.newRecord(mx.ClassStruct, "", dims, fields, values)
}

// NewObject builds a 1x1 instance of a user class with the given
// properties.
func (e *Engine) NewObject(className string, fields []string, values ...*Array) (*Array, error) {
	if !mx.ValidName(className) {
		return nil, fmt.Errorf("invalid class name %q", className)
	}
	return e.newRecord(mx.ClassObject, className, []int{1, 1}, fields, values)
}

// NewFunctionHandle builds a handle to the function target.
func (e *Engine) NewFunctionHandle(target string) *Array {
	e.live.Add(1)
	return &Array{eng: e, class: mx.ClassFunction, dims: []int{1, 1}, target: target}
}

func (e *Engine) newRecord(class mx.ClassID, className string, dims []int, fields []string, values []*Array) (*Array, error) {
	dims = normDims(dims)
	n := numel(dims)
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !mx.ValidName(f) || seen[f] {
			return nil, fmt.Errorf("invalid or duplicate field name %q", f)
		}
		seen[f] = true
	}
	if len(values) > n*len(fields) {
		return nil, fmt.Errorf("%d values for %d elements of %d fields", len(values), n, len(fields))
	}
	a := &Array{eng: e, class: class, className: className, dims: dims,
		fields: append([]string(nil), fields...), elems: make([]*Array, n*len(fields))}
	e.live.Add(1)
	copy(a.elems, values)
	for i, el := range a.elems {
		if el != nil {
			continue
		}
		empty, err := e.newNumeric(mx.ClassDouble, []int{0, 0}, false)
		if err != nil {
			a.Destroy()
			return nil, err
		}
		a.elems[i] = empty
	}
	return a, nil
}

func (e *Engine) block(size int) (block, error) {
	if size < 0 || size > math.MaxInt32 {
		return block{}, fmt.Errorf("allocation of %d bytes too large", size)
	}
	ptr, err := e.alloc.Alloc(uint32(size), allocAlign)
	if err != nil {
		return block{}, err
	}
	return block{ptr: ptr, size: uint32(size)}, nil
}

func (e *Engine) newNumeric(class mx.ClassID, dims []int, complex bool) (*Array, error) {
	width, ok := classWidths[class]
	if !ok {
		return nil, errors.UnsupportedType(errors.PhaseSession, "", class.String())
	}
	if complex && (class == mx.ClassLogical || class == mx.ClassChar) {
		return nil, errors.InvalidInput(errors.PhaseSession, "%s arrays cannot be complex", class)
	}
	for _, d := range dims {
		if d < 0 {
			return nil, errors.InvalidInput(errors.PhaseSession, "negative dimension in %v", dims)
		}
	}
	return e.newPlanes(class, normDims(dims), width, complex)
}

func (e *Engine) newPlanes(class mx.ClassID, dims []int, width int, complex bool) (*Array, error) {
	n := numel(dims)
	if n > math.MaxInt32/width {
		return nil, errors.InvalidInput(errors.PhaseSession, "array of %v too large", dims)
	}
	a := &Array{eng: e, class: class, dims: dims, complex: complex}
	e.live.Add(1)
	var err error
	if a.re, err = e.block(n * width); err != nil {
		a.Destroy()
		return nil, err
	}
	if complex {
		if a.im, err = e.block(n * width); err != nil {
			a.Destroy()
			return nil, err
		}
	}
	return a, nil
}

func (e *Engine) newChar(rows []string) (*Array, error) {
	encoded := make([][]uint16, len(rows))
	cols := 0
	for i, r := range rows {
		encoded[i] = utf16.Encode([]rune(r))
		if len(encoded[i]) > cols {
			cols = len(encoded[i])
		}
	}
	dims := []int{len(rows), cols}
	if len(rows) == 0 {
		dims = []int{0, 0}
	}
	a, err := e.newPlanes(mx.ClassChar, dims, mx.CharSize, false)
	if err != nil {
		return nil, err
	}
	plane := mx.NewView(e.mem, a.re.ptr, a.re.size)
	for i, units := range encoded {
		for j := 0; j < cols; j++ {
			u := uint16(' ')
			if j < len(units) {
				u = units[j]
			}
			if err := plane.WriteU16(uint32((i+j*len(rows))*mx.CharSize), u); err != nil {
				a.Destroy()
				return nil, err
			}
		}
	}
	return a, nil
}

func (e *Engine) writeIndices(b block, idx []int) error {
	if len(idx) == 0 {
		return nil
	}
	if len(idx)*mx.IndexSize > int(b.size) {
		return fmt.Errorf("index plane holds %d bytes, got %d indices", b.size, len(idx))
	}
	for i, v := range idx {
		if err := e.mem.WriteU64(b.ptr+uint32(i*mx.IndexSize), uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) readIndices(b block, n int) ([]int, error) {
	if n == 0 {
		return nil, nil
	}
	out := make([]int, n)
	for i := range out {
		v, err := e.mem.ReadU64(b.ptr + uint32(i*mx.IndexSize))
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}

// clone deep-copies a, planes and children included.
func (a *Array) clone() (*Array, error) {
	e := a.eng
	cp := &Array{
		eng:       e,
		class:     a.class,
		className: a.className,
		dims:      append([]int(nil), a.dims...),
		complex:   a.complex,
		sparse:    a.sparse,
		nzmax:     a.nzmax,
		fields:    append([]string(nil), a.fields...),
		target:    a.target,
	}
	e.live.Add(1)
	for _, p := range []struct{ src, dst *block }{
		{&a.re, &cp.re}, {&a.im, &cp.im}, {&a.ir, &cp.ir}, {&a.jc, &cp.jc},
	} {
		if p.src.size == 0 {
			continue
		}
		b, err := e.block(int(p.src.size))
		if err != nil {
			cp.Destroy()
			return nil, err
		}
		*p.dst = b
		raw, err := e.mem.Read(p.src.ptr, p.src.size)
		if err == nil {
			err = e.mem.Write(b.ptr, raw)
		}
		if err != nil {
			cp.Destroy()
			return nil, err
		}
	}
	if a.elems != nil {
		cp.elems = make([]*Array, len(a.elems))
		for i, el := range a.elems {
			c, err := el.clone()
			if err != nil {
				cp.Destroy()
				return nil, err
			}
			cp.elems[i] = c
		}
	}
	return cp, nil
}
