package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wippyai/mxbridge/mx"
)

// Every eval* method returns arrays owned by the caller, who must store or
// destroy them.

func (e *Engine) run(src string) error {
	stmts, err := parse(src)
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if err := e.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) exec(s stmt) error {
	switch s := s.(type) {
	case *clearStmt:
		if len(s.names) == 0 {
			e.clearAll()
		} else {
			e.Clear(s.names...)
		}
		return nil
	case *assignStmt:
		vals, err := e.evalMulti(s.x, len(s.targets))
		if err != nil {
			return err
		}
		if len(vals) < len(s.targets) {
			destroyAll(vals)
			return fmt.Errorf("Too many output arguments.")
		}
		for i, name := range s.targets {
			e.bind(name, vals[i])
		}
		destroyAll(vals[len(s.targets):])
		return nil
	case *exprStmt:
		vals, err := e.evalMulti(s.x, 0)
		if err != nil {
			return err
		}
		if len(vals) > 0 {
			e.bind("ans", vals[0])
			destroyAll(vals[1:])
		}
		return nil
	}
	return fmt.Errorf("unknown statement %T", s)
}

func destroyAll(arrs []*Array) {
	for _, a := range arrs {
		if a != nil {
			a.Destroy()
		}
	}
}

func (e *Engine) eval(n node) (*Array, error) {
	vals, err := e.evalMulti(n, 1)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("Too many output arguments.")
	}
	destroyAll(vals[1:])
	return vals[0], nil
}

func (e *Engine) evalMulti(n node, nargout int) ([]*Array, error) {
	switch x := n.(type) {
	case *ident:
		if v, ok := e.vars[x.name]; ok {
			cp, err := v.clone()
			if err != nil {
				return nil, err
			}
			return []*Array{cp}, nil
		}
		return e.call(x.name, nil, nargout)
	case *indexExpr:
		if id, ok := x.target.(*ident); ok && !x.brace {
			return e.evalCall(id.name, x.args, nargout)
		}
	}
	v, err := e.evalSingle(n)
	if err != nil {
		return nil, err
	}
	return []*Array{v}, nil
}

// evalCall handles name(args): indexing when name is a variable, a call
// through the handle when the variable holds one, a function call
// otherwise.
func (e *Engine) evalCall(name string, argNodes []node, nargout int) ([]*Array, error) {
	if v, ok := e.vars[name]; ok {
		if v.class == mx.ClassFunction {
			args, err := e.evalArgs(argNodes)
			if err != nil {
				return nil, err
			}
			defer destroyAll(args)
			return e.call(v.target, args, nargout)
		}
		out, err := e.index(v, argNodes, false)
		if err != nil {
			return nil, err
		}
		return []*Array{out}, nil
	}
	if a, ok, err := e.exactIntegerCast(name, argNodes); ok || err != nil {
		if err != nil {
			return nil, err
		}
		return []*Array{a}, nil
	}
	args, err := e.evalArgs(argNodes)
	if err != nil {
		return nil, err
	}
	defer destroyAll(args)
	return e.call(name, args, nargout)
}

// exactIntegerCast builds int64(lit) and uint64(lit) from the literal text
// so magnitudes above 2^53 survive.
func (e *Engine) exactIntegerCast(name string, argNodes []node) (*Array, bool, error) {
	if (name != "int64" && name != "uint64") || len(argNodes) != 1 {
		return nil, false, nil
	}
	if _, ok := e.funcs[name]; !ok {
		return nil, false, nil
	}
	text, ok := integerLiteral(argNodes[0])
	if !ok {
		return nil, false, nil
	}
	class := mx.ClassInt64
	var bits uint64
	if name == "int64" {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, false, nil
		}
		bits = uint64(v)
	} else {
		class = mx.ClassUint64
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, false, nil
		}
		bits = v
	}
	a, err := e.newNumeric(class, []int{1, 1}, false)
	if err != nil {
		return nil, true, err
	}
	if err := a.setBits(a.re, 0, bits); err != nil {
		a.Destroy()
		return nil, true, err
	}
	return a, true, nil
}

func integerLiteral(n node) (string, bool) {
	sign := ""
	if u, ok := n.(*unaryExpr); ok {
		if u.op == "-" {
			sign = "-"
		}
		n = u.x
	}
	lit, ok := n.(*numLit)
	if !ok || lit.imag {
		return "", false
	}
	for i := 0; i < len(lit.text); i++ {
		if !isDigit(lit.text[i]) {
			return "", false
		}
	}
	return sign + lit.text, true
}

func (e *Engine) evalArgs(nodes []node) ([]*Array, error) {
	args := make([]*Array, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := n.(colonArg); ok {
			destroyAll(args)
			return nil, fmt.Errorf("Invalid use of ':' in a function call.")
		}
		a, err := e.eval(n)
		if err != nil {
			destroyAll(args)
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func (e *Engine) call(name string, args []*Array, nargout int) ([]*Array, error) {
	fn, ok := e.funcs[name]
	if !ok {
		return nil, fmt.Errorf("Undefined function or variable '%s'.", name)
	}
	out, err := fn.fn(e, args, nargout)
	if err != nil {
		destroyAll(out)
		return nil, err
	}
	return out, nil
}

func (e *Engine) evalSingle(n node) (*Array, error) {
	switch x := n.(type) {
	case *numLit:
		if x.imag {
			return e.NewNumeric(mx.ClassDouble, []int{1, 1}, []float64{0}, []float64{x.v})
		}
		return e.NewScalar(x.v)
	case *strLit:
		if x.s == "" {
			return e.newPlanes(mx.ClassChar, []int{0, 0}, mx.CharSize, false)
		}
		return e.newChar([]string{x.s})
	case *handleLit:
		return e.NewFunctionHandle(x.name), nil
	case *unaryExpr:
		v, err := e.eval(x.x)
		if err != nil {
			return nil, err
		}
		if x.op == "+" {
			return v, nil
		}
		defer v.Destroy()
		return e.negate(v)
	case *binaryExpr:
		l, err := e.eval(x.l)
		if err != nil {
			return nil, err
		}
		defer l.Destroy()
		r, err := e.eval(x.r)
		if err != nil {
			return nil, err
		}
		defer r.Destroy()
		return e.arith(x.op, l, r)
	case *matrixExpr:
		return e.concat(x)
	case *indexExpr:
		target, err := e.eval(x.target)
		if err != nil {
			return nil, err
		}
		defer target.Destroy()
		if target.class == mx.ClassFunction && !x.brace {
			args, err := e.evalArgs(x.args)
			if err != nil {
				return nil, err
			}
			defer destroyAll(args)
			vals, err := e.call(target.target, args, 1)
			if err != nil {
				return nil, err
			}
			if len(vals) == 0 {
				return nil, fmt.Errorf("Too many output arguments.")
			}
			destroyAll(vals[1:])
			return vals[0], nil
		}
		return e.index(target, x.args, x.brace)
	case *fieldExpr:
		target, err := e.eval(x.target)
		if err != nil {
			return nil, err
		}
		defer target.Destroy()
		return e.field(target, x.name)
	case colonArg:
		return nil, fmt.Errorf("Invalid use of ':'.")
	}
	return nil, fmt.Errorf("unsupported expression %T", n)
}

func (e *Engine) field(v *Array, name string) (*Array, error) {
	if v.class != mx.ClassStruct && v.class != mx.ClassObject {
		return nil, fmt.Errorf("Dot indexing is not supported for variables of this type.")
	}
	j := -1
	for i, f := range v.fields {
		if f == name {
			j = i
		}
	}
	if j < 0 {
		return nil, fmt.Errorf("Unrecognized field name \"%s\".", name)
	}
	if n := v.NumberOfElements(); n != 1 {
		return nil, fmt.Errorf("Expected one output from a curly brace or dot indexing expression, but there were %d results.", n)
	}
	return v.elems[j].clone()
}

// index evaluates v(args) or v{args}. v stays owned by the caller.
func (e *Engine) index(v *Array, argNodes []node, brace bool) (*Array, error) {
	if brace && v.class != mx.ClassCell {
		return nil, fmt.Errorf("Brace indexing is not supported for variables of this type.")
	}
	if v.sparse {
		return nil, fmt.Errorf("Indexing into sparse arrays is not supported.")
	}
	if len(argNodes) == 0 {
		if brace {
			return nil, fmt.Errorf("Expected one output from a curly brace or dot indexing expression, but there were %d results.", v.NumberOfElements())
		}
		return v.clone()
	}
	subs := make([]subscript, len(argNodes))
	for i, n := range argNodes {
		if _, ok := n.(colonArg); ok {
			subs[i].all = true
			continue
		}
		a, err := e.eval(n)
		if err != nil {
			return nil, err
		}
		idx, err := indexList(a)
		dims := a.Dimensions()
		a.Destroy()
		if err != nil {
			return nil, err
		}
		subs[i] = subscript{idx: idx, dims: dims}
	}
	lin, dims, err := selection(v.dims, subs)
	if err != nil {
		return nil, err
	}
	if brace {
		if len(lin) != 1 {
			return nil, fmt.Errorf("Expected one output from a curly brace or dot indexing expression, but there were %d results.", len(lin))
		}
		return v.elems[lin[0]].clone()
	}
	return e.gather(v, lin, dims)
}

type subscript struct {
	all  bool
	idx  []int // base-0
	dims []int
}

func indexList(a *Array) ([]int, error) {
	if a.class == mx.ClassLogical {
		vals, err := a.Float64s()
		if err != nil {
			return nil, err
		}
		var out []int
		for i, v := range vals {
			if v != 0 {
				out = append(out, i)
			}
		}
		return out, nil
	}
	if !a.class.IsNumeric() || a.complex {
		return nil, fmt.Errorf("Array indices must be positive integers or logical values.")
	}
	vals, err := a.Float64s()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		if v < 1 || v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("Array indices must be positive integers or logical values.")
		}
		out[i] = int(v) - 1
	}
	return out, nil
}

// selection maps subscripts to base-0 linear indices of an array with
// extents dims and returns the extents of the result.
func selection(dims []int, subs []subscript) ([]int, []int, error) {
	if len(subs) == 1 {
		n := numel(dims)
		s := subs[0]
		if s.all {
			lin := make([]int, n)
			for i := range lin {
				lin[i] = i
			}
			return lin, []int{n, 1}, nil
		}
		for _, i := range s.idx {
			if i >= n {
				return nil, nil, fmt.Errorf("Index exceeds the number of array elements. Index must not exceed %d.", n)
			}
		}
		out := []int{len(s.idx), 1}
		switch {
		case len(dims) == 2 && dims[0] == 1:
			out = []int{1, len(s.idx)}
		case len(dims) == 2 && dims[1] == 1:
		case len(s.dims) >= 2:
			out = normDims(s.dims)
		}
		return s.idx, out, nil
	}

	ext := make([]int, len(subs))
	for i := range ext {
		switch {
		case i < len(dims) && i < len(subs)-1:
			ext[i] = dims[i]
		case i == len(subs)-1:
			ext[i] = 1
			for _, d := range dims[min(i, len(dims)):] {
				ext[i] *= d
			}
		default:
			ext[i] = 1
		}
	}
	axes := make([][]int, len(subs))
	out := make([]int, len(subs))
	for i, s := range subs {
		if s.all {
			axes[i] = make([]int, ext[i])
			for k := range axes[i] {
				axes[i][k] = k
			}
		} else {
			for _, k := range s.idx {
				if k >= ext[i] {
					return nil, nil, fmt.Errorf("Index in position %d exceeds array bounds. Index must not exceed %d.", i+1, ext[i])
				}
			}
			axes[i] = s.idx
		}
		out[i] = len(axes[i])
	}

	total := numel(out)
	lin := make([]int, 0, total)
	pos := make([]int, len(axes))
	for n := 0; n < total; n++ {
		off, stride := 0, 1
		for i, ax := range axes {
			off += ax[pos[i]] * stride
			stride *= ext[i]
		}
		lin = append(lin, off)
		for i := range pos {
			pos[i]++
			if pos[i] < len(axes[i]) {
				break
			}
			pos[i] = 0
		}
	}
	return lin, normDims(out), nil
}

// gather builds a new array from elements lin of v.
func (e *Engine) gather(v *Array, lin []int, dims []int) (*Array, error) {
	switch v.class {
	case mx.ClassCell:
		elems := make([]*Array, len(lin))
		for i, k := range lin {
			c, err := v.elems[k].clone()
			if err != nil {
				destroyAll(elems)
				return nil, err
			}
			elems[i] = c
		}
		c, err := e.NewCell(dims, elems...)
		if err != nil {
			destroyAll(elems)
		}
		return c, err
	case mx.ClassStruct, mx.ClassObject:
		nf := len(v.fields)
		values := make([]*Array, 0, len(lin)*nf)
		for _, k := range lin {
			for j := 0; j < nf; j++ {
				c, err := v.elems[k*nf+j].clone()
				if err != nil {
					destroyAll(values)
					return nil, err
				}
				values = append(values, c)
			}
		}
		r, err := e.newRecord(v.class, v.className, dims, v.fields, values)
		if err != nil {
			destroyAll(values)
		}
		return r, err
	case mx.ClassFunction:
		if len(lin) != 1 {
			return nil, fmt.Errorf("Function handle arrays are not supported.")
		}
		return v.clone()
	}

	width := classWidths[v.class]
	out, err := e.newPlanes(v.class, dims, width, v.complex)
	if err != nil {
		return nil, err
	}
	planes := []struct{ src, dst block }{{v.re, out.re}}
	if v.complex {
		planes = append(planes, struct{ src, dst block }{v.im, out.im})
	}
	for _, p := range planes {
		if len(lin) == 0 {
			break
		}
		src, err := e.mem.Read(p.src.ptr, p.src.size)
		if err != nil {
			out.Destroy()
			return nil, err
		}
		dst := make([]byte, len(lin)*width)
		for i, k := range lin {
			copy(dst[i*width:(i+1)*width], src[k*width:])
		}
		if err := e.mem.Write(p.dst.ptr, dst); err != nil {
			out.Destroy()
			return nil, err
		}
	}
	return out, nil
}
