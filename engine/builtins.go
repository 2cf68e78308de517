package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wippyai/mxbridge/mx"
)

// Func implements a function callable from commands. args stay owned by
// the interpreter; the returned arrays pass to it. nargout is the number of
// outputs the call site asked for, 0 for a bare expression.
type Func func(e *Engine, args []*Array, nargout int) ([]*Array, error)

type function struct {
	fn      Func
	doc     string
	builtin bool
}

// RegisterFunc makes fn callable by name from Eval. doc is what help
// returns for it. Registering a builtin name replaces the builtin.
func (e *Engine) RegisterFunc(name, doc string, fn Func) error {
	if !mx.ValidName(name) {
		return fmt.Errorf("invalid function name %q", name)
	}
	if fn == nil {
		return fmt.Errorf("nil function %q", name)
	}
	e.funcs[name] = function{fn: fn, doc: doc}
	return nil
}

// Functions returns the callable names in sorted order.
func (e *Engine) Functions() []string {
	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtins() map[string]function {
	m := map[string]function{
		"size":       {fn: fnSize, doc: "size(x) returns the extents of x. size(x, d) returns extent d."},
		"numel":      {fn: fnNumel, doc: "numel(x) returns the number of elements of x."},
		"class":      {fn: fnClass, doc: "class(x) returns the class name of x."},
		"fieldnames": {fn: fnFieldnames, doc: "fieldnames(s) returns the field names of s as a cell column."},
		"exist":      {fn: fnExist, doc: "exist('name') returns 1 for variables, 2 for registered and 5 for builtin functions, 0 otherwise."},
		"help":       {fn: fnHelp, doc: "help('name') returns the documentation of a function."},
		"struct":     {fn: fnStruct, doc: "struct('f', v, ...) builds a structure. struct(obj) converts an object."},
		"cell":       {fn: fnCell, doc: "cell(m, n) builds a cell array of empty elements."},
		"complex":    {fn: fnComplex, doc: "complex(a, b) returns a + b*i with an imaginary part even when b is zero."},
		"real":       {fn: fnReal, doc: "real(x) returns the real part of x."},
		"imag":       {fn: fnImag, doc: "imag(x) returns the imaginary part of x."},
		"isempty":    {fn: fnIsEmpty, doc: "isempty(x) is true when x has no elements."},
		"issparse":   {fn: fnIsSparse, doc: "issparse(x) is true for sparse arrays."},
		"sparse":     {fn: fnSparse, doc: "sparse(A) or sparse(i, j, v, m, n, nzmax) builds a sparse matrix."},
		"full":       {fn: fnFull, doc: "full(S) converts a sparse matrix to dense storage."},
		"nnz":        {fn: fnNnz, doc: "nnz(x) returns the number of non-zero elements."},
		"nzmax":      {fn: fnNzmax, doc: "nzmax(S) returns the storage allocated for non-zero elements."},
		"error":      {fn: fnError, doc: "error(msg) raises an error with message msg."},
		"feval":      {fn: fnFeval, doc: "feval(f, args...) calls the function f names or refers to."},
		"func2str":   {fn: fnFunc2Str, doc: "func2str(h) returns the name a function handle refers to."},
		"str2func":   {fn: fnStr2Func, doc: "str2func('name') returns a handle to function name."},
		"plus":       {fn: binaryFunc("+"), doc: "plus(a, b) is a + b."},
		"minus":      {fn: binaryFunc("-"), doc: "minus(a, b) is a - b."},
		"times":      {fn: binaryFunc(".*"), doc: "times(a, b) is a .* b."},
		"rdivide":    {fn: binaryFunc("./"), doc: "rdivide(a, b) is a ./ b."},
		"mtimes":     {fn: binaryFunc("*"), doc: "mtimes(a, b) is a * b."},
		"zeros":      {fn: fillFunc(0), doc: "zeros(m, n, ..., class) returns an array of zeros."},
		"ones":       {fn: fillFunc(1), doc: "ones(m, n, ..., class) returns an array of ones."},
		"NaN":        {fn: fillFunc(math.NaN()), doc: "NaN(m, n, ...) returns an array of NaN."},
		"Inf":        {fn: fillFunc(math.Inf(1)), doc: "Inf(m, n, ...) returns an array of positive infinity."},
		"pi":         {fn: fillFunc(math.Pi), doc: "pi returns the ratio of a circle's circumference to its diameter."},
		"eps":        {fn: fillFunc(0x1p-52), doc: "eps returns the distance from 1.0 to the next double."},
		"true":       {fn: logicalFill(true), doc: "true(m, n, ...) returns an array of logical ones."},
		"false":      {fn: logicalFill(false), doc: "false(m, n, ...) returns an array of logical zeros."},
	}
	for id := mx.ClassLogical; id <= mx.ClassUint64; id++ {
		if id == mx.ClassVoid {
			continue
		}
		m[id.String()] = function{fn: castFunc(id), doc: fmt.Sprintf("%s(x) converts x to %s.", id, id)}
	}
	for name, f := range m {
		f.builtin = true
		m[name] = f
	}
	return m
}

func one(a *Array, err error) ([]*Array, error) {
	if err != nil {
		return nil, err
	}
	return []*Array{a}, nil
}

func nargs(name string, args []*Array, lo, hi int) error {
	if len(args) < lo {
		return fmt.Errorf("Not enough input arguments.")
	}
	if hi >= 0 && len(args) > hi {
		return fmt.Errorf("Error using %s\nToo many input arguments.", name)
	}
	return nil
}

func scalarArg(a *Array) (float64, error) {
	if a.sparse || !(a.class.IsNumeric() || a.class == mx.ClassChar) || a.NumberOfElements() != 1 {
		return 0, fmt.Errorf("Expected a numeric scalar argument.")
	}
	v, err := a.Float64s()
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func textArg(a *Array) (string, error) {
	if a.class != mx.ClassChar || (a.NumberOfElements() > 0 && a.dims[0] != 1) {
		return "", fmt.Errorf("Expected a character vector argument.")
	}
	if a.NumberOfElements() == 0 {
		return "", nil
	}
	return a.Text()
}

func dimsArg(args []*Array) ([]int, error) {
	var dims []int
	for _, a := range args {
		if a.NumberOfElements() == 1 {
			v, err := scalarArg(a)
			if err != nil {
				return nil, err
			}
			dims = append(dims, max(0, int(v)))
			continue
		}
		vals, err := a.Float64s()
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			dims = append(dims, max(0, int(v)))
		}
	}
	switch len(dims) {
	case 0:
		return []int{1, 1}, nil
	case 1:
		return []int{dims[0], dims[0]}, nil
	}
	return dims, nil
}

func fnSize(e *Engine, args []*Array, nargout int) ([]*Array, error) {
	if err := nargs("size", args, 1, 2); err != nil {
		return nil, err
	}
	dims := args[0].Dimensions()
	if len(args) == 2 {
		d, err := scalarArg(args[1])
		if err != nil || d < 1 || d != math.Trunc(d) {
			return nil, fmt.Errorf("Dimension argument must be a positive integer scalar.")
		}
		ext := 1
		if int(d) <= len(dims) {
			ext = dims[int(d)-1]
		}
		return one(e.NewScalar(float64(ext)))
	}
	if nargout <= 1 {
		vals := make([]float64, len(dims))
		for i, d := range dims {
			vals[i] = float64(d)
		}
		return one(e.NewNumeric(mx.ClassDouble, []int{1, len(dims)}, vals, nil))
	}
	out := make([]*Array, nargout)
	for i := range out {
		ext := 1
		switch {
		case i < nargout-1 && i < len(dims):
			ext = dims[i]
		case i == nargout-1:
			for _, d := range dims[min(i, len(dims)):] {
				ext *= d
			}
		}
		a, err := e.NewScalar(float64(ext))
		if err != nil {
			destroyAll(out)
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func fnNumel(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("numel", args, 1, 1); err != nil {
		return nil, err
	}
	return one(e.NewScalar(float64(args[0].NumberOfElements())))
}

func fnClass(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("class", args, 1, 1); err != nil {
		return nil, err
	}
	return one(e.newChar([]string{args[0].Class()}))
}

func fnFieldnames(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("fieldnames", args, 1, 1); err != nil {
		return nil, err
	}
	a := args[0]
	if a.class != mx.ClassStruct && a.class != mx.ClassObject {
		return nil, fmt.Errorf("Invalid input argument of type '%s'. Input must be a structure or a Java or COM object.", a.Class())
	}
	elems := make([]*Array, len(a.fields))
	for i, f := range a.fields {
		c, err := e.newChar([]string{f})
		if err != nil {
			destroyAll(elems)
			return nil, err
		}
		elems[i] = c
	}
	return one(e.NewCell([]int{len(elems), 1}, elems...))
}

func fnExist(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("exist", args, 1, 2); err != nil {
		return nil, err
	}
	name, err := textArg(args[0])
	if err != nil {
		return nil, err
	}
	kind := ""
	if len(args) == 2 {
		if kind, err = textArg(args[1]); err != nil {
			return nil, err
		}
	}
	code := 0.0
	_, isVar := e.vars[name]
	fn, isFunc := e.funcs[name]
	switch {
	case isVar && (kind == "" || kind == "var"):
		code = 1
	case isFunc && kind == "builtin" && fn.builtin:
		code = 5
	case isFunc && kind == "":
		code = 2
		if fn.builtin {
			code = 5
		}
	}
	return one(e.NewScalar(code))
}

func fnHelp(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("help", args, 1, 1); err != nil {
		return nil, err
	}
	name, err := textArg(args[0])
	if err != nil {
		return nil, err
	}
	fn, ok := e.funcs[name]
	text := fmt.Sprintf("%s not found.", name)
	if ok {
		text = fn.doc
	}
	if text == "" {
		return one(e.newPlanes(mx.ClassChar, []int{0, 0}, mx.CharSize, false))
	}
	return one(e.newChar([]string{text}))
}

func fnStruct(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if len(args) == 0 {
		return one(e.NewStruct(nil))
	}
	if len(args) == 1 {
		a := args[0]
		if a.class != mx.ClassStruct && a.class != mx.ClassObject {
			return nil, fmt.Errorf("Conversion to struct from %s is not possible.", a.Class())
		}
		cp, err := a.clone()
		if err != nil {
			return nil, err
		}
		cp.class, cp.className = mx.ClassStruct, ""
		return []*Array{cp}, nil
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("Field and value input arguments must come in pairs.")
	}

	fields := make([]string, 0, len(args)/2)
	dims := []int{1, 1}
	for i := 0; i < len(args); i += 2 {
		f, err := textArg(args[i])
		if err != nil {
			return nil, fmt.Errorf("Field names must be non-empty character vectors.")
		}
		fields = append(fields, f)
		if v := args[i+1]; v.class == mx.ClassCell && v.NumberOfElements() != 1 {
			if numel(dims) != 1 && !sameDims(dims, v.dims) {
				return nil, fmt.Errorf("Array dimensions of input %d must match those of input %d or be scalar.", i+2, 2)
			}
			dims = v.Dimensions()
		}
	}
	n := numel(dims)
	values := make([]*Array, 0, n*len(fields))
	for k := 0; k < n; k++ {
		for i := 1; i < len(args); i += 2 {
			src := args[i]
			if src.class == mx.ClassCell {
				src = src.elems[pick(src.NumberOfElements() == 1, k)]
			}
			c, err := src.clone()
			if err != nil {
				destroyAll(values)
				return nil, err
			}
			values = append(values, c)
		}
	}
	s, err := e.NewStructArray(dims, fields, values...)
	if err != nil {
		destroyAll(values)
		return nil, err
	}
	return []*Array{s}, nil
}

func fnCell(e *Engine, args []*Array, _ int) ([]*Array, error) {
	dims, err := dimsArg(args)
	if err != nil {
		return nil, err
	}
	return one(e.NewCell(dims))
}

func fnComplex(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("complex", args, 1, 2); err != nil {
		return nil, err
	}
	re, err := e.operand(args[0])
	if err != nil {
		return nil, err
	}
	if re.complex {
		return nil, fmt.Errorf("Input A must be real.")
	}
	class := re.class
	imVals := []complex128{0}
	if len(args) == 2 {
		im, err := e.operand(args[1])
		if err != nil {
			return nil, err
		}
		if im.complex {
			return nil, fmt.Errorf("Input B must be real.")
		}
		if class, err = resultClass(re.class, im.class); err != nil {
			return nil, err
		}
		switch {
		case len(re.vals) == 1 && len(im.vals) != 1:
			re.dims = im.dims
			v := re.vals[0]
			re.vals = make([]complex128, len(im.vals))
			for i := range re.vals {
				re.vals[i] = v
			}
		case len(im.vals) != 1 && !sameDims(re.dims, im.dims):
			return nil, fmt.Errorf("Input arguments must be scalars or arrays of the same size.")
		}
		imVals = im.vals
	}
	if class == mx.ClassLogical || class == mx.ClassChar {
		class = mx.ClassDouble
	}
	reOut := make([]float64, len(re.vals))
	imOut := make([]float64, len(re.vals))
	for i, v := range re.vals {
		reOut[i] = real(v)
		imOut[i] = real(imVals[pick(len(imVals) == 1, i)])
	}
	return one(e.NewNumeric(class, re.dims, reOut, imOut))
}

func fnReal(e *Engine, args []*Array, _ int) ([]*Array, error) {
	return part(e, "real", args, func(v complex128) float64 { return real(v) })
}

func fnImag(e *Engine, args []*Array, _ int) ([]*Array, error) {
	return part(e, "imag", args, func(v complex128) float64 { return imag(v) })
}

func part(e *Engine, name string, args []*Array, f func(complex128) float64) ([]*Array, error) {
	if err := nargs(name, args, 1, 1); err != nil {
		return nil, err
	}
	op, err := e.operand(args[0])
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(op.vals))
	for i, v := range op.vals {
		out[i] = f(v)
	}
	class := op.class
	if class == mx.ClassLogical || class == mx.ClassChar {
		class = mx.ClassDouble
	}
	return one(e.NewNumeric(class, op.dims, out, nil))
}

func fnIsEmpty(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("isempty", args, 1, 1); err != nil {
		return nil, err
	}
	return one(e.logicalScalar(args[0].NumberOfElements() == 0))
}

func fnIsSparse(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("issparse", args, 1, 1); err != nil {
		return nil, err
	}
	return one(e.logicalScalar(args[0].sparse))
}

func (e *Engine) logicalScalar(b bool) (*Array, error) {
	v := 0.0
	if b {
		v = 1
	}
	return e.NewNumeric(mx.ClassLogical, []int{1, 1}, []float64{v}, nil)
}

func fnError(_ *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("error", args, 1, -1); err != nil {
		return nil, err
	}
	msg, err := textArg(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) > 1 {
		vals := make([]any, 0, len(args)-1)
		for _, a := range args[1:] {
			if a.class == mx.ClassChar {
				s, _ := a.Text()
				vals = append(vals, s)
			} else if v, err := scalarArg(a); err == nil {
				vals = append(vals, v)
			}
		}
		msg = fmt.Sprintf(strings.NewReplacer("%d", "%v", "%g", "%v", "%f", "%v").Replace(msg), vals...)
	}
	return nil, fmt.Errorf("%s", msg)
}

func fnFeval(e *Engine, args []*Array, nargout int) ([]*Array, error) {
	if err := nargs("feval", args, 1, -1); err != nil {
		return nil, err
	}
	name := args[0].target
	if args[0].class != mx.ClassFunction {
		var err error
		if name, err = textArg(args[0]); err != nil {
			return nil, fmt.Errorf("Argument must contain a character vector or function handle.")
		}
	}
	return e.call(name, args[1:], nargout)
}

func fnFunc2Str(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("func2str", args, 1, 1); err != nil {
		return nil, err
	}
	if args[0].class != mx.ClassFunction {
		return nil, fmt.Errorf("Input argument must be a function handle.")
	}
	return one(e.newChar([]string{args[0].target}))
}

func fnStr2Func(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("str2func", args, 1, 1); err != nil {
		return nil, err
	}
	name, err := textArg(args[0])
	if err != nil || !mx.ValidName(strings.TrimPrefix(name, "@")) {
		return nil, fmt.Errorf("Invalid function name.")
	}
	return one(e.NewFunctionHandle(strings.TrimPrefix(name, "@")), nil)
}

func binaryFunc(op string) Func {
	return func(e *Engine, args []*Array, _ int) ([]*Array, error) {
		if err := nargs(op, args, 2, 2); err != nil {
			return nil, err
		}
		return one(e.arith(op, args[0], args[1]))
	}
}

func fillFunc(v float64) Func {
	return func(e *Engine, args []*Array, _ int) ([]*Array, error) {
		class := mx.ClassDouble
		if n := len(args); n > 0 && args[n-1].class == mx.ClassChar {
			name, err := textArg(args[n-1])
			if err != nil {
				return nil, err
			}
			class = mx.ParseClass(name)
			if !class.IsNumeric() || class == mx.ClassLogical {
				return nil, fmt.Errorf("Class name input must be a numeric class.")
			}
			args = args[:n-1]
		}
		dims, err := dimsArg(args)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, numel(dims))
		for i := range vals {
			vals[i] = v
		}
		return one(e.NewNumeric(class, dims, vals, nil))
	}
}

func logicalFill(b bool) Func {
	return func(e *Engine, args []*Array, _ int) ([]*Array, error) {
		dims, err := dimsArg(args)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, numel(dims))
		if b {
			for i := range vals {
				vals[i] = 1
			}
		}
		return one(e.NewNumeric(mx.ClassLogical, dims, vals, nil))
	}
}

func castFunc(class mx.ClassID) Func {
	return func(e *Engine, args []*Array, _ int) ([]*Array, error) {
		if err := nargs(class.String(), args, 1, 1); err != nil {
			return nil, err
		}
		return one(e.cast(args[0], class))
	}
}

func (e *Engine) cast(a *Array, class mx.ClassID) (*Array, error) {
	if a.sparse {
		if class == a.class {
			return a.clone()
		}
		return nil, fmt.Errorf("Conversion of sparse %s to %s is not supported.", a.Class(), class)
	}
	if _, ok := classWidths[a.class]; !ok {
		return nil, fmt.Errorf("Conversion to %s from %s is not possible.", class, a.Class())
	}
	if a.class == class {
		return a.clone()
	}
	re, err := a.Float64s()
	if err != nil {
		return nil, err
	}
	im, err := a.Imag64s()
	if err != nil {
		return nil, err
	}
	switch class {
	case mx.ClassLogical:
		if im != nil {
			return nil, fmt.Errorf("Complex values cannot be converted to logicals.")
		}
		for _, v := range re {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("NaN's cannot be converted to logicals.")
			}
		}
	case mx.ClassChar:
		if im != nil {
			return nil, fmt.Errorf("Complex values cannot be converted to chars.")
		}
	}
	return e.NewNumeric(class, a.dims, re, im)
}

// fnSparse builds sparse(A) or sparse(i, j, v, m, n[, nzmax]). Duplicate
// subscripts are summed and explicit zeros dropped.
func fnSparse(e *Engine, args []*Array, _ int) ([]*Array, error) {
	switch len(args) {
	case 1:
		a := args[0]
		if a.sparse {
			return one(a.clone())
		}
		if len(a.dims) != 2 || a.complex || !a.class.IsNumeric() {
			return nil, fmt.Errorf("Input must be a real 2-D numeric or logical array.")
		}
		vals, err := a.Float64s()
		if err != nil {
			return nil, err
		}
		rows, cols := a.dims[0], a.dims[1]
		var ir []int
		var sv []float64
		jc := make([]int, cols+1)
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				if v := vals[i+j*rows]; v != 0 {
					ir = append(ir, i)
					sv = append(sv, v)
				}
			}
			jc[j+1] = len(ir)
		}
		class := mx.ClassDouble
		if a.class == mx.ClassLogical {
			class = mx.ClassLogical
		}
		return one(e.NewSparse(class, rows, cols, max(1, len(ir)), ir, jc, sv, nil))
	case 5, 6:
	default:
		return nil, fmt.Errorf("Incorrect number of input arguments.")
	}

	is, err := args[0].Float64s()
	if err != nil {
		return nil, err
	}
	js, err := args[1].Float64s()
	if err != nil {
		return nil, err
	}
	vs, err := args[2].Float64s()
	if err != nil {
		return nil, err
	}
	m, err := scalarArg(args[3])
	if err != nil {
		return nil, err
	}
	n, err := scalarArg(args[4])
	if err != nil {
		return nil, err
	}
	if len(is) != len(js) || (len(vs) != 1 && len(vs) != len(is)) {
		return nil, fmt.Errorf("Vectors must be the same length.")
	}
	rows, cols := int(m), int(n)

	sum := make(map[[2]int]float64)
	for k := range is {
		i, j := int(is[k])-1, int(js[k])-1
		if i < 0 || j < 0 || float64(i+1) != is[k] || float64(j+1) != js[k] {
			return nil, fmt.Errorf("Index into matrix must be positive.")
		}
		if i >= rows || j >= cols {
			return nil, fmt.Errorf("Index exceeds matrix dimensions.")
		}
		sum[[2]int{j, i}] += vs[pick(len(vs) == 1, k)]
	}
	keys := make([][2]int, 0, len(sum))
	for k, v := range sum {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})
	ir := make([]int, len(keys))
	sv := make([]float64, len(keys))
	jc := make([]int, cols+1)
	for k, key := range keys {
		ir[k] = key[1]
		sv[k] = sum[key]
		jc[key[0]+1]++
	}
	for j := 0; j < cols; j++ {
		jc[j+1] += jc[j]
	}
	nzmax := max(1, len(keys))
	if len(args) == 6 {
		v, err := scalarArg(args[5])
		if err != nil {
			return nil, err
		}
		nzmax = max(nzmax, int(v))
	}
	return one(e.NewSparse(mx.ClassDouble, rows, cols, nzmax, ir, jc, sv, nil))
}

func (a *Array) sparseParts() (ir, jc []int, re, im []float64, err error) {
	cols := a.dims[1]
	if jc, err = a.eng.readIndices(a.jc, cols+1); err != nil {
		return
	}
	nnz := min(jc[cols], a.nzmax)
	if ir, err = a.eng.readIndices(a.ir, nnz); err != nil {
		return
	}
	if re, err = a.plane(a.re, nnz); err != nil {
		return
	}
	if a.complex {
		im, err = a.plane(a.im, nnz)
	}
	return
}

func fnFull(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("full", args, 1, 1); err != nil {
		return nil, err
	}
	a := args[0]
	if !a.sparse {
		return one(a.clone())
	}
	ir, jc, re, im, err := a.sparseParts()
	if err != nil {
		return nil, err
	}
	rows, cols := a.dims[0], a.dims[1]
	dre := make([]float64, rows*cols)
	var dim []float64
	if im != nil {
		dim = make([]float64, rows*cols)
	}
	for j := 0; j < cols; j++ {
		for k := jc[j]; k < jc[j+1] && k < len(ir); k++ {
			dre[ir[k]+j*rows] = re[k]
			if im != nil {
				dim[ir[k]+j*rows] = im[k]
			}
		}
	}
	return one(e.NewNumeric(a.class, a.dims, dre, dim))
}

func fnNnz(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("nnz", args, 1, 1); err != nil {
		return nil, err
	}
	a := args[0]
	var re, im []float64
	var err error
	if a.sparse {
		_, _, re, im, err = a.sparseParts()
	} else {
		if re, err = a.Float64s(); err == nil {
			im, err = a.Imag64s()
		}
	}
	if err != nil {
		return nil, err
	}
	count := 0
	for i, v := range re {
		if v != 0 || (im != nil && im[i] != 0) {
			count++
		}
	}
	return one(e.NewScalar(float64(count)))
}

func fnNzmax(e *Engine, args []*Array, _ int) ([]*Array, error) {
	if err := nargs("nzmax", args, 1, 1); err != nil {
		return nil, err
	}
	return one(e.NewScalar(float64(args[0].Nzmax())))
}
