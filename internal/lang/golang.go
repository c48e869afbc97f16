package lang

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/olehluchkiv/classdiag/internal/diagram"
	"github.com/olehluchkiv/classdiag/internal/uml"
)

var packageClauseRe = regexp.MustCompile(`(?m)^\s*package\s+[A-Za-z_]\w*`)

// goFrontend reads Go sources with go/parser and discovers interface
// satisfaction with go/types, so it parses a whole batch at once.
type goFrontend struct{}

func (goFrontend) Language() Language { return Go }

func (goFrontend) Parse(units []uml.SourceUnit) []uml.Entity {
	fset := token.NewFileSet()
	var files []*ast.File
	names := make(map[*ast.File]string, len(units))
	for _, unit := range units {
		content := norm.NFC.String(unit.Content)
		if !packageClauseRe.MatchString(content) {
			content = "package snippet\n" + content
		}
		// Syntax errors still leave a usable partial tree.
		f, _ := parser.ParseFile(fset, unit.Name, content, parser.SkipObjectResolution)
		if f == nil {
			continue
		}
		files = append(files, f)
		names[f] = unit.Name
	}
	if len(files) == 0 {
		return nil
	}

	c := &goCollector{index: make(map[string]int)}
	var current string
	var funcs []*ast.FuncDecl
	insp := inspector.New(files)
	filter := []ast.Node{(*ast.File)(nil), (*ast.TypeSpec)(nil), (*ast.FuncDecl)(nil)}
	insp.WithStack(filter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		switch n := n.(type) {
		case *ast.File:
			current = names[n]
			return true
		case *ast.TypeSpec:
			// Top-level specs sit at File > GenDecl > TypeSpec.
			if len(stack) == 3 {
				c.addType(n, current)
			}
		case *ast.FuncDecl:
			funcs = append(funcs, n)
		}
		return false
	})
	// Methods may precede their receiver's declaration in the batch.
	for _, fn := range funcs {
		c.addMethod(fn)
	}

	c.addRealizations(fset, files)
	return c.entities()
}

type goCollector struct {
	list  []uml.Entity
	index map[string]int
	// pending holds named non-struct, non-interface types; they surface
	// only once a method is declared on them.
	pending map[string]bool
}

func (c *goCollector) addType(spec *ast.TypeSpec, source string) {
	if spec.Assign.IsValid() {
		return
	}
	name := spec.Name.Name
	e := uml.Entity{Name: name, Source: source}
	switch t := spec.Type.(type) {
	case *ast.StructType:
		e.Kind = uml.KindStruct
		for _, f := range t.Fields.List {
			typ := goTypeString(f.Type)
			if len(f.Names) == 0 {
				// Embedding: the harmonizer turns known non-interfaces into inheritance.
				e.Implements = append(e.Implements, embeddedName(f.Type))
				continue
			}
			for _, n := range f.Names {
				e.Members = append(e.Members, uml.Member{
					Kind:       uml.MemberField,
					Name:       n.Name,
					Type:       typ,
					Visibility: goVisibility(n.Name),
				})
			}
		}
	case *ast.InterfaceType:
		e.Kind = uml.KindInterface
		for _, f := range t.Methods.List {
			ft, ok := f.Type.(*ast.FuncType)
			if !ok || len(f.Names) == 0 {
				// Type-set elements such as ~int | ~string are not supertypes.
				if isTypeName(f.Type) {
					e.Inherits = append(e.Inherits, embeddedName(f.Type))
				}
				continue
			}
			for _, n := range f.Names {
				e.Members = append(e.Members, goMethod(n.Name, ft))
			}
		}
	default:
		e.Kind = uml.KindClass
		if c.pending == nil {
			c.pending = make(map[string]bool)
		}
		c.pending[name] = true
	}
	if _, dup := c.index[name]; dup {
		return
	}
	c.index[name] = len(c.list)
	c.list = append(c.list, e)
}

func (c *goCollector) addMethod(fn *ast.FuncDecl) {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return
	}
	i, ok := c.index[receiverName(fn.Recv.List[0].Type)]
	if !ok {
		return
	}
	e := &c.list[i]
	e.Members = append(e.Members, goMethod(fn.Name.Name, fn.Type))
	delete(c.pending, e.Name)
}

// addRealizations type-checks each package in the batch without resolving
// imports and records every declared interface a concrete type satisfies.
func (c *goCollector) addRealizations(fset *token.FileSet, files []*ast.File) {
	byPkg := make(map[string][]*ast.File)
	var order []string
	for _, f := range files {
		pkg := f.Name.Name
		if _, ok := byPkg[pkg]; !ok {
			order = append(order, pkg)
		}
		byPkg[pkg] = append(byPkg[pkg], f)
	}

	var ifaces []*types.TypeName
	var concrete []*types.TypeName
	for _, pkg := range order {
		conf := types.Config{
			Importer:    noImporter{},
			Error:       func(error) {},
			FakeImportC: true,
		}
		checked, _ := conf.Check(pkg, fset, byPkg[pkg], nil)
		if checked == nil {
			continue
		}
		scope := checked.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			// Implements is unspecified for uninstantiated generic types.
			if named, ok := tn.Type().(*types.Named); !ok || named.TypeParams().Len() > 0 {
				continue
			}
			if _, ok := c.index[name]; !ok {
				continue
			}
			if iface, ok := tn.Type().Underlying().(*types.Interface); ok {
				if iface.NumMethods() > 0 && iface.IsMethodSet() {
					ifaces = append(ifaces, tn)
				}
				continue
			}
			concrete = append(concrete, tn)
		}
	}

	var cache typeutil.MethodSetCache
	for _, tn := range concrete {
		e := &c.list[c.index[tn.Name()]]
		valType := tn.Type()
		ptrType := types.NewPointer(valType)
		for _, it := range ifaces {
			iface := it.Type().Underlying().(*types.Interface)
			if types.Implements(valType, iface) || types.Implements(ptrType, iface) ||
				matchesUnresolved(cache.MethodSet(ptrType), iface) {
				if !containsName(e.Implements, it.Name()) {
					e.Implements = append(e.Implements, it.Name())
				}
			}
		}
	}
}

func (c *goCollector) entities() []uml.Entity {
	out := make([]uml.Entity, 0, len(c.list))
	for _, e := range c.list {
		if c.pending[e.Name] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// matchesUnresolved reports whether mset covers iface when some of the
// signatures involved mention unresolved imports. Each method must either
// have an identical signature, or one that contains an invalid type and
// the same arity; anything else is a real mismatch.
func matchesUnresolved(mset *types.MethodSet, iface *types.Interface) bool {
	unresolved := false
	for i := range iface.NumMethods() {
		want := iface.Method(i)
		sel := mset.Lookup(want.Pkg(), want.Name())
		if sel == nil {
			return false
		}
		wantSig := want.Type().(*types.Signature)
		gotSig := sel.Obj().Type().(*types.Signature)
		switch {
		case containsInvalid(wantSig) || containsInvalid(gotSig):
			if !sameShape(wantSig, gotSig) {
				return false
			}
			unresolved = true
		case !types.Identical(wantSig, gotSig):
			return false
		}
	}
	return unresolved
}

func sameShape(a, b *types.Signature) bool {
	return a.Params().Len() == b.Params().Len() &&
		a.Results().Len() == b.Results().Len() &&
		a.Variadic() == b.Variadic()
}

// containsInvalid reports whether t mentions a type the checker could not
// resolve. Named types are not expanded.
func containsInvalid(t types.Type) bool {
	switch t := t.(type) {
	case *types.Basic:
		return t.Kind() == types.Invalid
	case *types.Pointer:
		return containsInvalid(t.Elem())
	case *types.Slice:
		return containsInvalid(t.Elem())
	case *types.Array:
		return containsInvalid(t.Elem())
	case *types.Chan:
		return containsInvalid(t.Elem())
	case *types.Map:
		return containsInvalid(t.Key()) || containsInvalid(t.Elem())
	case *types.Signature:
		return containsInvalid(t.Params()) || containsInvalid(t.Results())
	case *types.Tuple:
		for i := range t.Len() {
			if containsInvalid(t.At(i).Type()) {
				return true
			}
		}
	case *types.Struct:
		for i := range t.NumFields() {
			if containsInvalid(t.Field(i).Type()) {
				return true
			}
		}
	case *types.Named:
		args := t.TypeArgs()
		for i := range args.Len() {
			if containsInvalid(args.At(i)) {
				return true
			}
		}
	}
	return false
}

var errNoImports = errors.New("imports are not resolved")

type noImporter struct{}

func (noImporter) Import(string) (*types.Package, error) { return nil, errNoImports }

func goMethod(name string, ft *ast.FuncType) uml.Member {
	m := uml.Member{
		Kind:       uml.MemberMethod,
		Name:       name,
		Parameters: goParams(ft.Params),
		Visibility: goVisibility(name),
	}
	if ft.Results != nil && len(ft.Results.List) > 0 {
		var results []string
		for _, f := range ft.Results.List {
			n := len(f.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, goTypeString(f.Type))
			}
		}
		m.ReturnType = results[0]
		if len(results) > 1 {
			m.ReturnType = "(" + strings.Join(results, ", ") + ")"
		}
	}
	return m
}

func goParams(fields *ast.FieldList) string {
	if fields == nil {
		return ""
	}
	var out []string
	for _, f := range fields.List {
		typ := goTypeString(f.Type)
		if len(f.Names) == 0 {
			out = append(out, typ)
			continue
		}
		for _, n := range f.Names {
			out = append(out, n.Name+": "+typ)
		}
	}
	return strings.Join(out, ", ")
}

// goTypeString spells a type the way Mermaid member lines accept it.
func goTypeString(expr ast.Expr) string {
	return diagram.SanitizeSignature(types.ExprString(expr))
}

func goVisibility(name string) uml.Visibility {
	if token.IsExported(name) {
		return uml.Public
	}
	return uml.PackagePrivate
}

// receiverName returns the base type name of a method receiver, dropping
// pointers and type parameters.
func receiverName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

// embeddedName renders an embedded field or interface element without the
// pointer marker; qualified names keep their package selector.
func embeddedName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	return types.ExprString(expr)
}

func isTypeName(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident, *ast.SelectorExpr:
		return true
	case *ast.IndexExpr:
		return isTypeName(t.X)
	case *ast.IndexListExpr:
		return isTypeName(t.X)
	}
	return false
}

func containsName(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
