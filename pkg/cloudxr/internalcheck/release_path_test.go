package internalcheck

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const bridgePkg = "github.com/compal/cloudxr-go/pkg/cloudxr"

func loadBridge(t *testing.T) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, bridgePkg)
	if err != nil {
		t.Fatalf("load package: %v", err)
	}
	return pkgs
}

// eachFunc calls fn for every node inside a function declaration, passing
// the name of the enclosing declaration.
func eachFunc(pkg *packages.Package, fn func(decl string, n ast.Node)) {
	for _, file := range pkg.Syntax {
		for _, d := range file.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			ast.Inspect(fd.Body, func(n ast.Node) bool {
				if n != nil {
					fn(fd.Name.Name, n)
				}
				return true
			})
		}
	}
}

func TestEngineClosedOnlyByRelease(t *testing.T) {
	var findings []string
	seen := 0

	for _, pkg := range loadBridge(t) {
		eachFunc(pkg, func(decl string, n ast.Node) {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "Close" {
				return
			}
			selection := pkg.TypesInfo.Selections[sel]
			if selection == nil {
				return
			}
			named, ok := selection.Recv().(*types.Named)
			if !ok || named.Obj().Name() != "Engine" || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != bridgePkg {
				return
			}
			seen++
			if decl != "release" {
				findings = append(findings, fmt.Sprintf("%s: Engine.Close reached from %s", pkg.Fset.Position(sel.Pos()), decl))
			}
		})
	}

	if seen == 0 {
		t.Fatal("no Engine.Close reference found")
	}
	if len(findings) > 0 {
		t.Fatalf("engine release policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func TestReleaseOnlyFromLifecycle(t *testing.T) {
	allowed := map[string]bool{"Create": true, "Destroy": true}
	var findings []string

	for _, pkg := range loadBridge(t) {
		eachFunc(pkg, func(decl string, n ast.Node) {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return
			}
			id, ok := call.Fun.(*ast.Ident)
			if !ok || id.Name != "release" {
				return
			}
			obj, ok := pkg.TypesInfo.Uses[id].(*types.Func)
			if !ok || obj.Pkg() == nil || obj.Pkg().Path() != bridgePkg {
				return
			}
			if !allowed[decl] {
				findings = append(findings, fmt.Sprintf("%s: release called from %s", pkg.Fset.Position(call.Pos()), decl))
			}
		})
	}

	if len(findings) > 0 {
		t.Fatalf("engine release policy violation:\n%s", strings.Join(findings, "\n"))
	}
}
