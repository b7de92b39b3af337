// Copyright © 2024 The ELPS authors

package trace

import (
	"go/build"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

// AppCodeFunc reports whether a frame file belongs to application code, as
// opposed to a language runtime or a third-party dependency.
//
// The predicates in this package look only at the path text. They never touch
// the filesystem, so an application file whose path mentions node_modules is
// classified as dependency code.
type AppCodeFunc func(file string) bool

// DefaultAppCode rejects runtime modules, anything mentioning node_modules,
// vendor trees, and the Go module cache.
var DefaultAppCode = All(
	NotRuntimeModule,
	NotNodeModule,
	NotUnderDir("vendor"),
	NotUnderDir(filepath.Join("pkg", "mod")),
)

// goSrcRoots are the GOROOT source directories of the local toolchain and
// of the toolchain the binary was built with. They differ when the binary
// runs on another machine.
var goSrcRoots = detectGoSrcRoots()

func detectGoSrcRoots() []string {
	var roots []string
	if build.Default.GOROOT != "" {
		roots = append(roots, filepath.ToSlash(filepath.Join(build.Default.GOROOT, "src"))+"/")
	}
	if root := compiledGoSrcRoot(); root != "" && (len(roots) == 0 || roots[0] != root) {
		roots = append(roots, root)
	}
	return roots
}

// compiledGoSrcRoot derives GOROOT/src from the recorded path of a runtime
// function. It is empty for binaries built with -trimpath.
func compiledGoSrcRoot() string {
	pc := reflect.ValueOf(runtime.Gosched).Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	file, _ := fn.FileLine(pc)
	file = filepath.ToSlash(file)
	i := strings.LastIndex(file, "/runtime/")
	if i < 0 || !filepath.IsAbs(file) {
		return ""
	}
	return file[:i+1]
}

// NotRuntimeModule rejects files that belong to a language runtime: the
// node "module.js" loader, node: scheme builtins, and Go standard library
// sources under GOROOT.
func NotRuntimeModule(file string) bool {
	slashed := filepath.ToSlash(file)
	switch {
	case file == "module.js":
		return false
	case strings.HasPrefix(file, "node:"):
		return false
	case strings.HasPrefix(slashed, "$GOROOT/"):
		return false
	}
	for _, root := range goSrcRoots {
		if strings.HasPrefix(slashed, root) {
			return false
		}
	}
	return true
}

// NotNodeModule rejects any file whose path mentions node_modules. The match
// is plain text, so "/a/my_node_modules/b.js" is rejected too.
func NotNodeModule(file string) bool {
	return !strings.Contains(file, "node_modules")
}

// NotUnderDir returns a predicate rejecting files with a path component
// sequence equal to dir.
func NotUnderDir(dir string) AppCodeFunc {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	return func(file string) bool {
		file = filepath.ToSlash(file)
		return !strings.HasPrefix(file, dir+"/") && !strings.Contains(file, "/"+dir+"/")
	}
}

// NotFile returns a predicate rejecting exactly the given files.
func NotFile(files ...string) AppCodeFunc {
	skip := make(map[string]bool, len(files))
	for _, f := range files {
		skip[f] = true
	}
	return func(file string) bool {
		return !skip[file]
	}
}

// All combines predicates; a file is application code only if every
// predicate accepts it. Nil predicates are ignored.
func All(preds ...AppCodeFunc) AppCodeFunc {
	return func(file string) bool {
		for _, p := range preds {
			if p != nil && !p(file) {
				return false
			}
		}
		return true
	}
}
