package apidoc

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
)

// RouteTable enumerates the routes of an application in registration order.
type RouteTable interface {
	Routes(ctx context.Context) ([]RouteRef, error)
}

// CommentSource looks up the structured comments of handlers and of the
// containers they belong to.
type CommentSource interface {
	Comment(id HandlerID) (CommentBlock, bool)
	ContainerComment(id HandlerID) (CommentBlock, bool)
}

// MapSource is an in-memory CommentSource keyed by handler id and by
// container name.
type MapSource struct {
	Handlers   map[HandlerID]string
	Containers map[string]string
}

// Comment implements CommentSource.
func (m MapSource) Comment(id HandlerID) (CommentBlock, bool) {
	raw, ok := m.Handlers[id]
	if !ok {
		return CommentBlock{}, false
	}
	return ParseCommentBlock(raw), true
}

// ContainerComment implements CommentSource.
func (m MapSource) ContainerComment(id HandlerID) (CommentBlock, bool) {
	raw, ok := m.Containers[id.Container()]
	if !ok {
		return CommentBlock{}, false
	}
	return ParseCommentBlock(raw), true
}

// Sources chains comment sources; the first source that knows a handler
// answers.
type Sources []CommentSource

// Comment implements CommentSource.
func (s Sources) Comment(id HandlerID) (CommentBlock, bool) {
	for _, src := range s {
		if b, ok := src.Comment(id); ok {
			return b, true
		}
	}
	return CommentBlock{}, false
}

// ContainerComment implements CommentSource.
func (s Sources) ContainerComment(id HandlerID) (CommentBlock, bool) {
	for _, src := range s {
		if b, ok := src.ContainerComment(id); ok {
			return b, true
		}
	}
	return CommentBlock{}, false
}

// GoSource reads handler comments from Go source files. Method docs are
// keyed "Type.Method", function docs by function name, and type docs are
// the container comments of their methods.
type GoSource struct {
	handlers   map[HandlerID]string
	containers map[string]string
}

// NewGoSource parses every non-test Go file under dir. Hidden, vendor and
// testdata directories below dir are skipped.
func NewGoSource(dir string) (*GoSource, error) {
	s := &GoSource{
		handlers:   make(map[HandlerID]string),
		containers: make(map[string]string),
	}
	fset := token.NewFileSet()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		s.collect(file)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GoSource) collect(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Doc == nil {
				continue
			}
			id := HandlerID(d.Name.Name)
			if d.Recv != nil && len(d.Recv.List) > 0 {
				id = HandlerID(receiverName(d.Recv.List[0].Type) + "." + d.Name.Name)
			}
			if _, dup := s.handlers[id]; !dup {
				s.handlers[id] = d.Doc.Text()
			}

		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				if doc == nil {
					continue
				}
				if _, dup := s.containers[ts.Name.Name]; !dup {
					s.containers[ts.Name.Name] = doc.Text()
				}
			}
		}
	}
}

// receiverName returns the base type name of a method receiver.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

// Comment implements CommentSource.
func (s *GoSource) Comment(id HandlerID) (CommentBlock, bool) {
	raw, ok := s.handlers[id]
	if !ok {
		return CommentBlock{}, false
	}
	return ParseCommentBlock(raw), true
}

// ContainerComment implements CommentSource.
func (s *GoSource) ContainerComment(id HandlerID) (CommentBlock, bool) {
	raw, ok := s.containers[id.Container()]
	if !ok {
		return CommentBlock{}, false
	}
	return ParseCommentBlock(raw), true
}

// Handlers returns the number of documented handlers found.
func (s *GoSource) Handlers() int { return len(s.handlers) }
