package apidoc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Artifact file names, relative to the output directory.
const (
	IndexFile       = "source/index.md"
	CompareFile     = "source/.compare.md"
	PrependFile     = "source/prepend.md"
	AppendFile      = "source/append.md"
	CollectionFile  = "collection.json"
	EnvironmentFile = "environment.json"
)

// WriteGroupsJSON writes the grouped records as indented JSON.
func WriteGroupsJSON(w io.Writer, groups []RouteDocGroup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(groups)
}

// WriteGroupsYAML writes the grouped records as YAML.
func WriteGroupsYAML(w io.Writer, groups []RouteDocGroup) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(groups); err != nil {
		return err
	}
	return enc.Close()
}

// WriteOptions configures Write.
type WriteOptions struct {
	Dir        string
	Markdown   MarkdownOptions
	Collection CollectionOptions
	Format     string // "json" or "yaml" writes routes.<format>; "" writes no dump
	Force      bool   // overwrite hand-edited route blocks
	Logger     *slog.Logger
}

// Artifact is a file written by Write.
type Artifact struct {
	Path string
	Size int
}

// Report summarizes Write.
type Report struct {
	Artifacts []Artifact
	Edits     []Edit
}

// Write renders every artifact of a run into opts.Dir. Hand-edited route
// blocks of an existing index are kept unless opts.Force is set.
func Write(ctx context.Context, groups []RouteDocGroup, opts WriteOptions) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dir, err := homedir.Expand(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("expand output dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "source"), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	w := &artifactWriter{dir: dir, logger: logger, ctx: ctx}

	md := opts.Markdown
	if md.Prepend == "" {
		md.Prepend, err = w.read(PrependFile)
		if err != nil {
			return nil, err
		}
	}
	if md.Append == "" {
		md.Append, err = w.read(AppendFile)
		if err != nil {
			return nil, err
		}
	}
	if md.CollectionURL == "" {
		md.CollectionURL, md.EnvironmentURL = CollectionFile, EnvironmentFile
	}

	renderer, err := NewMarkdownRenderer(md)
	if err != nil {
		return nil, err
	}
	var fresh bytes.Buffer
	if err := renderer.Render(&fresh, groups); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	index, err := w.read(IndexFile)
	if err != nil {
		return nil, err
	}
	compare, err := w.read(CompareFile)
	if err != nil {
		return nil, err
	}
	merged, edits := PreserveEdits(index, compare, fresh.String(), opts.Force)
	for _, e := range edits {
		msg := "keeping hand-edited route block"
		if opts.Force {
			msg = "overwriting hand-edited route block"
		}
		logger.WarnContext(ctx, msg, slog.String("id", e.ID), slog.String("diff", e.Diff))
	}

	cw := NewCollectionWriter(groups, opts.Collection)
	collection, err := cw.MarshalCollection()
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	environment, err := cw.MarshalEnvironment()
	if err != nil {
		return nil, fmt.Errorf("encode environment: %w", err)
	}

	files := []pendingFile{
		{IndexFile, []byte(merged)},
		{CompareFile, fresh.Bytes()},
		{CollectionFile, collection},
		{EnvironmentFile, environment},
	}

	switch opts.Format {
	case "":
	case "json", "yaml":
		var dump bytes.Buffer
		encode := WriteGroupsJSON
		if opts.Format == "yaml" {
			encode = WriteGroupsYAML
		}
		if err := encode(&dump, groups); err != nil {
			return nil, fmt.Errorf("encode routes: %w", err)
		}
		files = append(files, pendingFile{"routes." + opts.Format, dump.Bytes()})
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unsupported format %q (supported: json, yaml)", opts.Format)}
	}

	for _, f := range files {
		if err := w.write(f.name, f.data); err != nil {
			return nil, err
		}
	}
	return &Report{Artifacts: w.written, Edits: edits}, nil
}

type pendingFile struct {
	name string
	data []byte
}

type artifactWriter struct {
	ctx     context.Context
	dir     string
	logger  *slog.Logger
	written []Artifact
}

// read returns a file's content, or "" when it does not exist.
func (w *artifactWriter) read(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(w.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(b), nil
}

func (w *artifactWriter) write(name string, data []byte) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	w.written = append(w.written, Artifact{Path: path, Size: len(data)})
	w.logger.InfoContext(w.ctx, "wrote artifact",
		slog.String("path", path),
		slog.String("size", humanize.Bytes(uint64(len(data)))),
	)
	return nil
}
