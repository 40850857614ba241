// Package archive abstracts the output container produced by an export:
// a flat set of named files, optionally grouped under sub-folders,
// serialized at the end into a single downloadable blob.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
)

// Builder collects files and serializes them into a single archive.
type Builder interface {
	// Folder returns a handle adding files under a sub-directory.
	Folder(name string) Folder
	// AddFile adds a text file at the archive root.
	AddFile(name string, content string)
	// AddBinary adds a binary file at the archive root.
	AddBinary(name string, data []byte)
	// Bytes serializes the archive.
	Bytes() ([]byte, error)
}

// Folder adds files under a fixed sub-directory of the archive.
type Folder interface {
	Name() string
	AddFile(name string, content string)
	AddBinary(name string, data []byte)
}

type entry struct {
	name string
	data []byte
}

// ZipBuilder is the zip implementation of Builder.
// Entries are buffered in memory and written in insertion order.
type ZipBuilder struct {
	entries []entry
}

// NewZipBuilder initializes an empty zip archive builder.
func NewZipBuilder() *ZipBuilder {
	return &ZipBuilder{}
}

func (b *ZipBuilder) add(name string, data []byte) {
	// Last write wins to keep AddFile idempotent for a given name
	for i, e := range b.entries {
		if e.name == name {
			b.entries[i].data = data
			return
		}
	}
	b.entries = append(b.entries, entry{name: name, data: data})
}

func (b *ZipBuilder) AddFile(name string, content string) {
	b.add(name, []byte(content))
}

func (b *ZipBuilder) AddBinary(name string, data []byte) {
	b.add(name, data)
}

func (b *ZipBuilder) Folder(name string) Folder {
	return &zipFolder{builder: b, name: name}
}

// Bytes serializes every entry into a zip archive.
func (b *ZipBuilder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range b.entries {
		f, err := w.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("unable to create archive entry %q: %w", e.name, err)
		}
		if _, err := f.Write(e.data); err != nil {
			return nil, fmt.Errorf("unable to write archive entry %q: %w", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type zipFolder struct {
	builder *ZipBuilder
	name    string
}

func (f *zipFolder) Name() string {
	return f.name
}

func (f *zipFolder) AddFile(name string, content string) {
	f.builder.AddFile(path.Join(f.name, name), content)
}

func (f *zipFolder) AddBinary(name string, data []byte) {
	f.builder.AddBinary(path.Join(f.name, name), data)
}
