package excavate

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joshuapare/hivexcavator/internal/reader"
	"github.com/joshuapare/hivexcavator/pkg/types"
)

// Excavator renders a whole hive: a header line for the root key followed by
// the tree below it.
type Excavator struct {
	a      Accessor
	closer interface{ Close() error } // nil when the accessor is borrowed
	opts   options
	log    *log.Logger
	walker *Walker
}

// Open maps the hive at path and owns it until Close.
//
// Value payloads are read without copying; the decoder converts them before
// the mapping can go away.
func Open(path string, opts ...Option) (*Excavator, error) {
	r, err := reader.Open(path, types.OpenOptions{Tolerant: true, ZeroCopy: true})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	e := New(r, opts...)
	e.closer = r

	info := r.Info()
	e.log.Debug("hive opened",
		"path", path,
		"name", info.FileName,
		"version", fmt.Sprintf("%d.%d", info.MajorVersion, info.MinorVersion),
		"sequence", fmt.Sprintf("%d/%d", info.PrimarySequence, info.SecondarySequence),
		"last_write", info.LastWrite.UTC().Format(time.RFC3339),
	)
	if info.PrimarySequence != info.SecondarySequence {
		e.log.Warn("hive is dirty, transaction logs were not replayed", "path", path)
	}
	return e, nil
}

// New wraps an accessor the caller keeps ownership of.
func New(a Accessor, opts ...Option) *Excavator {
	o := buildOptions(opts)
	return &Excavator{
		a:      a,
		opts:   o,
		log:    o.logger,
		walker: newWalker(a, o),
	}
}

// DisplayStore emits the header line naming the root key.
func (e *Excavator) DisplayStore() error {
	root, err := e.a.Root()
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	name, err := e.a.KeyName(root)
	if err != nil {
		e.log.Warn("root name unreadable", "node", uint32(root), "err", err)
	}
	err = e.opts.sink.Emit(Line{
		Kind:   KindStore,
		Name:   name,
		ID:     uint32(root),
		Indent: e.opts.indent,
	})
	if err != nil {
		err = fmt.Errorf("emit store: %w", err)
	}
	if f, ok := e.opts.sink.(flusher); ok {
		err = errors.Join(err, f.Flush())
	}
	return err
}

// DisplayTree emits every key and value below the root.
func (e *Excavator) DisplayTree() error {
	root, err := e.a.Root()
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	if err := e.walker.Walk(root); err != nil {
		return err
	}
	st := e.walker.Stats()
	e.log.Debug("tree rendered", "nodes", st.Nodes, "values", st.Values)
	return nil
}

// Display emits the header line and then the tree.
func (e *Excavator) Display() error {
	if err := e.DisplayStore(); err != nil {
		return err
	}
	return e.DisplayTree()
}

// Stats reports what the last DisplayTree emitted.
func (e *Excavator) Stats() Stats {
	return e.walker.Stats()
}

// Close releases the hive when Open created it. Borrowed accessors are left
// alone. Close is safe to call more than once.
func (e *Excavator) Close() error {
	if e.closer == nil {
		return nil
	}
	c := e.closer
	e.closer = nil
	return c.Close()
}
