package excavate

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/joshuapare/hivexcavator/pkg/types"
)

// ErrTooDeep is returned by Walk when a node lies deeper than the configured
// maximum depth.
var ErrTooDeep = errors.New("excavate: tree exceeds maximum depth")

// Stats counts what the last walk emitted.
type Stats struct {
	Nodes  int
	Values int
}

// Walker renders the subtree below a node, one Line per key and value.
type Walker struct {
	a     Accessor
	dec   *Decoder
	sink  Sink
	log   *log.Logger
	max   int
	ind   int
	stats Stats
}

// NewWalker returns a walker reading through a.
func NewWalker(a Accessor, opts ...Option) *Walker {
	o := buildOptions(opts)
	return newWalker(a, o)
}

func newWalker(a Accessor, o options) *Walker {
	return &Walker{
		a:    a,
		dec:  NewDecoder(a, o.logger),
		sink: o.sink,
		log:  o.logger,
		max:  o.maxDepth,
		ind:  o.indent,
	}
}

type frame struct {
	id    types.NodeID
	depth int
}

// Walk emits every node below start in pre-order, each followed by its
// values. start itself is not emitted. Children keep accessor order.
//
// Failures reading a single node are logged and skipped. Walk returns an
// error only when the sink fails or the tree is deeper than the maximum
// depth (ErrTooDeep). Lines emitted before an error are flushed.
func (w *Walker) Walk(start types.NodeID) (err error) {
	w.stats = Stats{}
	defer func() {
		if ferr := w.flush(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	stack := w.push(nil, start, Depth(w.a, start)+1)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > w.max {
			return fmt.Errorf("node %d at depth %d: %w", uint32(f.id), f.depth, ErrTooDeep)
		}
		if err := w.node(f); err != nil {
			return err
		}
		stack = w.push(stack, f.id, f.depth+1)
	}
	return nil
}

// Stats reports what the last Walk emitted.
func (w *Walker) Stats() Stats {
	return w.stats
}

// push appends the children of parent in reverse so they pop in order.
func (w *Walker) push(stack []frame, parent types.NodeID, depth int) []frame {
	kids, err := w.a.Subkeys(parent)
	if err != nil {
		w.log.Warn("subkeys unreadable", "node", uint32(parent), "err", err)
		return stack
	}
	for i := len(kids) - 1; i >= 0; i-- {
		stack = append(stack, frame{id: kids[i], depth: depth})
	}
	return stack
}

func (w *Walker) node(f frame) error {
	name, err := w.a.KeyName(f.id)
	if err != nil {
		w.log.Warn("key name unreadable", "node", uint32(f.id), "err", err)
	}
	if err := w.sink.Emit(Line{
		Kind:   KindNode,
		Depth:  f.depth,
		Name:   name,
		ID:     uint32(f.id),
		Indent: w.ind,
	}); err != nil {
		return fmt.Errorf("emit node %d: %w", uint32(f.id), err)
	}
	w.stats.Nodes++

	vals, err := w.a.Values(f.id)
	if err != nil {
		w.log.Warn("values unreadable", "node", uint32(f.id), "err", err)
		return nil
	}
	for _, v := range vals {
		key, err := w.a.ValueName(v)
		if err != nil {
			w.log.Warn("value name unreadable", "value", uint32(v), "err", err)
		}
		if err := w.sink.Emit(Line{
			Kind:   KindValue,
			Depth:  f.depth,
			Name:   key,
			Text:   w.dec.Decode(v),
			ID:     uint32(v),
			Indent: w.ind,
		}); err != nil {
			return fmt.Errorf("emit value %d: %w", uint32(v), err)
		}
		w.stats.Values++
	}
	return nil
}

func (w *Walker) flush() error {
	if f, ok := w.sink.(flusher); ok {
		return f.Flush()
	}
	return nil
}
