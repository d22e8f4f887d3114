package excavate

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivexcavator/internal/hivetest"
	"github.com/joshuapare/hivexcavator/internal/reader"
	"github.com/joshuapare/hivexcavator/pkg/types"
)

// bcdStore is a small boot configuration store:
//
//	NewStoreRoot
//	  Description           Type=0x20000000 KeyName="BCD00000001"
//	  Objects
//	    {bootmgr}
//	      Elements
//	        12000004        Element="Windows Boot Manager"
//	        25000004        Element=0x1e
//	    {default}
type bcdStore struct {
	root, desc, objects, bootmgr, elements, e1, e2, def *hivetest.Key
	typ, keyName, e1v, e2v                              *hivetest.Value
}

func newBCDStore() *bcdStore {
	s := &bcdStore{
		typ:     hivetest.Dword("Type", 0x20000000),
		keyName: hivetest.String("KeyName", "BCD00000001"),
		e1v:     hivetest.String("Element", "Windows Boot Manager"),
		e2v:     hivetest.Dword("Element", 0x1e),
	}
	s.e1 = &hivetest.Key{Name: "12000004", Values: []*hivetest.Value{s.e1v}}
	s.e2 = &hivetest.Key{Name: "25000004", Values: []*hivetest.Value{s.e2v}}
	s.elements = &hivetest.Key{Name: "Elements", Children: []*hivetest.Key{s.e1, s.e2}}
	s.bootmgr = &hivetest.Key{Name: "{9dea862c-5cdd-4e70-acc1-f32b344d4795}", Children: []*hivetest.Key{s.elements}}
	s.def = &hivetest.Key{Name: "{default}"}
	s.objects = &hivetest.Key{Name: "Objects", Children: []*hivetest.Key{s.bootmgr, s.def}}
	s.desc = &hivetest.Key{Name: "Description", Values: []*hivetest.Value{s.typ, s.keyName}}
	s.root = &hivetest.Key{Name: "NewStoreRoot", Children: []*hivetest.Key{s.desc, s.objects}}
	return s
}

func openStore(t *testing.T, s *bcdStore) (types.Reader, *hivetest.Image) {
	t.Helper()
	img := hivetest.Build(s.root)
	r, err := reader.OpenBytes(img.Bytes, types.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, img
}

func TestWalkRendersPreOrder(t *testing.T) {
	s := newBCDStore()
	r, img := openStore(t, s)

	var c Collector
	w := NewWalker(r, WithSink(&c))
	require.NoError(t, w.Walk(img.Node(s.root)))

	id := func(k *hivetest.Key) uint32 { return uint32(img.Node(k)) }
	vid := func(v *hivetest.Value) uint32 { return uint32(img.Value(v)) }
	want := strings.Join([]string{
		fmt.Sprintf("  Description (%d)", id(s.desc)),
		fmt.Sprintf("    Type: 20000000 (%d)", vid(s.typ)),
		fmt.Sprintf("    KeyName: BCD00000001 (%d)", vid(s.keyName)),
		fmt.Sprintf("  Objects (%d)", id(s.objects)),
		fmt.Sprintf("    {9dea862c-5cdd-4e70-acc1-f32b344d4795} (%d)", id(s.bootmgr)),
		fmt.Sprintf("      Elements (%d)", id(s.elements)),
		fmt.Sprintf("        12000004 (%d)", id(s.e1)),
		fmt.Sprintf("          Element: Windows Boot Manager (%d)", vid(s.e1v)),
		fmt.Sprintf("        25000004 (%d)", id(s.e2)),
		fmt.Sprintf("          Element: 1e (%d)", vid(s.e2v)),
		fmt.Sprintf("    {default} (%d)", id(s.def)),
	}, "\n") + "\n"
	require.Equal(t, want, c.String())
	require.Equal(t, Stats{Nodes: 7, Values: 4}, w.Stats())
}

func TestWalkDepthMatchesParentLinks(t *testing.T) {
	s := newBCDStore()
	r, img := openStore(t, s)

	var c Collector
	require.NoError(t, NewWalker(r, WithSink(&c)).Walk(img.Node(s.root)))

	seen := map[uint32]int{}
	for i, l := range c.Lines {
		if l.Kind != KindNode {
			continue
		}
		n := types.NodeID(l.ID)
		require.Equal(t, Depth(r, n), l.Depth, "line %d", i)

		// Every ancestor below the root was emitted earlier.
		p, err := r.Parent(n)
		require.NoError(t, err)
		if p != img.Node(s.root) {
			_, ok := seen[uint32(p)]
			require.True(t, ok, "parent of %q emitted after it", l.Name)
		}
		seen[l.ID] = i
	}
}

func TestWalkFromSubtree(t *testing.T) {
	s := newBCDStore()
	r, img := openStore(t, s)

	var c Collector
	require.NoError(t, NewWalker(r, WithSink(&c)).Walk(img.Node(s.elements)))
	require.Len(t, c.Lines, 4)
	require.Equal(t, "12000004", c.Lines[0].Name)
	require.Equal(t, 4, c.Lines[0].Depth)
}

func TestWalkRootOnly(t *testing.T) {
	img := hivetest.Build(&hivetest.Key{Name: "NewStoreRoot"})
	r, err := reader.OpenBytes(img.Bytes, types.OpenOptions{})
	require.NoError(t, err)

	var c Collector
	w := NewWalker(r, WithSink(&c))
	root, err := r.Root()
	require.NoError(t, err)
	require.NoError(t, w.Walk(root))
	require.Empty(t, c.Lines)
	require.Equal(t, Stats{}, w.Stats())
}

func TestWalkIdempotent(t *testing.T) {
	s := newBCDStore()
	r, img := openStore(t, s)

	var a, b Collector
	require.NoError(t, NewWalker(r, WithSink(&a)).Walk(img.Node(s.root)))
	require.NoError(t, NewWalker(r, WithSink(&b)).Walk(img.Node(s.root)))
	require.Equal(t, a.String(), b.String())
}

func TestWalkTooDeep(t *testing.T) {
	f := newFakeHive("ROOT")
	parent := types.NodeID(1)
	for i := 2; i <= 10; i++ {
		parent = f.addKey(parent, types.NodeID(i), fmt.Sprintf("k%d", i))
	}

	var c Collector
	err := NewWalker(f, WithSink(&c), WithMaxDepth(5)).Walk(1)
	require.ErrorIs(t, err, ErrTooDeep)
	require.Contains(t, err.Error(), "node 7")
	require.Len(t, c.Lines, 5)

	c.Reset()
	require.NoError(t, NewWalker(f, WithSink(&c), WithMaxDepth(9)).Walk(1))
	require.Len(t, c.Lines, 9)
}

func TestWalkTooDeepFlushesEmittedLines(t *testing.T) {
	f := newFakeHive("ROOT")
	parent := types.NodeID(1)
	for i := 2; i <= 10; i++ {
		parent = f.addKey(parent, types.NodeID(i), fmt.Sprintf("k%d", i))
	}

	var out bytes.Buffer
	e := New(f, WithSink(NewTextSink(&out, nil)), WithMaxDepth(5))
	err := e.Display()
	require.ErrorIs(t, err, ErrTooDeep)

	want := "ROOT (1)\n" +
		"  k2 (2)\n" +
		"    k3 (3)\n" +
		"      k4 (4)\n" +
		"        k5 (5)\n" +
		"          k6 (6)\n"
	require.Equal(t, want, out.String())
}

func TestWalkSinkErrorFlushesEmittedLines(t *testing.T) {
	s := newBCDStore()
	r, img := openStore(t, s)

	var out bytes.Buffer
	sink := &limitSink{TextSink: NewTextSink(&out, nil), left: 3}
	err := NewWalker(r, WithSink(sink)).Walk(img.Node(s.root))
	require.Error(t, err)
	require.Equal(t, 3, strings.Count(out.String(), "\n"))
	require.True(t, strings.HasPrefix(out.String(), "  Description ("), out.String())
}

// limitSink fails once left lines have been written.
type limitSink struct {
	*TextSink
	left int
}

func (s *limitSink) Emit(l Line) error {
	if s.left == 0 {
		return errors.New("sink full")
	}
	s.left--
	return s.TextSink.Emit(l)
}

func TestWalkCycleHitsDepthLimit(t *testing.T) {
	f := newFakeHive("ROOT")
	a := f.addKey(1, 2, "a")
	f.children[a] = []types.NodeID{a}

	err := NewWalker(f, WithSink(&Collector{}), WithMaxDepth(32)).Walk(1)
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestWalkAbsorbsNodeFailures(t *testing.T) {
	f := newFakeHive("ROOT")
	a := f.addKey(1, 2, "a")
	b := f.addKey(1, 3, "b")
	c := f.addKey(1, 4, "c")
	f.addKey(a, 5, "hidden")
	f.addValue(b, 10, "v", types.REG_SZ, []byte("text"))
	f.addValue(c, 11, "ok", types.REG_SZ, []byte("fine"))
	f.values[c] = append(f.values[c], 99) // dangling value handle

	f.failChildren[a] = true
	f.failName[b] = true
	f.failValues[b] = true

	var out Collector
	w := NewWalker(f, WithSink(&out))
	require.NoError(t, w.Walk(1))
	require.Equal(t, "  a (2)\n  (3)\n  c (4)\n    ok: fine (11)\n    :  (99)\n", out.String())
	require.Equal(t, Stats{Nodes: 3, Values: 2}, w.Stats())
}

type errSink struct{ after int }

func (s *errSink) Emit(Line) error {
	if s.after == 0 {
		return errors.New("sink closed")
	}
	s.after--
	return nil
}

func TestWalkStopsOnSinkError(t *testing.T) {
	s := newBCDStore()
	r, img := openStore(t, s)

	err := NewWalker(r, WithSink(&errSink{after: 2})).Walk(img.Node(s.root))
	require.Error(t, err)
	require.Contains(t, err.Error(), "sink closed")
	require.False(t, errors.Is(err, ErrTooDeep))
}

func TestWithIndent(t *testing.T) {
	f := newFakeHive("ROOT")
	a := f.addKey(1, 2, "a")
	f.addValue(a, 10, "k", types.REG_DWORD, []byte{0xff, 0, 0, 0})

	var c Collector
	require.NoError(t, NewWalker(f, WithSink(&c), WithIndent(4)).Walk(1))
	require.Equal(t, "    a (2)\n        k: ff (10)\n", c.String())
}
