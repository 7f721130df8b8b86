package gitfs

import "testing"

func TestBlobSizePrefersLoadedContent(t *testing.T) {
	b := &Blob{name: "a.txt", size: 100}
	if b.Size() != 100 {
		t.Errorf("Size() = %d, want size hint 100", b.Size())
	}

	b.content = []byte("abc")
	b.loaded = true
	if b.Size() != 3 {
		t.Errorf("Size() = %d, want loaded length 3", b.Size())
	}
}

func TestBlobSizeZeroByteLoaded(t *testing.T) {
	b := &Blob{name: "empty", size: 9, content: []byte{}, loaded: true}
	if b.Size() != 0 {
		t.Errorf("Size() = %d, want 0 for a loaded empty file", b.Size())
	}
}

func TestChildSetPreservesOrderAndDedupes(t *testing.T) {
	cs := newChildSet(3)
	cs.add("b", &Blob{name: "b"})
	cs.add("a", &Tree{name: "a"})
	cs.add("b", &Blob{name: "b-dup"})

	if len(cs.names) != 2 {
		t.Fatalf("len(names) = %d, want 2", len(cs.names))
	}
	if cs.names[0] != "b" || cs.names[1] != "a" {
		t.Errorf("names = %v, want [b a]", cs.names)
	}
	if cs.get("b").(*Blob).name != "b" {
		t.Error("duplicate add must not replace the first entry")
	}
}

func TestTreeEntriesProjection(t *testing.T) {
	cs := newChildSet(2)
	cs.add("sub", &Tree{name: "sub", oid: "t1"})
	cs.add("f.go", &Blob{name: "f.go", oid: "b1", size: 7})
	tree := &Tree{name: "root", children: cs}

	entries := tree.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if !entries[0].IsDir || entries[0].Name != "sub" {
		t.Errorf("entries[0] = %+v, want dir sub", entries[0])
	}
	if entries[1].IsDir || entries[1].Size != 7 {
		t.Errorf("entries[1] = %+v, want 7-byte file", entries[1])
	}
}

func TestPopulatedTriState(t *testing.T) {
	tree := &Tree{name: "d"}
	if tree.Populated() {
		t.Error("fresh tree must be unpopulated")
	}
	tree.children = newChildSet(0)
	if !tree.Populated() {
		t.Error("empty childSet must count as populated")
	}
	if len(tree.Entries()) != 0 {
		t.Error("known-empty tree must list zero entries")
	}
}
