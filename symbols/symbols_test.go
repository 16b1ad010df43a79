package symbols

import "testing"

func define(t *testing.T, table *Table, name, typ string, kind Kind) Entry {
	t.Helper()
	entry, err := table.Define(name, typ, kind)
	if err != nil {
		t.Fatalf("Define(%q) error = %v", name, err)
	}
	return entry
}

func TestDefineDenseIndices(t *testing.T) {
	table := New()
	define(t, table, "count", "int", STATIC)
	define(t, table, "x", "int", FIELD)
	define(t, table, "y", "int", FIELD)
	define(t, table, "instances", "int", STATIC)
	define(t, table, "name", "String", FIELD)

	for _, kind := range []Kind{STATIC, FIELD} {
		seen := map[int]bool{}
		for _, entry := range table.Class.Entries() {
			if entry.Kind != kind {
				continue
			}
			if seen[entry.Index] {
				t.Errorf("%s index %d assigned twice", kind, entry.Index)
			}
			seen[entry.Index] = true
		}
		for i := 0; i < table.VarCount(kind); i++ {
			if !seen[i] {
				t.Errorf("%s index %d missing", kind, i)
			}
		}
	}

	if got := table.VarCount(FIELD); got != 3 {
		t.Errorf("VarCount(FIELD) = %d, want 3", got)
	}
	if got := table.IndexOf("name"); got != 2 {
		t.Errorf("IndexOf(name) = %d, want 2", got)
	}
}

func TestStartSubroutineResetsOnlySubroutineScope(t *testing.T) {
	table := New()
	define(t, table, "size", "int", FIELD)
	define(t, table, "this", "Point", ARG)
	define(t, table, "dx", "int", ARG)
	define(t, table, "i", "int", VAR)

	if got := table.IndexOf("dx"); got != 1 {
		t.Errorf("IndexOf(dx) = %d, want 1", got)
	}

	table.StartSubroutine()

	if _, ok := table.Lookup("dx"); ok {
		t.Error("dx still visible after StartSubroutine")
	}
	if got := table.VarCount(ARG); got != 0 {
		t.Errorf("VarCount(ARG) = %d, want 0", got)
	}
	if got := table.KindOf("size"); got != FIELD {
		t.Errorf("KindOf(size) = %q, want field", got)
	}

	entry := define(t, table, "n", "int", ARG)
	if entry.Index != 0 {
		t.Errorf("first argument index = %d, want 0", entry.Index)
	}
}

func TestLookupShadowing(t *testing.T) {
	table := New()
	define(t, table, "x", "int", FIELD)
	define(t, table, "x", "boolean", VAR)

	entry, ok := table.Lookup("x")
	if !ok {
		t.Fatal("x not found")
	}
	if entry.Kind != VAR || entry.Type != "boolean" {
		t.Errorf("Lookup(x) = %+v, want the local", entry)
	}

	if kind := table.KindOf("missing"); kind != NONE {
		t.Errorf("KindOf(missing) = %q, want NONE", kind)
	}
	if idx := table.IndexOf("missing"); idx != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", idx)
	}
}

func TestDefineErrors(t *testing.T) {
	table := New()
	define(t, table, "a", "int", VAR)

	if _, err := table.Define("a", "int", VAR); err == nil {
		t.Error("redeclaring a local succeeded")
	}
	if _, err := table.Define("b", "int", NONE); err == nil {
		t.Error("defining with NONE kind succeeded")
	}
}
