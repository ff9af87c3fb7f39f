package wm

import (
	"testing"

	"github.com/ruisapp-go/ruisapp/event"
)

func TestKeyTableLookup(t *testing.T) {
	var table KeyTable
	table[38] = "a"
	if got := table.Lookup(38); got != "a" {
		t.Fatalf("Lookup(38) = %v, want a", got)
	}
	if got := table.Lookup(39); got != event.Unknown {
		t.Fatalf("Lookup(39) = %v, want Unknown for an unlisted code", got)
	}
	if got := table.Lookup(-1); got != event.Unknown {
		t.Fatalf("Lookup(-1) = %v, want Unknown", got)
	}
	if got := table.Lookup(256); got != event.Unknown {
		t.Fatalf("Lookup(256) = %v, want Unknown", got)
	}
}
