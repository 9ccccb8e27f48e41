package testprogram_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/testprogram"
)

func TestDescriptionsParsesOneEntryPerArchiveFile(t *testing.T) {
	archive := []byte(`comment ignored by txtar
-- generic-impl-unique --
Int: Eq<Int> resolves uniquely; Int: Eq<Uint> has no impl.
-- exists-with-definite-guidance --
exists<T> { T: Display, T: Debug } merges to one shared shape.
`)
	got := testprogram.Descriptions(archive)

	want := map[string]string{
		"generic-impl-unique":           "Int: Eq<Int> resolves uniquely; Int: Eq<Uint> has no impl.",
		"exists-with-definite-guidance": "exists<T> { T: Display, T: Debug } merges to one shared shape.",
	}
	if len(got) != len(want) {
		t.Fatalf("want %d entries, got %d: %+v", len(want), len(got), got)
	}
	for name, desc := range want {
		if got[name] != desc {
			t.Errorf("entry %q: got %q, want %q", name, got[name], desc)
		}
	}
}

func TestDescriptionsEmptyArchiveYieldsEmptyMap(t *testing.T) {
	got := testprogram.Descriptions([]byte(""))
	if len(got) != 0 {
		t.Fatalf("want no entries for an empty archive, got %+v", got)
	}
}
