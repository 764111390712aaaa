package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatches(t *testing.T) {
	doc := Metadata{Company: "Acme", Type: "ESG", AddedAt: time.Now()}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"Zero", Filter{}, true},
		{"CompanyMatch", Filter{Company: "Acme"}, true},
		{"CompanyMismatch", Filter{Company: "Globex"}, false},
		{"TypeMatch", Filter{Type: "ESG"}, true},
		{"TypeMismatch", Filter{Type: "Conduct"}, false},
		{"BothMatch", Filter{Company: "Acme", Type: "ESG"}, true},
		{"PartialMismatch", Filter{Company: "Acme", Type: "Conduct"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(doc))
		})
	}
}

func TestIndex(t *testing.T) {
	t.Run("Candidates", func(t *testing.T) {
		ix := NewIndex()
		ix.Add(0, Metadata{Company: "Acme", Type: "ESG"})
		ix.Add(1, Metadata{Company: "Acme", Type: "Conduct"})
		ix.Add(2, Metadata{Company: "Globex", Type: "ESG"})

		bm := ix.Candidates(Filter{Company: "Acme"})
		require.NotNil(t, bm)
		assert.ElementsMatch(t, []uint32{0, 1}, bm.ToArray())

		bm = ix.Candidates(Filter{Company: "Acme", Type: "ESG"})
		require.NotNil(t, bm)
		assert.ElementsMatch(t, []uint32{0}, bm.ToArray())

		assert.Nil(t, ix.Candidates(Filter{}))
	})

	t.Run("UnknownValueMatchesNothing", func(t *testing.T) {
		ix := NewIndex()
		ix.Add(0, Metadata{Company: "Acme", Type: "ESG"})

		bm := ix.Candidates(Filter{Company: "Initech"})
		require.NotNil(t, bm)
		assert.True(t, bm.IsEmpty())
	})

	t.Run("Remove", func(t *testing.T) {
		ix := NewIndex()
		meta := Metadata{Company: "Acme", Type: "ESG"}
		ix.Add(0, meta)
		ix.Add(1, meta)

		ix.Remove(0, meta)
		bm := ix.Candidates(Filter{Company: "Acme"})
		assert.ElementsMatch(t, []uint32{1}, bm.ToArray())

		ix.Remove(1, meta)
		assert.Empty(t, ix.Companies())
	})

	t.Run("Inventories", func(t *testing.T) {
		ix := NewIndex()
		ix.Add(0, Metadata{Company: "Globex", Type: "Mission"})
		ix.Add(1, Metadata{Company: "Acme", Type: "ESG"})
		ix.Add(2, Metadata{Company: "Acme", Type: "Conduct"})

		assert.Equal(t, []string{"Acme", "Globex"}, ix.Companies())
		assert.Equal(t, []string{"Conduct", "ESG", "Mission"}, ix.Types())
	})

	t.Run("Clear", func(t *testing.T) {
		ix := NewIndex()
		ix.Add(0, Metadata{Company: "Acme", Type: "ESG"})
		ix.Clear()
		assert.Empty(t, ix.Companies())
		assert.Empty(t, ix.Types())
	})
}
