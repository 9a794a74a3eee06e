package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Structure(t *testing.T) {
	tax := Default()

	assert.Len(t, tax.Categories(), 11)
	assert.Equal(t, "Moradia", tax.Categories()[0])
	assert.Equal(t, []string{"Residencial", "Comercial"}, tax.Leaves("Moradia", "Aluguel"))
	assert.Empty(t, tax.Leaves("Moradia", "Internet"))
	assert.Nil(t, tax.Subcategories("Nope"))
	assert.Nil(t, tax.Leaves("Nope", "Aluguel"))

	assert.True(t, tax.HasCategory("alimentacao"))
	assert.True(t, tax.HasSubcategory("Alimentacao", "Cantina"))
	assert.False(t, tax.HasSubcategory("Moradia", "Cantina"))
	assert.True(t, tax.HasLeaf("Saude", "Consultas", "Especialista"))
	assert.False(t, tax.HasLeaf("Saude", "Farmacia", "Especialista"))

	kind, ok := tax.KindOf("Salario")
	require.True(t, ok)
	assert.Equal(t, KindIncome, kind)
	kind, _ = tax.KindOf("Lazer")
	assert.Equal(t, KindExpense, kind)
	_, ok = tax.KindOf("Nope")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{"empty name", []Definition{{Name: " "}}},
		{"duplicate sibling", []Definition{{Name: "A"}, {Name: "a"}}},
		{"bad kind", []Definition{{Name: "A", Kind: "asset"}}},
		{"too deep", []Definition{{Name: "A", Children: []Definition{{Name: "B", Children: []Definition{{Name: "C", Children: []Definition{{Name: "D"}}}}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.defs)
			assert.Error(t, err)
		})
	}

	tax, err := New([]Definition{{Name: "A"}})
	require.NoError(t, err)
	kind, _ := tax.KindOf("A")
	assert.Equal(t, KindExpense, kind)
}

func TestNodesAndDefinitions(t *testing.T) {
	tax := MustNew([]Definition{{Name: "Casa", Kind: KindExpense, Children: []Definition{sub("Aluguel Mensal", "Residencial")}}})

	nodes := tax.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, Node{ID: "casa", Name: "Casa", Kind: KindExpense}, nodes[0])
	assert.Equal(t, Node{ID: "casa/aluguel-mensal", Name: "Aluguel Mensal", ParentID: "casa"}, nodes[1])
	assert.Equal(t, "casa/aluguel-mensal/residencial", nodes[2].ID)

	rebuilt := MustNew(tax.Definitions())
	assert.Equal(t, tax.Nodes(), rebuilt.Nodes())
}
