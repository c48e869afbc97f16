package uml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func method(name, params string) Member {
	return Member{Kind: MemberMethod, Name: name, Parameters: params, Visibility: Public}
}

func field(name, typ string) Member {
	return Member{Kind: MemberField, Name: name, Type: typ, Visibility: Private}
}

func TestMerge_PartialDeclarations(t *testing.T) {
	first := Entity{Name: "Order", Kind: KindClass, Members: []Member{method("Total", ""), field("items", "List")}, Source: "a.cs"}
	second := Entity{Name: "Order", Kind: KindClass, Members: []Member{method("Total", ""), method("Add", "item: Item")}, Implements: []string{"IOrder"}, Source: "b.cs"}

	got := Merge([]Entity{first, second})
	require.Len(t, got, 1)
	assert.Equal(t, "a.cs", got[0].Source)
	assert.Equal(t, []Member{method("Total", ""), field("items", "List"), method("Add", "item: Item")}, got[0].Members)
	assert.Equal(t, []string{"IOrder"}, got[0].Implements)
}

func TestMerge_OrderInsensitiveMemberSet(t *testing.T) {
	a := Entity{Name: "Cart", Kind: KindClass, Members: []Member{method("Add", "x: int"), field("count", "int")}}
	b := Entity{Name: "Cart", Kind: KindClass, Members: []Member{method("Remove", "x: int"), method("Add", "x: int")}}

	ab := Merge([]Entity{a, b})
	ba := Merge([]Entity{b, a})
	require.Len(t, ab, 1)
	require.Len(t, ba, 1)
	assert.ElementsMatch(t, ab[0].Members, ba[0].Members)
	assert.Len(t, ab[0].Members, 3)
}

func TestMerge_OverloadsAreDistinct(t *testing.T) {
	e := Entity{Name: "Calc", Kind: KindClass, Members: []Member{method("Add", "a: int"), method("Add", "a: double"), method("Add", "a: int")}}
	got := Merge([]Entity{e})
	require.Len(t, got, 1)
	assert.Len(t, got[0].Members, 2)
}

func TestMerge_GenericNamesShareKey(t *testing.T) {
	got := Merge([]Entity{
		{Name: "Repo<T>", Kind: KindClass},
		{Name: "Widget", Kind: KindClass},
		{Name: "Repo<T>", Kind: KindClass, Inherits: []string{"Base"}},
		{Name: "Repo", Kind: KindClass, Inherits: []string{"Base", "Other"}},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "Repo<T>", got[0].Name)
	assert.Equal(t, "Widget", got[1].Name)
	assert.Equal(t, []string{"Base", "Other"}, got[0].Inherits)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	in := []Entity{
		{Name: "A", Kind: KindClass, Members: []Member{method("X", "")}},
		{Name: "A", Kind: KindClass, Members: []Member{method("Y", "")}},
	}
	_ = Merge(in)
	assert.Len(t, in[0].Members, 1)
	assert.Len(t, in[1].Members, 1)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil))
}
