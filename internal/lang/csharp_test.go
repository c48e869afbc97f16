package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

func parseSource(t *testing.T, l Language, name, src string) []uml.Entity {
	t.Helper()
	fe, err := ForLanguage(l)
	require.NoError(t, err)
	return fe.Parse([]uml.SourceUnit{{Name: name, Content: src}})
}

func memberNames(e uml.Entity) []string {
	names := make([]string, 0, len(e.Members))
	for _, m := range e.Members {
		names = append(names, m.Name)
	}
	return names
}

func entityNames(entities []uml.Entity) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}
	return names
}

const csharpOrder = `
namespace Shop
{
    [Serializable]
    public class Order : BaseEntity, IOrder
    {
        private readonly List<Item> _items = new List<Item>();
        public int Id { get; set; }
        protected internal string Note { get; private set; } = "n/a";
        public decimal Total => _items.Sum(i => i.Price);

        public Order(int id) : base(id)
        {
            Id = id;
        }

        public void Add(Item item, int quantity = 1)
        {
            if (item == null) { throw new ArgumentNullException(nameof(item)); }
            _items.Add(item);
        }

        internal static Order Empty() => new Order(0);
    }
}
`

func TestCSharp_ClassMembers(t *testing.T) {
	entities := parseSource(t, CSharp, "Order.cs", csharpOrder)
	require.Len(t, entities, 1)

	order := entities[0]
	assert.Equal(t, "Order", order.Name)
	assert.Equal(t, uml.KindClass, order.Kind)
	assert.Equal(t, "Order.cs", order.Source)
	assert.Equal(t, []string{"BaseEntity"}, order.Inherits)
	assert.Equal(t, []string{"IOrder"}, order.Implements)

	assert.Equal(t, []uml.Member{
		{Kind: uml.MemberProperty, Name: "Id", Type: "int", Visibility: uml.Public},
		{Kind: uml.MemberProperty, Name: "Note", Type: "string", Visibility: uml.Protected},
		{Kind: uml.MemberProperty, Name: "Total", Type: "decimal", Visibility: uml.Public},
		{Kind: uml.MemberMethod, Name: "Add", ReturnType: "void", Parameters: "item: Item, quantity: int", Visibility: uml.Public},
		{Kind: uml.MemberMethod, Name: "Empty", ReturnType: "Order", Visibility: uml.Internal},
		{Kind: uml.MemberMethod, Name: "Order", Parameters: "id: int", Visibility: uml.Public},
		{Kind: uml.MemberField, Name: "_items", Type: "List<Item>", Visibility: uml.Private},
	}, order.Members)
}

const csharpKinds = `
#region Contracts
public interface IRepository<T> where T : class
{
    T Find(int id);
    void Save(T entity);
}
#endregion

public record Person(string Name, int Age);

public record struct Point(int X, int Y)
{
    public double Length() => 0;
}

public class UserRepository : IRepository<User>, IDisposable
{
    public User Find(int id) { return null; }
    public void Save(User entity) { }
    public void Dispose() { }
}
`

func TestCSharp_Kinds(t *testing.T) {
	entities := parseSource(t, CSharp, "Kinds.cs", csharpKinds)
	require.Equal(t, []string{"IRepository<T>", "Person", "Point", "UserRepository"}, entityNames(entities))

	repo := entities[0]
	assert.Equal(t, uml.KindInterface, repo.Kind)
	assert.Equal(t, []uml.Member{
		{Kind: uml.MemberMethod, Name: "Find", ReturnType: "T", Parameters: "id: int", Visibility: uml.Internal},
		{Kind: uml.MemberMethod, Name: "Save", ReturnType: "void", Parameters: "entity: T", Visibility: uml.Internal},
	}, repo.Members)

	person := entities[1]
	assert.Equal(t, uml.KindRecord, person.Kind)
	assert.Equal(t, []uml.Member{
		{Kind: uml.MemberProperty, Name: "Name", Type: "string", Visibility: uml.Public},
		{Kind: uml.MemberProperty, Name: "Age", Type: "int", Visibility: uml.Public},
	}, person.Members)

	point := entities[2]
	assert.Equal(t, uml.KindRecord, point.Kind)
	assert.Equal(t, []string{"X", "Y", "Length"}, memberNames(point))

	users := entities[3]
	assert.Empty(t, users.Inherits)
	assert.Equal(t, []string{"IRepository<User>", "IDisposable"}, users.Implements)
	assert.Equal(t, []string{"Find", "Save", "Dispose"}, memberNames(users))
}

func TestCSharp_UnmatchedBraceDropsDeclaration(t *testing.T) {
	src := "public class Good { public int X; }\npublic class Broken {\n public int Y;"
	entities := parseSource(t, CSharp, "Broken.cs", src)
	require.Len(t, entities, 1)
	assert.Equal(t, "Good", entities[0].Name)
	assert.Equal(t, []uml.Member{
		{Kind: uml.MemberField, Name: "X", Type: "int", Visibility: uml.Public},
	}, entities[0].Members)
}

func TestCSharp_NestedTypesStayInside(t *testing.T) {
	src := `
public class Outer
{
    public int A { get; set; }
    private class Inner
    {
        public int B { get; set; }
    }
}
public class After { }
`
	entities := parseSource(t, CSharp, "Outer.cs", src)
	require.Equal(t, []string{"Outer", "After"}, entityNames(entities))
	assert.Equal(t, []string{"A"}, memberNames(entities[0]))
	assert.Empty(t, entities[1].Members)
}

func TestCSharp_CommentsAndStringsIgnored(t *testing.T) {
	src := `
public class Text
{
    // public int Hidden { get; set; }
    private string _s = "class Fake { }";
    /* public void Nope() {} */
    public void Run() { var t = '}'; }
}
`
	entities := parseSource(t, CSharp, "Text.cs", src)
	require.Len(t, entities, 1)
	assert.Equal(t, []uml.Member{
		{Kind: uml.MemberMethod, Name: "Run", ReturnType: "void", Visibility: uml.Public},
		{Kind: uml.MemberField, Name: "_s", Type: "string", Visibility: uml.Private},
	}, entities[0].Members)
}

func TestCSharp_SelfInstantiationIsNotAConstructor(t *testing.T) {
	src := `
public sealed class Config
{
    public static readonly Config Default = new Config();
    private Config() { }
}
`
	entities := parseSource(t, CSharp, "Config.cs", src)
	require.Len(t, entities, 1)
	assert.Equal(t, []uml.Member{
		{Kind: uml.MemberMethod, Name: "Config", Visibility: uml.Private},
		{Kind: uml.MemberField, Name: "Default", Type: "Config", Visibility: uml.Public},
	}, entities[0].Members)
}

func TestCSharp_FinalizerIsNotAConstructor(t *testing.T) {
	src := `
public class Pool
{
    public Pool() { }
    ~Pool() { }
    ~ Pool()
    {
    }
}
`
	entities := parseSource(t, CSharp, "Pool.cs", src)
	require.Len(t, entities, 1)
	assert.Equal(t, []uml.Member{
		{Kind: uml.MemberMethod, Name: "Pool", Visibility: uml.Public},
	}, entities[0].Members)
}

func TestClassifyCSharpSupertypes(t *testing.T) {
	tests := []struct {
		clause     string
		inherits   []string
		implements []string
	}{
		{"Base, IFoo, Other", []string{"Base"}, []string{"IFoo", "Other"}},
		{"ItemBase", []string{}, []string{"ItemBase"}},
		{"List<int>, Base", []string{"Base"}, []string{"List<int>"}},
		{"Base(name), IFoo", []string{"Base"}, []string{"IFoo"}},
		{"", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			inherits, implements := classifyCSharpSupertypes(tt.clause)
			assert.Equal(t, tt.inherits, inherits)
			assert.Equal(t, tt.implements, implements)
		})
	}
}
