package frontend

type reservedItem struct {
	val string
	typ itemType
}

// rw contains the set of all reserved listing keywords.
// The first dimension equals the length of the word.
// The second dimension is the slice of all words of that length.
// Indexing by length and searching should be faster than using a hash table.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{},
	// Three-grams
	{
		{val: "use", typ: itemUse},
		{val: "any", typ: itemAny},
	},
	// Four-grams
	{
		{val: "call", typ: itemCall},
		{val: "heap", typ: itemHeap},
	},
	// Five-grams
	{
		{val: "stack", typ: itemStack},
	},
	// Six-grams
	{},
	// Seven-grams
	{
		{val: "declare", typ: itemDeclare},
		{val: "destroy", typ: itemDestroy},
	},
	// Eight-grams
	{
		{val: "argument", typ: itemArgument},
		{val: "stack_at", typ: itemStackAt},
	},
}

// isKeyword returns true if the string s is a reserved listing keyword.
// On the return of true the itemType of the keyword is returned.
// On the return of false the itemType is either itemIdentifier or itemError.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 {
		return false, itemError
	}
	if len(s) > len(rw) {
		return false, itemIdentifier
	}
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, itemIdentifier
}

// isName returns true for item types that can be used as a name. Keywords are not reserved in name position.
func isName(typ itemType) bool {
	return typ == itemIdentifier || (typ >= itemDeclare && typ <= itemAny)
}
