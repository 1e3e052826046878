package catalog

const CategoryGroupMethod = "group"

// groupMethods are modifiers that only exist on tags of a given group.
// They are not part of any fetched catalog.
var groupMethods = map[string][]ModifierDescriptor{
	"post":   {metaMethod("post")},
	"author": {metaMethod("author")},
	"user":   {metaMethod("user")},
	"site": {
		{
			Key:         "query_var",
			Label:       "Query Variable",
			Category:    CategoryGroupMethod,
			Args:        []ArgDescriptor{{Label: "name", Type: "text"}},
			Description: "Reads a query variable of the current request.",
		},
		{
			Key:         "math",
			Label:       "Math",
			Category:    CategoryGroupMethod,
			Args:        []ArgDescriptor{{Label: "expr", Type: "text"}},
			Description: "Evaluates an arithmetic expression.",
		},
	},
}

func metaMethod(group string) ModifierDescriptor {
	return ModifierDescriptor{
		Key:         "meta",
		Label:       "Meta Field",
		Category:    CategoryGroupMethod,
		Args:        []ArgDescriptor{{Label: "key", Type: "text"}},
		Description: "Reads a custom field of the " + group + ".",
	}
}

// reservedModifiers are control flow modifiers: valid when typed, never suggested.
var reservedModifiers = []ModifierDescriptor{
	{
		Key:         "then",
		Label:       "Then",
		Category:    "control",
		Args:        []ArgDescriptor{{Label: "value", Type: "text"}},
		Description: "Value used when the tag resolves to something truthy.",
	},
	{
		Key:         "else",
		Label:       "Else",
		Category:    "control",
		Args:        []ArgDescriptor{{Label: "value", Type: "text"}},
		Description: "Value used when the tag resolves to nothing.",
	},
}

// GroupMethods returns a copy of the synthetic modifiers contributed by group.
func GroupMethods(group string) []ModifierDescriptor {
	methods := groupMethods[group]
	if len(methods) == 0 {
		return nil
	}
	return append([]ModifierDescriptor(nil), methods...)
}

// ReservedKeys lists modifier keys that are excluded from suggestion lists.
func ReservedKeys() []string {
	keys := make([]string, len(reservedModifiers))
	for i, m := range reservedModifiers {
		keys[i] = m.Key
	}
	return keys
}

// IsReserved reports whether key is a control flow modifier.
func IsReserved(key string) bool {
	for _, m := range reservedModifiers {
		if m.Key == key {
			return true
		}
	}
	return false
}
