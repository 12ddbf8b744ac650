package urlbar

// ActionKind identifies the type of a tagged Action.
type ActionKind string

// Action is a tagged value describing what happens when a result is
// picked. Providers define their own action types and resolve them in
// OnPick.
type Action interface {
	Kind() ActionKind
}

// ActionsResult is a single quick action offered in the address bar
// dropdown.
type ActionsResult struct {
	// ProviderName is the provider that produced the result. The Manager
	// fills it in when it is left empty.
	ProviderName string

	// Key identifies the result among results of the same provider.
	Key string

	// Icon is the icon reference shown next to the result.
	Icon string

	// L10nID is the localization id of the result label.
	L10nID string

	// L10nArgs are the substitution arguments for L10nID.
	L10nArgs map[string]string

	// Dataset holds extra rendering attributes, e.g. "color".
	Dataset map[string]string

	// Action is resolved by the provider when the result is picked.
	Action Action
}
