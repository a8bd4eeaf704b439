package automation

// Rule action types recognized by the plan builder. Any other type passes
// through the evaluator opaquely and is ignored here.
const (
	ActionMoveFolder     = "move_folder"
	ActionAddTag         = "add_tag"
	ActionRemoveTag      = "remove_tag"
	ActionSetFavorite    = "set_favorite"
	ActionFetchForumTags = "fetch_forum_tags"
)

// RuleAction is one evaluated rule action. Value is opaque except for the
// recognized types above.
type RuleAction struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Evaluation is the outcome of evaluating a ruleset against a card context.
type Evaluation struct {
	Actions []RuleAction `json:"actions"`
}

// CardContext is the read-only projection of a card handed to the rule
// evaluator: the card's fields plus a derived "ui_summary" entry. Assembled
// per invocation and never mutated by this package.
type CardContext map[string]interface{}

// Ruleset is opaque to this package; only the evaluator interprets it.
type Ruleset interface{}

// UIData is the UI-data store content keyed by resolved UI key.
type UIData map[string]map[string]interface{}

// ExecutionPlan is the concrete per-card plan handed to the executor.
// Built fresh per invocation and never reused across cards.
type ExecutionPlan struct {
	Move           *string
	AddTags        map[string]struct{}
	RemoveTags     map[string]struct{}
	Favorite       *bool
	FetchForumTags map[string]interface{}
}

// NewExecutionPlan returns an empty plan with initialized tag sets.
func NewExecutionPlan() *ExecutionPlan {
	return &ExecutionPlan{
		AddTags:    make(map[string]struct{}),
		RemoveTags: make(map[string]struct{}),
	}
}

// Empty reports whether the plan carries no effective action.
func (p *ExecutionPlan) Empty() bool {
	return p.Move == nil &&
		len(p.AddTags) == 0 &&
		len(p.RemoveTags) == 0 &&
		p.Favorite == nil &&
		p.FetchForumTags == nil
}

// HookResult summarizes one automation hook run. A nil *HookResult means the
// hook did not run to completion (automation disabled, card missing, or an
// internal failure that was logged and swallowed).
type HookResult struct {
	Run     bool                   `json:"run"`
	Actions int                    `json:"actions"`
	Reason  string                 `json:"reason,omitempty"`
	Result  map[string]interface{} `json:"result,omitempty"`
}

// ConfigStore exposes the automation configuration.
type ConfigStore interface {
	// ActiveRuleset returns the id of the globally active ruleset, or ""
	// when automation is disabled.
	ActiveRuleset() string
}

// RulesetStore resolves rulesets by id.
type RulesetStore interface {
	Ruleset(id string) (Ruleset, bool)
}

// Evaluator runs rule matching against a card context. When
// matchIfNoConditions is true, rules without conditions fire unconditionally.
type Evaluator interface {
	Evaluate(ctx CardContext, ruleset Ruleset, matchIfNoConditions bool) (Evaluation, error)
}

// CardCache looks cards up by id.
//
// Contract: the caller of a hook must have made the card visible in the cache
// before invoking it. Hooks do not retry or wait on a miss.
type CardCache interface {
	Card(id string) (map[string]interface{}, bool)
}

// UIStore resolves per-card UI keys and loads the UI-data store.
type UIStore interface {
	ResolveKey(cardID string) string
	Load() UIData
}

// Executor applies an execution plan to persisted card state.
type Executor interface {
	ApplyPlan(cardID string, plan *ExecutionPlan, uiData UIData) (map[string]interface{}, error)
}
