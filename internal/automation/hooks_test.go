package automation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dadihu123/ST-Manager/internal/logging"
)

type fakeConfig struct{ active string }

func (f fakeConfig) ActiveRuleset() string { return f.active }

type fakeRulesets struct{ sets map[string]Ruleset }

func (f fakeRulesets) Ruleset(id string) (Ruleset, bool) {
	r, ok := f.sets[id]
	return r, ok
}

type fakeEvaluator struct {
	actions     []RuleAction
	err         error
	panics      bool
	gotContext  CardContext
	gotMatchAll bool
}

func (f *fakeEvaluator) Evaluate(ctx CardContext, ruleset Ruleset, matchIfNoConditions bool) (Evaluation, error) {
	if f.panics {
		panic("evaluator exploded")
	}
	f.gotContext = ctx
	f.gotMatchAll = matchIfNoConditions
	return Evaluation{Actions: f.actions}, f.err
}

type fakeCards struct{ cards map[string]map[string]interface{} }

func (f fakeCards) Card(id string) (map[string]interface{}, bool) {
	c, ok := f.cards[id]
	return c, ok
}

type fakeUI struct {
	keys map[string]string
	data UIData
}

func (f fakeUI) ResolveKey(cardID string) string { return f.keys[cardID] }
func (f fakeUI) Load() UIData                    { return f.data }

type fakeExecutor struct {
	calls   int
	gotCard string
	gotPlan *ExecutionPlan
	gotUI   UIData
	result  map[string]interface{}
	err     error
}

func (f *fakeExecutor) ApplyPlan(cardID string, plan *ExecutionPlan, uiData UIData) (map[string]interface{}, error) {
	f.calls++
	f.gotCard = cardID
	f.gotPlan = plan
	f.gotUI = uiData
	return f.result, f.err
}

type hookFixture struct {
	hooks    *Hooks
	eval     *fakeEvaluator
	executor *fakeExecutor
}

func newFixture(actions []RuleAction) *hookFixture {
	eval := &fakeEvaluator{actions: actions}
	executor := &fakeExecutor{result: map[string]interface{}{"moved": true}}

	hooks := NewHooks(
		fakeConfig{active: "rs-1"},
		fakeRulesets{sets: map[string]Ruleset{"rs-1": "ruleset"}},
		eval,
		fakeCards{cards: map[string]map[string]interface{}{
			"card-1": {"name": "示例卡", "source_url": "https://naobaijin.app/t/1"},
		}},
		fakeUI{
			keys: map[string]string{"card-1": "ui-key-1"},
			data: UIData{"ui-key-1": {"summary": "一张示例卡"}},
		},
		executor,
		logging.NewNop(),
		nil,
	)

	return &hookFixture{hooks: hooks, eval: eval, executor: executor}
}

func TestImportHookDisabledWithoutActiveRuleset(t *testing.T) {
	f := newFixture(nil)
	f.hooks.config = fakeConfig{}

	assert.Nil(t, f.hooks.AutoRunRulesOnCard("card-1"))
	assert.Zero(t, f.executor.calls)
}

func TestImportHookMissingRuleset(t *testing.T) {
	f := newFixture(nil)
	f.hooks.rulesets = fakeRulesets{}

	assert.Nil(t, f.hooks.AutoRunRulesOnCard("card-1"))
	assert.Zero(t, f.executor.calls)
}

func TestImportHookMissingCard(t *testing.T) {
	f := newFixture([]RuleAction{{Type: ActionAddTag, Value: "x"}})

	assert.Nil(t, f.hooks.AutoRunRulesOnCard("card-unknown"))
	assert.Zero(t, f.executor.calls)
}

func TestImportHookAssemblesContext(t *testing.T) {
	f := newFixture([]RuleAction{{Type: ActionAddTag, Value: "x"}})

	result := f.hooks.AutoRunRulesOnCard("card-1")

	require.NotNil(t, result)
	assert.True(t, f.eval.gotMatchAll, "unconditional rules must fire on auto-run")
	assert.Equal(t, "示例卡", f.eval.gotContext["name"])
	assert.Equal(t, "一张示例卡", f.eval.gotContext["ui_summary"])
}

func TestImportHookNoActions(t *testing.T) {
	f := newFixture(nil)

	result := f.hooks.AutoRunRulesOnCard("card-1")

	require.NotNil(t, result)
	assert.Equal(t, &HookResult{Run: true, Actions: 0}, result)
	assert.Zero(t, f.executor.calls)
}

func TestImportHookBuildsAndExecutesPlan(t *testing.T) {
	f := newFixture([]RuleAction{
		{Type: ActionMoveFolder, Value: "folder-9"},
		{Type: ActionAddTag, Value: "恋爱"},
		{Type: ActionRemoveTag, Value: "其他"},
		{Type: ActionSetFavorite, Value: "true"},
		{Type: ActionFetchForumTags, Value: map[string]interface{}{}},
	})

	result := f.hooks.AutoRunRulesOnCard("card-1")

	require.NotNil(t, result)
	assert.True(t, result.Run)
	assert.Equal(t, map[string]interface{}{"moved": true}, result.Result)

	require.Equal(t, 1, f.executor.calls)
	assert.Equal(t, "card-1", f.executor.gotCard)

	plan := f.executor.gotPlan
	require.NotNil(t, plan.Move)
	assert.Equal(t, "folder-9", *plan.Move)
	assert.Contains(t, plan.AddTags, "恋爱")
	assert.Contains(t, plan.RemoveTags, "其他")
	require.NotNil(t, plan.Favorite)
	assert.True(t, *plan.Favorite)
	// Forum tag fetching is deferred to the link-update trigger: a freshly
	// imported card has no source URL yet.
	assert.Nil(t, plan.FetchForumTags)
}

func TestImportHookFetchOnlyRulesetYieldsEmptyPlan(t *testing.T) {
	f := newFixture([]RuleAction{
		{Type: ActionFetchForumTags, Value: map[string]interface{}{}},
	})

	result := f.hooks.AutoRunRulesOnCard("card-1")

	require.NotNil(t, result)
	require.Equal(t, 1, f.executor.calls)
	assert.True(t, f.executor.gotPlan.Empty())
}

func TestImportHookEvaluationError(t *testing.T) {
	f := newFixture(nil)
	f.eval.err = errors.New("bad condition")
	f.eval.actions = []RuleAction{{Type: ActionAddTag, Value: "x"}}

	assert.Nil(t, f.hooks.AutoRunRulesOnCard("card-1"))
	assert.Zero(t, f.executor.calls)
}

func TestImportHookExecutorError(t *testing.T) {
	f := newFixture([]RuleAction{{Type: ActionAddTag, Value: "x"}})
	f.executor.err = errors.New("storage unavailable")

	assert.Nil(t, f.hooks.AutoRunRulesOnCard("card-1"))
	assert.Equal(t, 1, f.executor.calls)
}

func TestImportHookRecoversFromPanic(t *testing.T) {
	f := newFixture(nil)
	f.eval.panics = true

	assert.Nil(t, f.hooks.AutoRunRulesOnCard("card-1"))
	assert.Zero(t, f.executor.calls)
}

func TestLinkUpdateHookUsesFirstFetchAction(t *testing.T) {
	f := newFixture([]RuleAction{
		{Type: ActionAddTag, Value: "忽略我"},
		{Type: ActionFetchForumTags, Value: map[string]interface{}{"exclude": []interface{}{"其他"}}},
		{Type: ActionFetchForumTags, Value: map[string]interface{}{}},
	})

	result := f.hooks.AutoRunForumTagsOnLinkUpdate("card-1")

	require.NotNil(t, result)
	assert.True(t, result.Run)

	require.Equal(t, 1, f.executor.calls)
	plan := f.executor.gotPlan
	require.NotNil(t, plan.FetchForumTags)
	assert.Equal(t, []interface{}{"其他"}, plan.FetchForumTags["exclude"])
	assert.Empty(t, plan.AddTags, "link-update hook realizes only fetch_forum_tags")
}

func TestLinkUpdateHookNonMappingValue(t *testing.T) {
	f := newFixture([]RuleAction{
		{Type: ActionFetchForumTags, Value: "not-a-config"},
	})

	result := f.hooks.AutoRunForumTagsOnLinkUpdate("card-1")

	require.NotNil(t, result)
	require.Equal(t, 1, f.executor.calls)
	require.NotNil(t, f.executor.gotPlan.FetchForumTags)
	assert.Empty(t, f.executor.gotPlan.FetchForumTags)
}

func TestLinkUpdateHookNoFetchAction(t *testing.T) {
	f := newFixture([]RuleAction{
		{Type: ActionAddTag, Value: "x"},
	})

	result := f.hooks.AutoRunForumTagsOnLinkUpdate("card-1")

	require.NotNil(t, result)
	assert.Equal(t, &HookResult{Run: true, Actions: 0, Reason: "no_fetch_forum_tags_action"}, result)
	assert.Zero(t, f.executor.calls)
}

func TestLinkUpdateHookNoActions(t *testing.T) {
	f := newFixture(nil)

	result := f.hooks.AutoRunForumTagsOnLinkUpdate("card-1")

	require.NotNil(t, result)
	assert.Equal(t, &HookResult{Run: true, Actions: 0}, result)
	assert.Zero(t, f.executor.calls)
}

func TestLinkUpdateHookPassesUIDataThrough(t *testing.T) {
	f := newFixture([]RuleAction{
		{Type: ActionFetchForumTags, Value: map[string]interface{}{}},
	})

	result := f.hooks.AutoRunForumTagsOnLinkUpdate("card-1")

	require.NotNil(t, result)
	require.Equal(t, 1, f.executor.calls)
	assert.Equal(t, UIData{"ui-key-1": {"summary": "一张示例卡"}}, f.executor.gotUI)
}
