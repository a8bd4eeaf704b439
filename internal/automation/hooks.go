package automation

import (
	"go.uber.org/zap"

	"github.com/Dadihu123/ST-Manager/internal/infrastructure/monitoring"
	"github.com/Dadihu123/ST-Manager/internal/logging"
)

// Hooks runs rule-driven automation for two triggers: the bulk-import hook
// fired after a card is uploaded, and the link-update hook fired after a
// card's source link changes. Every collaborator is injected; Hooks holds no
// global state.
//
// Failures never propagate to the triggering operation: any error inside a
// hook is logged and converted to a nil result.
type Hooks struct {
	config   ConfigStore
	rulesets RulesetStore
	eval     Evaluator
	cards    CardCache
	ui       UIStore
	executor Executor
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHooks wires the automation hooks. log and metrics may be nil.
func NewHooks(
	config ConfigStore,
	rulesets RulesetStore,
	eval Evaluator,
	cards CardCache,
	ui UIStore,
	executor Executor,
	log *logging.Logger,
	metrics *monitoring.Metrics,
) *Hooks {
	if log == nil {
		log = logging.NewNop()
	}
	return &Hooks{
		config:   config,
		rulesets: rulesets,
		eval:     eval,
		cards:    cards,
		ui:       ui,
		executor: executor,
		log:      log,
		metrics:  metrics,
	}
}

// AutoRunRulesOnCard applies the active ruleset to one card after import.
// All recognized action kinds except fetch_forum_tags are realized; fetching
// forum tags needs a source URL, which a freshly imported card does not have
// yet. Returns nil when automation is disabled, the card is missing, or an
// internal failure occurred.
func (h *Hooks) AutoRunRulesOnCard(cardID string) (result *HookResult) {
	const trigger = "import"
	defer h.recoverHook(trigger, cardID, &result)

	ctx, ruleset, uiData, ok := h.prepare(trigger, cardID)
	if !ok {
		return nil
	}

	evaluation, err := h.eval.Evaluate(ctx, ruleset, true)
	if err != nil {
		h.fail(trigger, cardID, "rule evaluation failed", err)
		return nil
	}
	if len(evaluation.Actions) == 0 {
		h.observe(trigger, "no_actions")
		return &HookResult{Run: true, Actions: 0}
	}

	plan := BuildPlan(evaluation.Actions,
		ActionMoveFolder, ActionAddTag, ActionRemoveTag, ActionSetFavorite)

	res, err := h.executor.ApplyPlan(cardID, plan, uiData)
	if err != nil {
		h.fail(trigger, cardID, "plan execution failed", err)
		return nil
	}

	h.observe(trigger, "applied")
	h.log.Info("automation applied", zap.String("card_id", cardID), zap.String("trigger", trigger))
	return &HookResult{Run: true, Result: res}
}

// AutoRunForumTagsOnLinkUpdate applies only the first fetch_forum_tags
// action of the active ruleset after a card's source link was updated.
// Returns nil when automation is disabled, the card is missing, or an
// internal failure occurred.
func (h *Hooks) AutoRunForumTagsOnLinkUpdate(cardID string) (result *HookResult) {
	const trigger = "link_update"
	defer h.recoverHook(trigger, cardID, &result)

	ctx, ruleset, uiData, ok := h.prepare(trigger, cardID)
	if !ok {
		return nil
	}

	evaluation, err := h.eval.Evaluate(ctx, ruleset, true)
	if err != nil {
		h.fail(trigger, cardID, "rule evaluation failed", err)
		return nil
	}
	if len(evaluation.Actions) == 0 {
		h.observe(trigger, "no_actions")
		return &HookResult{Run: true, Actions: 0}
	}

	plan := BuildPlan(evaluation.Actions, ActionFetchForumTags)
	if plan.FetchForumTags == nil {
		h.observe(trigger, "no_actions")
		return &HookResult{Run: true, Actions: 0, Reason: "no_fetch_forum_tags_action"}
	}

	res, err := h.executor.ApplyPlan(cardID, plan, uiData)
	if err != nil {
		h.fail(trigger, cardID, "plan execution failed", err)
		return nil
	}

	h.observe(trigger, "applied")
	h.log.Info("forum tag automation applied", zap.String("card_id", cardID))
	return &HookResult{Run: true, Result: res}
}

// prepare resolves the active ruleset and assembles the card context.
// ok is false when the hook should short-circuit (already logged).
func (h *Hooks) prepare(trigger, cardID string) (CardContext, Ruleset, UIData, bool) {
	activeID := h.config.ActiveRuleset()
	if activeID == "" {
		h.observe(trigger, "disabled")
		return nil, nil, nil, false
	}

	ruleset, ok := h.rulesets.Ruleset(activeID)
	if !ok {
		h.observe(trigger, "disabled")
		h.log.Warn("active ruleset not found", zap.String("ruleset_id", activeID))
		return nil, nil, nil, false
	}

	card, ok := h.cards.Card(cardID)
	if !ok {
		h.observe(trigger, "card_missing")
		h.log.Warn("card not found in cache", zap.String("card_id", cardID), zap.String("trigger", trigger))
		return nil, nil, nil, false
	}

	uiData := h.ui.Load()

	ctx := make(CardContext, len(card)+1)
	for key, value := range card {
		ctx[key] = value
	}
	summary := ""
	if info, ok := uiData[h.ui.ResolveKey(cardID)]; ok {
		if s, ok := info["summary"].(string); ok {
			summary = s
		}
	}
	ctx["ui_summary"] = summary

	return ctx, ruleset, uiData, true
}

func (h *Hooks) fail(trigger, cardID, msg string, err error) {
	h.observe(trigger, "error")
	h.log.Error(msg, zap.String("card_id", cardID), zap.String("trigger", trigger), zap.Error(err))
}

// recoverHook converts a panic inside a hook into a logged nil result so
// automation can never break the triggering operation.
func (h *Hooks) recoverHook(trigger, cardID string, result **HookResult) {
	if r := recover(); r != nil {
		h.observe(trigger, "error")
		h.log.Error("automation hook panicked",
			zap.String("card_id", cardID), zap.String("trigger", trigger), zap.Any("panic", r))
		*result = nil
	}
}

func (h *Hooks) observe(trigger, outcome string) {
	if h.metrics != nil {
		h.metrics.AutomationRuns.WithLabelValues(trigger, outcome).Inc()
	}
}
