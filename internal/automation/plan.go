package automation

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// BuildPlan translates an evaluated action list into an execution plan,
// realizing only the given action kinds. Semantics per kind:
//
//   - move_folder: overwrites the move target, last write wins
//   - add_tag / remove_tag: accumulate into their sets
//   - set_favorite: value parsed as bool via case-insensitive "true"
//   - fetch_forum_tags: first occurrence wins, later ones are ignored; a
//     non-mapping value yields an empty configuration
//
// Unrecognized and unrealized kinds are skipped.
func BuildPlan(actions []RuleAction, kinds ...string) *ExecutionPlan {
	realize := make(map[string]struct{}, len(kinds))
	for _, kind := range kinds {
		realize[kind] = struct{}{}
	}

	plan := NewExecutionPlan()
	for _, action := range actions {
		if _, ok := realize[action.Type]; !ok {
			continue
		}
		switch action.Type {
		case ActionMoveFolder:
			target := stringValue(action.Value)
			plan.Move = &target
		case ActionAddTag:
			plan.AddTags[stringValue(action.Value)] = struct{}{}
		case ActionRemoveTag:
			plan.RemoveTags[stringValue(action.Value)] = struct{}{}
		case ActionSetFavorite:
			favorite := strings.EqualFold(stringValue(action.Value), "true")
			plan.Favorite = &favorite
		case ActionFetchForumTags:
			if plan.FetchForumTags == nil {
				plan.FetchForumTags = mapValue(action.Value)
			}
		}
	}
	return plan
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// mapValue coerces a fetch-forum-tags action value into a configuration map.
// Rule storage may carry the configuration either as a decoded mapping or as
// a JSON string; anything else collapses to an empty configuration.
func mapValue(v interface{}) map[string]interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		return value
	case string:
		var decoded map[string]interface{}
		if err := sonic.UnmarshalString(value, &decoded); err == nil && decoded != nil {
			return decoded
		}
	}
	return map[string]interface{}{}
}
