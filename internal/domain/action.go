package domain

import (
	"fmt"
	"time"

	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
)

// ActionType is the closed set of user actions the interaction ledger
// recognizes. Anything else is rejected at construction time.
type ActionType string

const (
	ActionView     ActionType = "view"
	ActionWatch    ActionType = "watch"
	ActionLike     ActionType = "like"
	ActionEnroll   ActionType = "enroll"
	ActionComplete ActionType = "complete"
)

func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionView, ActionWatch, ActionLike, ActionEnroll, ActionComplete:
		return ActionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", pkgerrors.ErrInvalidAction, s)
	}
}

func (t ActionType) String() string { return string(t) }

// Action is one element of an interaction's append-only action sequence.
// Weight is captured at log time so later re-tuning of the weight table does
// not rewrite history.
type Action struct {
	Type      ActionType `json:"type"`
	Weight    float64    `json:"weight"`
	Timestamp time.Time  `json:"timestamp"`
}

// Reason tags where a recommendation's score came from.
type Reason string

const (
	ReasonCollaborative Reason = "collaborative"
	ReasonContentBased  Reason = "content-based"
	ReasonHybrid        Reason = "hybrid"
	ReasonTrending      Reason = "trending"
	ReasonCategory      Reason = "category"
)
