package access

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"orgvote-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidTransition is returned when a session transition is requested
	// from a state that does not permit it. Nothing is written in that case.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrMissingTeam is returned when the parent election carries no team
	// reference. Voter access is never granted without a resolvable team.
	ErrMissingTeam = errors.New("election has no team reference")

	// ErrElectionMismatch is returned when the session does not belong to the
	// election it was planned against.
	ErrElectionMismatch = errors.New("session does not belong to election")
)

// Plan is the full write-set for one session lifecycle transition: the
// session/election status updates plus the complete replacement permission
// list for every affected item and option document. It is a description of
// writes, not the writes themselves; the caller applies it against the store.
type Plan struct {
	SessionID      primitive.ObjectID
	SessionStatus  models.LifecycleStatus
	StartTime      *time.Time
	EndTime        *time.Time
	ElectionID     primitive.ObjectID
	ElectionStatus models.LifecycleStatus

	ItemPermissions   map[primitive.ObjectID][]string
	OptionPermissions map[primitive.ObjectID][]string
}

// Permissions returns the replacement ACL for an item or option document in
// the given lifecycle state. The owner role always keeps read/update/delete;
// the voter role holds read only while the session is ongoing. The list is
// sorted so that planning the same transition twice yields an identical set.
func Permissions(teamID string, status models.LifecycleStatus) []string {
	perms := []string{
		fmt.Sprintf(`read("team:%s/owner")`, teamID),
		fmt.Sprintf(`update("team:%s/owner")`, teamID),
		fmt.Sprintf(`delete("team:%s/owner")`, teamID),
	}
	if status == models.StatusOngoing {
		perms = append(perms, fmt.Sprintf(`read("team:%s/voter")`, teamID))
	}
	sort.Strings(perms)
	return perms
}

// PlanStart plans the upcoming -> ongoing transition. Starting an already
// ongoing session is allowed and idempotent: it yields the same ACL set and
// keeps the original start time. Starting a past session is rejected.
func PlanStart(election models.Election, session models.ElectionSession, items []models.VotingItem, options []models.VotingOption, now time.Time) (*Plan, error) {
	if err := validate(election, session); err != nil {
		return nil, err
	}

	switch session.Status {
	case models.StatusUpcoming, models.StatusOngoing:
	default:
		return nil, fmt.Errorf("%w: cannot start a %s session", ErrInvalidTransition, session.Status)
	}

	startTime := &now
	if session.Status == models.StatusOngoing && session.StartTime != nil {
		startTime = session.StartTime
	}

	plan := &Plan{
		SessionID:      session.ID,
		SessionStatus:  models.StatusOngoing,
		StartTime:      startTime,
		EndTime:        session.EndTime,
		ElectionID:     election.ID,
		ElectionStatus: models.StatusOngoing,
	}
	plan.ItemPermissions, plan.OptionPermissions = permissionSets(election.TeamID, models.StatusOngoing, items, options)
	return plan, nil
}

// PlanStop plans the ongoing -> past transition: voter read access is
// revoked, owner access retained. Only an ongoing session may be stopped;
// there is no path out of past and no upcoming -> past shortcut.
func PlanStop(election models.Election, session models.ElectionSession, items []models.VotingItem, options []models.VotingOption, now time.Time) (*Plan, error) {
	if err := validate(election, session); err != nil {
		return nil, err
	}

	if session.Status != models.StatusOngoing {
		return nil, fmt.Errorf("%w: cannot stop a %s session", ErrInvalidTransition, session.Status)
	}

	plan := &Plan{
		SessionID:      session.ID,
		SessionStatus:  models.StatusPast,
		StartTime:      session.StartTime,
		EndTime:        &now,
		ElectionID:     election.ID,
		ElectionStatus: election.Status,
	}
	plan.ItemPermissions, plan.OptionPermissions = permissionSets(election.TeamID, models.StatusPast, items, options)
	return plan, nil
}

func validate(election models.Election, session models.ElectionSession) error {
	if session.ElectionID != election.ID {
		return ErrElectionMismatch
	}
	if election.TeamID == "" {
		return ErrMissingTeam
	}
	return nil
}

func permissionSets(teamID string, status models.LifecycleStatus, items []models.VotingItem, options []models.VotingOption) (map[primitive.ObjectID][]string, map[primitive.ObjectID][]string) {
	perms := Permissions(teamID, status)

	itemPerms := make(map[primitive.ObjectID][]string, len(items))
	for _, item := range items {
		itemPerms[item.ID] = perms
	}
	optionPerms := make(map[primitive.ObjectID][]string, len(options))
	for _, option := range options {
		optionPerms[option.ID] = perms
	}
	return itemPerms, optionPerms
}
