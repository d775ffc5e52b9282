package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

// QueueVerb is one of the moderation queue buttons.
type QueueVerb string

const (
	VerbApprove QueueVerb = "approve"
	VerbReject  QueueVerb = "reject"
	VerbFlag    QueueVerb = "flag"
)

type transitionKey struct {
	entity models.EntityType
	action models.Action
}

// transitions is the only place moderated statuses are defined. Single, batch and
// status-patch paths all resolve through it.
var transitions = map[transitionKey]string{
	{models.EntityNominee, models.ActionVerify}:      string(models.NomineeStatusVerified),
	{models.EntityNominee, models.ActionReject}:      string(models.NomineeStatusRejected),
	{models.EntityNominee, models.ActionInvestigate}: string(models.NomineeStatusUnderInvestigation),

	{models.EntityInstitution, models.ActionActivate}:    string(models.InstitutionStatusActive),
	{models.EntityInstitution, models.ActionReject}:      string(models.InstitutionStatusInactive),
	{models.EntityInstitution, models.ActionInvestigate}: string(models.InstitutionStatusUnderInvestigation),
	{models.EntityInstitution, models.ActionSuspend}:     string(models.InstitutionStatusSuspended),

	{models.EntityRating, models.ActionApprove}: string(models.RatingStatusVerified),
	{models.EntityRating, models.ActionReject}:  string(models.RatingStatusRejected),
	{models.EntityRating, models.ActionFlag}:    string(models.RatingStatusUnderReview),

	{models.EntityInstitutionRating, models.ActionApprove}: string(models.RatingStatusVerified),
	{models.EntityInstitutionRating, models.ActionReject}:  string(models.RatingStatusRejected),
	{models.EntityInstitutionRating, models.ActionFlag}:    string(models.RatingStatusUnderReview),

	{models.EntityComment, models.ActionApprove}: string(models.CommentStatusApproved),
	{models.EntityComment, models.ActionReject}:  string(models.CommentStatusRejected),
	{models.EntityComment, models.ActionFlag}:    string(models.CommentStatusFlagged),

	{models.EntityInstitutionComment, models.ActionApprove}: string(models.CommentStatusApproved),
	{models.EntityInstitutionComment, models.ActionReject}:  string(models.CommentStatusRejected),
	{models.EntityInstitutionComment, models.ActionFlag}:    string(models.CommentStatusFlagged),
}

// pendingStatuses lists the status each kind waits in for review. Institutions have none.
var pendingStatuses = map[models.EntityType]string{
	models.EntityNominee:            string(models.NomineeStatusPending),
	models.EntityRating:             string(models.RatingStatusPending),
	models.EntityInstitutionRating:  string(models.RatingStatusPending),
	models.EntityComment:            string(models.CommentStatusPending),
	models.EntityInstitutionComment: string(models.CommentStatusPending),
}

// ResolveTransition returns the status action leads to for entity.
func ResolveTransition(entity models.EntityType, action models.Action) (string, error) {
	status, ok := transitions[transitionKey{entity: entity, action: action}]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrInvalidAction, fmt.Sprintf("action %s is not valid for %s", action, entity))
	}
	return status, nil
}

// ActionForStatus finds the action that moves entity into status.
func ActionForStatus(entity models.EntityType, status string) (models.Action, error) {
	target := strings.ToUpper(strings.TrimSpace(status))
	for key, to := range transitions {
		if key.entity == entity && to == target {
			return key.action, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status %q is not valid for %s", status, entity))
}

// ActionForVerb maps a queue button to the entity's concrete action.
func ActionForVerb(entity models.EntityType, verb QueueVerb) (models.Action, error) {
	var action models.Action
	switch verb {
	case VerbApprove:
		switch entity {
		case models.EntityNominee:
			action = models.ActionVerify
		case models.EntityInstitution:
			action = models.ActionActivate
		default:
			action = models.ActionApprove
		}
	case VerbReject:
		action = models.ActionReject
	case VerbFlag:
		if entity == models.EntityNominee || entity == models.EntityInstitution {
			action = models.ActionInvestigate
		} else {
			action = models.ActionFlag
		}
	default:
		return "", appErrors.Clone(appErrors.ErrInvalidAction, fmt.Sprintf("unknown moderation verb %q", verb))
	}
	if _, err := ResolveTransition(entity, action); err != nil {
		return "", err
	}
	return action, nil
}

// ParseAction accepts either a concrete action or a queue verb (APPROVE, FLAG) for entity.
func ParseAction(entity models.EntityType, raw string) (models.Action, error) {
	candidate := models.Action(strings.ToUpper(strings.TrimSpace(raw)))
	if candidate == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "action is required")
	}
	if _, ok := transitions[transitionKey{entity: entity, action: candidate}]; ok {
		return candidate, nil
	}
	switch candidate {
	case models.ActionApprove:
		return ActionForVerb(entity, VerbApprove)
	case models.ActionFlag:
		return ActionForVerb(entity, VerbFlag)
	}
	return "", appErrors.Clone(appErrors.ErrInvalidAction, fmt.Sprintf("action %s is not valid for %s", candidate, entity))
}

// queueStatuses maps each requested kind to the status it is listed under in the queue.
func queueStatuses(types []models.EntityType, status models.QueueStatus) map[models.EntityType]string {
	statuses := make(map[models.EntityType]string, len(types))
	for _, entity := range types {
		switch status {
		case models.QueueStatusFlagged:
			flag, err := ActionForVerb(entity, VerbFlag)
			if err != nil {
				continue
			}
			statuses[entity] = transitions[transitionKey{entity: entity, action: flag}]
		default:
			if pending, ok := pendingStatuses[entity]; ok {
				statuses[entity] = pending
			}
		}
	}
	return statuses
}
