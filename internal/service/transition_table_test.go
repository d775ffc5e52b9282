package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

func TestResolveTransition(t *testing.T) {
	status, err := ResolveTransition(models.EntityInstitution, models.ActionSuspend)
	require.NoError(t, err)
	assert.Equal(t, "SUSPENDED", status)

	status, err = ResolveTransition(models.EntityInstitutionRating, models.ActionFlag)
	require.NoError(t, err)
	assert.Equal(t, "UNDER_REVIEW", status)

	_, err = ResolveTransition(models.EntityNominee, models.ActionApprove)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidAction))

	_, err = ResolveTransition(models.EntityComment, models.ActionSuspend)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidAction))
}

func TestActionForStatusRoundTrips(t *testing.T) {
	for key, status := range transitions {
		action, err := ActionForStatus(key.entity, status)
		require.NoError(t, err)
		assert.Equal(t, key.action, action, "%s -> %s", key.entity, status)
	}

	_, err := ActionForStatus(models.EntityNominee, "PENDING")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestParseAction(t *testing.T) {
	action, err := ParseAction(models.EntityNominee, "approve")
	require.NoError(t, err)
	assert.Equal(t, models.ActionVerify, action)

	action, err = ParseAction(models.EntityInstitution, "APPROVE")
	require.NoError(t, err)
	assert.Equal(t, models.ActionActivate, action)

	action, err = ParseAction(models.EntityNominee, "flag")
	require.NoError(t, err)
	assert.Equal(t, models.ActionInvestigate, action)

	action, err = ParseAction(models.EntityRating, " reject ")
	require.NoError(t, err)
	assert.Equal(t, models.ActionReject, action)

	_, err = ParseAction(models.EntityComment, "suspend")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidAction))

	_, err = ParseAction(models.EntityComment, "")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestQueueStatuses(t *testing.T) {
	pending := queueStatuses(models.EntityTypes, models.QueueStatusPending)
	_, hasInstitution := pending[models.EntityInstitution]
	assert.False(t, hasInstitution)
	assert.Equal(t, "PENDING", pending[models.EntityNominee])
	assert.Len(t, pending, 5)

	flagged := queueStatuses(models.EntityTypes, models.QueueStatusFlagged)
	assert.Equal(t, "UNDER_INVESTIGATION", flagged[models.EntityInstitution])
	assert.Equal(t, "FLAGGED", flagged[models.EntityInstitutionComment])
	assert.Len(t, flagged, 6)
}
