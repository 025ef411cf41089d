package errors_test

import (
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

func TestValidationError(t *testing.T) {
	err := pkgerrors.Wrap(&apperrors.ValidationError{Fields: map[string]string{
		"title":    "This field may not be blank.",
		"priority": "\"urgent\" is not a valid choice",
	}}, "[Manager.Create]")

	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.NotErrorIs(t, err, apperrors.ErrTransport)
	require.Equal(t, "This field may not be blank.", apperrors.Fields(err)["title"])
	require.Equal(t, `[Manager.Create]: validation failed (priority: "urgent" is not a valid choice; title: This field may not be blank.)`, err.Error())

	require.Nil(t, apperrors.Fields(apperrors.ErrNotFound))
	require.Equal(t, "Nothing to update.", apperrors.NewValidationError(apperrors.GeneralField, "Nothing to update.").Field(apperrors.GeneralField))
}

func TestTransportError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := apperrors.Wrapf(&apperrors.TransportError{Err: cause}, "[Client.%s]", "Me")

	require.ErrorIs(t, err, apperrors.ErrTransport)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "[Client.Me]: transport failure: connection refused", err.Error())

	var te *apperrors.TransportError
	require.True(t, apperrors.As(err, &te))
	require.Zero(t, te.StatusCode)
	require.Equal(t, "transport failure: status 502: bad gateway", (&apperrors.TransportError{StatusCode: 502, Err: fmt.Errorf("bad gateway")}).Error())

	require.NoError(t, apperrors.Wrapf(nil, "ignored"))
}
