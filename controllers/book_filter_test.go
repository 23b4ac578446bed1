package controllers

import (
	"net/http"
	"testing"

	"github.com/Govind-619/Bookstore/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("birth date", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseOptionalDate("birth date", " 2001-02-03 ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2001-02-03", d.Format(utils.DateLayout))

	_, err = parseOptionalDate("birth date", "03/02/2001")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, utils.StatusCode(err))
	assert.Contains(t, utils.GetAppError(err).Message, "birth date")
}

func TestBookFilterRejectsBadPublicationDate(t *testing.T) {
	_, err := BookFilter{PublicationDate: "03/02/2001"}.Apply(nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, utils.StatusCode(err))
}
