package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CleanNest/service-cleaning/internal/domain"
	bookingDomain "github.com/CleanNest/service-cleaning/internal/domain/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorStatus(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)
	return w.Code
}

func TestErrorMapsDomainCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.NewNotFoundError("Booking", "x"), http.StatusNotFound},
		{domain.NewForbiddenError("nope"), http.StatusForbidden},
		{domain.NewInvalidTransitionError("COMPLETED", "PENDING"), http.StatusBadRequest},
		{domain.NewCleanerUnavailableError("x"), http.StatusBadRequest},
		{domain.NewValidationError("bad input"), http.StatusBadRequest},
		{domain.NewConflictError("raced"), http.StatusConflict},
		{domain.NewPersistenceError(errors.New("down")), http.StatusBadGateway},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, errorStatus(t, tc.err))
	}
}

func TestErrorMapsUnknownStatusStringTo400(t *testing.T) {
	// The transition endpoint parses the requested status before anything
	// else; a garbage string is a client mistake, not a server fault.
	_, err := bookingDomain.ParseBookingStatus("SPARKLING")
	require.Error(t, err)

	assert.Equal(t, http.StatusBadRequest, errorStatus(t, err))
}
