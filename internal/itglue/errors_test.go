package itglue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		kind     Kind
		contains string
	}{
		{400, KindBadRequest, "Bad request"},
		{401, KindAuthenticationFailed, "Authentication failed"},
		{403, KindPermissionDenied, "Permission denied"},
		{404, KindNotFound, "not found"},
		{415, KindUnsupportedMediaType, "Unsupported media type"},
		{422, KindValidationFailed, "Validation failed"},
		{429, KindRateLimited, "Rate limit"},
		{500, KindUpstreamServerError, "try again later"},
		{503, KindUpstreamServerError, "HTTP 503"},
		{418, KindUnknownStatus, "418"},
		{302, KindUnknownStatus, "302"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, nil)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestFromStatus_RateLimitStatesQuota(t *testing.T) {
	err := FromStatus(http.StatusTooManyRequests, nil)
	assert.Contains(t, err.Error(), "Rate limit")
	assert.Contains(t, err.Error(), "3000 requests per 5 minutes")
}

func TestFromStatus_Detail(t *testing.T) {
	err := FromStatus(http.StatusUnprocessableEntity, []jsonapi.ErrorObject{
		{Title: "Unprocessable Entity", Detail: "Name has already been taken"},
	})
	assert.Equal(t, "Validation failed: Name has already been taken", err.Error())

	err = FromStatus(http.StatusBadRequest, []jsonapi.ErrorObject{{Title: "Invalid filter"}})
	assert.Contains(t, err.Error(), "Invalid filter")
}

func TestClassify_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := http.Get(addr)
	require.Error(t, err)

	classified := Classify(err)
	assert.Equal(t, KindConnectionRefused, classified.Kind)
	assert.Contains(t, classified.Error(), "connect")
}

func TestClassify(t *testing.T) {
	existing := &Error{Kind: KindNotFound}

	tests := []struct {
		name     string
		err      error
		kind     Kind
		contains string
	}{
		{"already classified", existing, KindNotFound, "not found"},
		{"wrapped classified", fmt.Errorf("get organization: %w", existing), KindNotFound, "not found"},
		{"deadline", fmt.Errorf("do: %w", context.DeadlineExceeded), KindTimeout, "timed out"},
		{"unexpected shape", jsonapi.ErrUnexpectedShape, KindUnexpectedShape, "single resource"},
		{"empty mutation", &jsonapi.EmptyMutationError{Op: "create password"}, KindEmptyMutationResult, "create password returned no resources"},
		{"anything else", errors.New("boom"), KindUnclassified, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.kind, classified.Kind)
			assert.Contains(t, classified.Error(), tt.contains)
		})
	}

	assert.Nil(t, Classify(nil))
	assert.Same(t, existing, Classify(existing))
}

func TestClassify_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("decode: %w", jsonapi.ErrUnexpectedShape)
	classified := Classify(cause)

	assert.ErrorIs(t, classified, jsonapi.ErrUnexpectedShape)
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(FromStatus(404, nil), KindNotFound))
	assert.False(t, IsKind(FromStatus(404, nil), KindRateLimited))
	assert.False(t, IsKind(nil, KindNotFound))
}
