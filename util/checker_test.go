package util

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/stretchr/testify/assert"
)

// MockRoundTripper implements http.RoundTripper
type MockRoundTripper struct {
	StatusCode int
	Body       string
	LastPath   string
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.LastPath = req.URL.Path
	return &http.Response{
		StatusCode: m.StatusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.Body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestCheckForUpdates(t *testing.T) {
	originalVersion := config.AppVersion
	defer func() { config.AppVersion = originalVersion }()

	tests := []struct {
		name            string
		currentVersion  string
		responseBody    string
		statusCode      int
		expectUpdate    bool
		expectError     bool
		expectedVersion string
	}{
		{
			name:            "Update Available",
			currentVersion:  "v1.0.0",
			responseBody:    `{"tag_name": "v1.1.0", "html_url": "http://release"}`,
			statusCode:      200,
			expectUpdate:    true,
			expectedVersion: "v1.1.0",
		},
		{
			name:            "No Update Available",
			currentVersion:  "1.1.0",
			responseBody:    `{"tag_name": "v1.1.0", "html_url": "http://release"}`,
			statusCode:      200,
			expectedVersion: "v1.1.0",
		},
		{
			name:            "Tag Without Prefix",
			currentVersion:  "v0.1.0",
			responseBody:    `{"tag_name": "0.2.0", "html_url": "http://release"}`,
			statusCode:      200,
			expectUpdate:    true,
			expectedVersion: "v0.2.0",
		},
		{
			name:           "API Error",
			currentVersion: "v1.0.0",
			responseBody:   `{"message": "Not Found"}`,
			statusCode:     404,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.AppVersion = tt.currentVersion

			rt := &MockRoundTripper{StatusCode: tt.statusCode, Body: tt.responseBody}
			result, err := CheckForUpdates(context.Background(), &http.Client{Transport: rt})

			assert.Equal(t, "/repos/dixieflatline76/wpsetter/releases/latest", rt.LastPath)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectUpdate, result.UpdateAvailable)
			assert.Equal(t, tt.expectedVersion, result.LatestVersion)
		})
	}
}
