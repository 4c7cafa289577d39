package booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GenerateLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sess-1/clicks/120001.json", r.URL.Path)
		assert.Equal(t, "282220", r.URL.Query().Get("marker"))

		fmt.Fprint(w, `{
			"url": "https://agency.example.com/book?offer=42",
			"method": "GET",
			"click_id": 77,
			"gate_id": 120
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "282220", 5*time.Second)

	link, err := client.GenerateLink(context.Background(), "sess-1", "120001")
	require.NoError(t, err)

	assert.Equal(t, "https://agency.example.com/book?offer=42", link.URL)
	assert.Equal(t, "GET", link.Method)
	assert.Equal(t, int64(77), link.ClickID)
	assert.Equal(t, int64(120), link.GateID)
}

func TestClient_GenerateLink_EmptyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"method":"GET"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "282220", 5*time.Second)

	_, err := client.GenerateLink(context.Background(), "sess-1", "gone")

	assert.ErrorIs(t, err, ErrLinkUnavailable)
}

func TestClient_GenerateLink_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	client := NewClient(server.URL, "282220", 5*time.Second)

	_, err := client.GenerateLink(context.Background(), "sess-1", "120001")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 410")
}

func TestWriteRedirectPage(t *testing.T) {
	pageRequest := func(link Link, wantFragments []string) func(t *testing.T) {
		return func(t *testing.T) {
			var buf strings.Builder

			require.NoError(t, WriteRedirectPage(&buf, link))

			page := buf.String()
			for _, fragment := range wantFragments {
				assert.Contains(t, page, fragment)
			}
		}
	}

	t.Run("get_link_redirects_by_script", pageRequest(
		Link{URL: "https://agency.example.com/book", Method: "GET", ClickID: 77, GateID: 120},
		[]string{
			"https://agency.example.com/book",
			"click_id=77",
			"gate_id=120",
		}))

	t.Run("post_link_renders_form", pageRequest(
		Link{
			URL:    "https://agency.example.com/book",
			Method: "POST",
			Params: map[string]any{"session": "abc"},
		},
		[]string{
			`method="POST"`,
			`name="session"`,
		}))
}
