package patients

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink-his/carelink/internal/refdata"
)

type mockClient struct {
	lastPath  string
	lastQuery url.Values
}

func (m *mockClient) Get(ctx context.Context, path string, query url.Values, dest any) error {
	m.lastPath = path
	m.lastQuery = query
	return nil
}

func (m *mockClient) Post(ctx context.Context, path string, body, dest any) error {
	m.lastPath = path
	return nil
}

func (m *mockClient) Put(ctx context.Context, path string, body, dest any) error {
	m.lastPath = path
	return nil
}

func (m *mockClient) Delete(ctx context.Context, path string) error {
	m.lastPath = path
	return nil
}

type staticLoader struct{}

func (staticLoader) LoadType(ctx context.Context, t refdata.Type) ([]refdata.Item, error) {
	return []refdata.Item{
		{Type: t, Code: "admitted", Labels: map[string]string{"en": "Admitted", "es": "Ingresado"}, Active: true},
	}, nil
}

func (staticLoader) LoadAll(ctx context.Context) (map[refdata.Type][]refdata.Item, error) {
	return nil, nil
}

type noWriter struct{}

func (noWriter) CreateItem(ctx context.Context, item refdata.Item) error { return nil }
func (noWriter) UpdateItem(ctx context.Context, item refdata.Item) error { return nil }
func (noWriter) DeleteItem(ctx context.Context, id string) error         { return nil }

func TestListShapesQuery(t *testing.T) {
	client := &mockClient{}
	svc := NewService(client, nil)

	_, err := svc.List(context.Background(), ListFilters{
		Page:   1,
		Limit:  25,
		Status: "admitted",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/patients", client.lastPath)
	assert.Equal(t, "1", client.lastQuery.Get("page"))
	assert.Equal(t, "25", client.lastQuery.Get("limit"))
	assert.Equal(t, "admitted", client.lastQuery.Get("status"))
	assert.False(t, client.lastQuery.Has("search"))
	assert.False(t, client.lastQuery.Has("active"))
}

func TestStatusLabelUsesReferenceCache(t *testing.T) {
	refs := refdata.NewService(refdata.NewCache(0), staticLoader{}, noWriter{}, nil)
	svc := NewService(&mockClient{}, refs)

	label, err := svc.StatusLabel(context.Background(), "admitted", "es")
	require.NoError(t, err)
	assert.Equal(t, "Ingresado", label)

	// Unknown codes fall back to the code itself.
	label, err = svc.StatusLabel(context.Background(), "unknown", "en")
	require.NoError(t, err)
	assert.Equal(t, "unknown", label)
}
