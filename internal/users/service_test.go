package users

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink-his/carelink/internal/refdata"
)

type mockClient struct {
	lastPath  string
	lastQuery url.Values
	getErr    error
	postErr   error
}

func (m *mockClient) Get(ctx context.Context, path string, query url.Values, dest any) error {
	m.lastPath = path
	m.lastQuery = query
	if m.getErr != nil {
		return m.getErr
	}
	if result, ok := dest.(*ListResult); ok {
		result.Users = []User{{ID: uuid.New(), Email: "a@carelink.test", Role: "employee", Active: true}}
		result.Total = 1
	}
	return nil
}

func (m *mockClient) Post(ctx context.Context, path string, body, dest any) error {
	m.lastPath = path
	if m.postErr != nil {
		return m.postErr
	}
	if created, ok := dest.(*User); ok {
		if user, ok := body.(User); ok {
			*created = user
			created.ID = uuid.New()
		}
	}
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

type mockRefCache struct {
	invalidated []refdata.Type
}

func (m *mockRefCache) InvalidateType(ctx context.Context, t refdata.Type) error {
	m.invalidated = append(m.invalidated, t)
	return nil
}

func TestListShapesQuery(t *testing.T) {
	client := &mockClient{}
	svc := NewService(client, &mockRefCache{})

	active := true
	result, err := svc.List(context.Background(), ListFilters{
		Page:         2,
		Limit:        50,
		Search:       "rivera",
		Role:         "employee",
		HealthCenter: "hc-001",
		Active:       &active,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "/api/users", client.lastPath)
	assert.Equal(t, "2", client.lastQuery.Get("page"))
	assert.Equal(t, "50", client.lastQuery.Get("limit"))
	assert.Equal(t, "rivera", client.lastQuery.Get("search"))
	assert.Equal(t, "employee", client.lastQuery.Get("role"))
	assert.Equal(t, "hc-001", client.lastQuery.Get("health_center"))
	assert.Equal(t, "true", client.lastQuery.Get("active"))
}

func TestListOmitsEmptyFilters(t *testing.T) {
	client := &mockClient{}
	svc := NewService(client, &mockRefCache{})

	_, err := svc.List(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, client.lastQuery, "zero filters must produce no query parameters")
}

func TestListRejectsOutOfRangeLimit(t *testing.T) {
	svc := NewService(&mockClient{}, &mockRefCache{})
	_, err := svc.List(context.Background(), ListFilters{Limit: 10000})
	require.Error(t, err)
}

func TestCreateInvalidatesRoleVocabulary(t *testing.T) {
	client := &mockClient{}
	refs := &mockRefCache{}
	svc := NewService(client, refs)

	_, err := svc.Create(context.Background(), User{Email: "new@carelink.test", Role: "employee"})
	require.NoError(t, err)
	assert.Equal(t, []refdata.Type{refdata.TypeRole}, refs.invalidated)
}

func TestCreateFailureSkipsInvalidation(t *testing.T) {
	client := &mockClient{postErr: assert.AnError}
	refs := &mockRefCache{}
	svc := NewService(client, refs)

	_, err := svc.Create(context.Background(), User{Email: "new@carelink.test"})
	require.Error(t, err)
	assert.Empty(t, refs.invalidated, "a failed mutation must not invalidate")
}
