package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/tenant"
)

// fakeAuditLister applies the same tenant predicate as the pg recorder: a
// nil tenant argument sees everything, a bound one sees only its own rows,
// and entries without a tenant never leak into a bound scope.
type fakeAuditLister struct {
	entries []audit.Entry
}

func (f *fakeAuditLister) List(ctx context.Context, tenantArg *uuid.UUID, _ audit.ListFilter, limit, offset int) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range f.entries {
		if tenantArg == nil || (e.TenantID != nil && *e.TenantID == *tenantArg) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestListAuditEndpointScoping(t *testing.T) {
	clinic := uuid.New()
	other := uuid.New()
	lister := &fakeAuditLister{entries: []audit.Entry{
		{ID: 1, Action: "Registered group VistaCare Centro"},
		{ID: 2, Action: "Cancelled an appointment", TenantID: &clinic},
		{ID: 3, Action: "Cancelled an appointment", TenantID: &other},
	}}
	handler := listAuditHandler(lister)

	listEntries := func(p tenant.Principal) []AuditEntryResponse {
		t.Helper()
		req := authedRequest(t, http.MethodGet, "/audit", nil, p)
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []AuditEntryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("member sees only their clinic's entries", func(t *testing.T) {
		resp := listEntries(tenant.Principal{ID: uuid.New(), Role: tenant.RoleAdmin, TenantID: &clinic})
		require.Len(t, resp, 1)
		assert.Equal(t, int64(2), resp[0].ID)
	})

	t.Run("untenanted entries stay hidden from members", func(t *testing.T) {
		resp := listEntries(tenant.Principal{ID: uuid.New(), Role: tenant.RoleReceptionist, TenantID: &clinic})
		for _, e := range resp {
			assert.NotNil(t, e.TenantID)
		}
	})

	t.Run("super admin sees everything", func(t *testing.T) {
		resp := listEntries(tenant.Principal{ID: uuid.New(), Role: tenant.RoleSuperAdmin})
		assert.Len(t, resp, 3)
	})
}
