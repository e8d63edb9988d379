package orgs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notebase/notebase/internal/auth"
	"github.com/notebase/notebase/internal/db/models"
	"github.com/notebase/notebase/internal/db/repositories"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeOrgStore is an in-memory OrganizationStore.
type fakeOrgStore struct {
	orgs map[string]*models.Organization
}

func newFakeOrgStore() *fakeOrgStore {
	return &fakeOrgStore{orgs: make(map[string]*models.Organization)}
}

func (s *fakeOrgStore) Create(_ context.Context, name, displayName string) (*models.Organization, error) {
	org := &models.Organization{
		ID:          uuid.New().String(),
		Name:        name,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	s.orgs[org.ID] = org
	return org, nil
}

func (s *fakeOrgStore) GetByID(_ context.Context, id string) (*models.Organization, error) {
	org, ok := s.orgs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return org, nil
}

// fakeUserStore is an in-memory UserStore enforcing per-org email uniqueness.
type fakeUserStore struct {
	users []*models.User
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.OrganizationID == user.OrganizationID && u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users = append(s.users, user)
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, orgID, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.OrganizationID == orgID && u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func newTestRouter() (*gin.Engine, *fakeOrgStore, *fakeUserStore, *auth.TokenService) {
	orgStore := newFakeOrgStore()
	userStore := &fakeUserStore{}
	tokens := auth.NewTokenService("test-secret-0123456789abcdef0123456789abcdef", time.Hour)
	h := NewHandlers(orgStore, userStore, tokens)

	r := gin.New()
	r.POST("/api/v1/organizations", h.CreateOrganization())
	r.POST("/api/v1/organizations/:orgID/users", h.RegisterUser())
	r.POST("/api/v1/organizations/:orgID/users/login", h.Login())
	return r, orgStore, userStore, tokens
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrganization(t *testing.T) {
	r, _, _, _ := newTestRouter()

	w := postJSON(r, "/api/v1/organizations", gin.H{"name": "acme", "display_name": "Acme Corp"})
	require.Equal(t, http.StatusCreated, w.Code)

	var org models.Organization
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &org))
	assert.NotEmpty(t, org.ID)
	assert.Equal(t, "acme", org.Name)
	assert.Equal(t, "Acme Corp", org.DisplayName)
}

func TestCreateOrganization_MissingName(t *testing.T) {
	r, _, _, _ := newTestRouter()

	w := postJSON(r, "/api/v1/organizations", gin.H{"display_name": "No Name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUser(t *testing.T) {
	r, orgStore, _, _ := newTestRouter()
	org, _ := orgStore.Create(context.Background(), "acme", "Acme")

	w := postJSON(r, "/api/v1/organizations/"+org.ID+"/users", gin.H{
		"email":    "alice@acme.test",
		"password": "correct horse battery",
		"role":     "writer",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, org.ID, user.OrganizationID)
	assert.Equal(t, "writer", user.Role)
	assert.NotContains(t, w.Body.String(), "password_hash", "hash must never appear in responses")
}

func TestRegisterUser_UnknownOrganization(t *testing.T) {
	r, _, _, _ := newTestRouter()

	w := postJSON(r, "/api/v1/organizations/no-such-org/users", gin.H{
		"email":    "alice@acme.test",
		"password": "correct horse battery",
		"role":     "reader",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterUser_InvalidRole(t *testing.T) {
	r, orgStore, _, _ := newTestRouter()
	org, _ := orgStore.Create(context.Background(), "acme", "Acme")

	w := postJSON(r, "/api/v1/organizations/"+org.ID+"/users", gin.H{
		"email":    "alice@acme.test",
		"password": "correct horse battery",
		"role":     "owner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUser_DuplicateEmailConflicts(t *testing.T) {
	r, orgStore, _, _ := newTestRouter()
	org, _ := orgStore.Create(context.Background(), "acme", "Acme")

	body := gin.H{"email": "alice@acme.test", "password": "correct horse battery", "role": "reader"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/v1/organizations/"+org.ID+"/users", body).Code)
	assert.Equal(t, http.StatusConflict, postJSON(r, "/api/v1/organizations/"+org.ID+"/users", body).Code)
}

func TestRegisterUser_SameEmailDifferentOrg(t *testing.T) {
	r, orgStore, _, _ := newTestRouter()
	acme, _ := orgStore.Create(context.Background(), "acme", "Acme")
	beta, _ := orgStore.Create(context.Background(), "beta", "Beta")

	body := gin.H{"email": "alice@shared.test", "password": "correct horse battery", "role": "reader"}
	assert.Equal(t, http.StatusCreated, postJSON(r, "/api/v1/organizations/"+acme.ID+"/users", body).Code)
	assert.Equal(t, http.StatusCreated, postJSON(r, "/api/v1/organizations/"+beta.ID+"/users", body).Code)
}

func TestLogin(t *testing.T) {
	r, orgStore, _, tokens := newTestRouter()
	org, _ := orgStore.Create(context.Background(), "acme", "Acme")

	register := gin.H{"email": "alice@acme.test", "password": "correct horse battery", "role": "admin"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/v1/organizations/"+org.ID+"/users", register).Code)

	w := postJSON(r, "/api/v1/organizations/"+org.ID+"/users/login", gin.H{
		"email":    "alice@acme.test",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	// The issued token resolves back to the registered identity.
	identity, err := tokens.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, org.ID, identity.OrgID)
	assert.Equal(t, auth.RoleAdmin, identity.Role)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	r, orgStore, _, _ := newTestRouter()
	org, _ := orgStore.Create(context.Background(), "acme", "Acme")

	register := gin.H{"email": "alice@acme.test", "password": "correct horse battery", "role": "reader"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/v1/organizations/"+org.ID+"/users", register).Code)

	wrongPassword := postJSON(r, "/api/v1/organizations/"+org.ID+"/users/login", gin.H{
		"email":    "alice@acme.test",
		"password": "wrong",
	})
	unknownEmail := postJSON(r, "/api/v1/organizations/"+org.ID+"/users/login", gin.H{
		"email":    "mallory@acme.test",
		"password": "correct horse battery",
	})
	unknownOrg := postJSON(r, "/api/v1/organizations/no-such-org/users/login", gin.H{
		"email":    "alice@acme.test",
		"password": "correct horse battery",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownOrg.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, wrongPassword.Body.String(), unknownOrg.Body.String())
}

func TestLogin_WrongOrgForValidUser(t *testing.T) {
	r, orgStore, _, _ := newTestRouter()
	acme, _ := orgStore.Create(context.Background(), "acme", "Acme")
	beta, _ := orgStore.Create(context.Background(), "beta", "Beta")

	register := gin.H{"email": "alice@acme.test", "password": "correct horse battery", "role": "reader"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/v1/organizations/"+acme.ID+"/users", register).Code)

	// Correct credentials but the wrong tenant: rejected.
	w := postJSON(r, "/api/v1/organizations/"+beta.ID+"/users/login", gin.H{
		"email":    "alice@acme.test",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
