package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"idenflow/internal/identity"
	"idenflow/internal/realtime"
	"idenflow/internal/search"
	"idenflow/internal/security/credential"
	"idenflow/internal/security/password"
)

// Handler wires the HTTP endpoints to the identity store, record store,
// credential service and realtime bus.
type Handler struct {
	log *slog.Logger
	cfg Config

	users       identity.Store
	records     search.Store
	credentials *credential.Service
	bus         *realtime.Bus

	pwCfg password.Config

	// dummyHash keeps login latency stable when the account does not exist.
	dummyHash string
}

// NewHandler constructs the API handler.
func NewHandler(
	log *slog.Logger,
	cfg Config,
	users identity.Store,
	records search.Store,
	credentials *credential.Service,
	bus *realtime.Bus,
) *Handler {
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		log:         log,
		cfg:         cfg,
		users:       users,
		records:     records,
		credentials: credentials,
		bus:         bus,
		pwCfg:       password.DefaultConfig(),
	}

	if hash, err := h.pwCfg.Hash("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h
}

// Register wires API routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/auth/signup", h.handleSignup)
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/me", h.handleMe)
	mux.HandleFunc("/api/search-results", h.handleRecords)
	mux.HandleFunc("/api/search-results/", h.handleRecordByID)
}

// ---- handlers ----

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{OK: true})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	hash, err := h.pwCfg.Hash(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "password does not meet policy")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	u, err := h.users.CreateUser(ctx, identity.CreateUserInput{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Now:          now,
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusConflict, "email already in use")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "missing fields")
		default:
			h.log.Error("api.signup.fail", "err", err)
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		}
		return
	}

	token, _, err := h.credentials.Issue(u.ID, u.Email, now)
	if err != nil {
		h.log.Error("api.signup.issue.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metricSignups.Inc()
	h.log.Info("api.signup", "user_id", u.ID)

	writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(u), Token: token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	u, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		// Timing resistance: run a dummy verify so a missing account costs
		// the same as a bad password.
		if h.dummyHash != "" {
			_, _ = h.pwCfg.Verify(h.dummyHash, req.Password)
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	okPw, err := h.pwCfg.Verify(u.PasswordHash, req.Password)
	if err != nil || !okPw {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, _, err := h.credentials.Issue(u.ID, u.Email, now)
	if err != nil {
		h.log.Error("api.login.issue.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.log.Info("api.login", "user_id", u.ID)

	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(u), Token: token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	u, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.log.Error("api.me.fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: toUserResponse(u)})
}

// handleRecords serves creation (POST) and listing (GET) on the collection.
func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createRecord(w, r)
	case http.MethodGet:
		h.listRecords(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	var req createRecordRequest
	if err := decodeJSONLenient(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// req.ID and req.OwnerID are deliberately unread: the store assigns the
	// id and the owner comes from the verified credential.
	rec, err := h.records.Create(r.Context(), search.CreateInput{
		OwnerID:       claims.UserID,
		SourceProfile: req.SourceProfile,
		Matches:       req.Matches,
		SearchTerm:    req.SearchTerm,
		TotalMatches:  req.TotalMatches,
		Now:           time.Now().UTC(),
	})
	if err != nil {
		switch {
		case search.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "missing fields")
		default:
			h.log.Error("api.record.create.fail", "err", err)
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		}
		return
	}

	metricRecordsCreated.Inc()
	h.log.Info("api.record.create", "record_id", rec.ID, "owner_id", rec.OwnerID)

	// Response first; the publish is a secondary effect and must never fail
	// the request already committed to the caller.
	writeJSON(w, http.StatusCreated, createRecordResponse{Success: true, ID: rec.ID})

	h.publishCreated(rec)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	recs, err := h.records.ListByOwner(r.Context(), claims.UserID, search.DefaultListLimit)
	if err != nil {
		h.log.Error("api.record.list.fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, recordListResponse{Success: true, Data: recs})
}

func (h *Handler) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/search-results/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	rec, err := h.records.GetByID(r.Context(), claims.UserID, id)
	if err != nil {
		if search.IsNotFound(err) {
			// Missing and not-owned are deliberately the same answer.
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.log.Error("api.record.get.fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, recordResponse{Success: true, Data: rec})
}

// ---- helpers ----

func (h *Handler) publishCreated(rec search.Record) {
	if h.bus == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			h.log.Error("api.publish.panic", "panic", p)
		}
	}()
	h.bus.Publish(realtime.RecordCreated{ID: rec.ID, OwnerID: rec.OwnerID})
}

func (h *Handler) requireAuth(w http.ResponseWriter, r *http.Request) (credential.Claims, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return credential.Claims{}, false
	}
	claims, err := h.credentials.Verify(token, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return credential.Claims{}, false
	}
	return claims, true
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
