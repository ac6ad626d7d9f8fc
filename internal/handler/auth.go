package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/config"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.  Students and
// librarians live in separate tables and authenticate with different
// identifiers, so there is one login endpoint per population while
// refresh and logout are shared.
type AuthHandler struct {
	Cfg        config.Config
	Students   *repository.StudentRepo
	Librarians *repository.LibrarianRepo
	Tokens     *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, s *repository.StudentRepo, l *repository.LibrarianRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Students: s, Librarians: l, Tokens: t}
}

// ----- DTOs -----

type librarianRegisterReq struct {
	StaffID   string `json:"staff_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"` // LIBRARIAN | ADMIN
}
type librarianLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type studentLoginReq struct {
	StudentID string `json:"student_id"`
	Password  string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type subjectPart struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
type authResp struct {
	User    subjectPart `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// RegisterLibrarian creates a staff account.  The route is restricted
// to ADMIN via middleware; the handler only validates the payload.
func (h *AuthHandler) RegisterLibrarian(c echo.Context) error {
	var req librarianRegisterReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return badRequest(c, "username/password/email required")
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleAdmin {
		role = model.RoleLibrarian
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c, "hash password failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	lib := &model.Librarian{
		StaffID:      strings.TrimSpace(req.StaffID),
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		Role:         role,
		Active:       true,
	}
	if err := h.Librarians.Create(ctx, lib); err != nil {
		if repository.IsDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return internalError(c, "create librarian failed")
	}
	return c.JSON(http.StatusCreated, lib)
}

// LoginLibrarian verifies staff credentials and returns a token pair.
func (h *AuthHandler) LoginLibrarian(c echo.Context) error {
	var req librarianLoginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username/password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	lib, err := h.Librarians.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrLibrarianNotFound || err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return internalError(c, "query failed")
	}
	if !lib.Active || !utils.VerifyPassword(lib.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	_ = h.Librarians.TouchLastLogin(ctx, lib.ID)

	return h.issuePair(c, repository.SubjectLibrarian, lib.ID, lib.Username, lib.Role, http.StatusOK)
}

// LoginStudent verifies a student number and password and returns a
// token pair carrying the STUDENT role.
func (h *AuthHandler) LoginStudent(c echo.Context) error {
	var req studentLoginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.StudentID = strings.TrimSpace(req.StudentID)
	if req.StudentID == "" || req.Password == "" {
		return badRequest(c, "student_id/password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Students.GetByStudentID(ctx, req.StudentID)
	if err != nil {
		if err == repository.ErrStudentNotFound || err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return internalError(c, "query failed")
	}
	if !st.Active || !utils.VerifyPassword(st.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issuePair(c, repository.SubjectStudent, st.ID, st.StudentID, model.RoleStudent, http.StatusOK)
}

// issuePair mints an access/refresh pair and persists the refresh hash.
func (h *AuthHandler) issuePair(c echo.Context, subjectKind string, id uint64, name, role string, status int) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return internalError(c, "issue access failed")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return internalError(c, "issue refresh failed")
	}
	if err := h.Tokens.StoreRefresh(ctx, subjectKind, id, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return internalError(c, "save refresh failed")
	}

	return c.JSON(status, authResp{
		User:    subjectPart{ID: id, Name: name, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a
// fresh pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	kind, id, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	name, role, err := h.subjectInfo(c, kind, id)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	return h.issuePair(c, kind, id, name, role, http.StatusOK)
}

// RefreshAccess mints a new access token without rotating the refresh
// token, for clients that only need to renew the short-lived token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	kind, id, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_, role, err := h.subjectInfo(c, kind, id)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return internalError(c, "issue access failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the presented refresh token.  When called with a valid
// bearer token and no refresh token, every session of that subject is
// revoked instead.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return internalError(c, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	}

	// No refresh token: fall back to the bearer identity and revoke
	// all its sessions.  The route is mounted without JWTAuth so the
	// refresh-token form needs no header; the bearer is parsed here.
	uid, role, ok := h.bearerSubject(c)
	if !ok {
		return badRequest(c, "provide Authorization header or refresh_token")
	}
	kind := repository.SubjectLibrarian
	if role == model.RoleStudent {
		kind = repository.SubjectStudent
	}
	if err := h.Tokens.RevokeAllForUser(ctx, kind, uid); err != nil {
		return internalError(c, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// bearerSubject validates the Authorization header and returns the
// token's subject and role.
func (h *AuthHandler) bearerSubject(c echo.Context) (uint64, string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", false
	}
	tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	return uint64(sub), role, true
}

// Me returns the authenticated identity claims.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": authUserID(c),
		"role":    authRole(c),
	})
}

// subjectInfo resolves display name and role for a token subject.
func (h *AuthHandler) subjectInfo(c echo.Context, kind string, id uint64) (string, string, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if kind == repository.SubjectStudent {
		st, err := h.Students.GetByID(ctx, id)
		if err != nil {
			return "", "", err
		}
		return st.StudentID, model.RoleStudent, nil
	}
	lib, err := h.Librarians.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return lib.Username, lib.Role, nil
}
