package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/application/apptest"
	"github.com/mdjvazquez/finmks-v/internal/application/auth"
	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/onboarding"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/application/usecase"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	apphttp "github.com/mdjvazquez/finmks-v/internal/interfaces/http"
)

type testServer struct {
	app   *fiber.App
	store *apptest.Store
}

func newTestServer(t *testing.T, rate string) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := apptest.NewStore()
	cache := apptest.NewBalanceCache()
	codes := onboarding.NewCodeService(store.Invitations(), store.AdminCodes(), store.Users(), store.Roles())
	lim, err := apphttp.NewRateLimiter(rate)
	require.NoError(t, err)

	tokens := newTokens(t)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(store.Users(), store.TxRunner(), codes, tokens, log),
		Codes:          codes,
		Sessions:       session.NewLoader(store.Users(), store.Roles()),
		CompanyUC:      usecase.NewCompanyUseCase(store.Companies(), log),
		UserUC:         usecase.NewUserUseCase(store.Users(), store.Roles(), log),
		EmployeeUC:     usecase.NewEmployeeUseCase(store.Employees(), log),
		RoleUC:         usecase.NewRoleUseCase(store.Roles(), store.Users(), log),
		CashRegisterUC: usecase.NewCashRegisterUseCase(store.Registers(), store.Ledger(), cache, log),
		TransactionUC:  usecase.NewTransactionUseCase(store.Ledger(), store.Registers(), store.TxRunner(), codes, cache, log),
		ReceiptUC:      usecase.NewReceiptUseCase(nil, log),
		ReportUC:       usecase.NewReportUseCase(store.Reports(), store.Companies(), store.Ledger(), nil, nil, log),
		NotificationUC: usecase.NewNotificationUseCase(store.Ledger(), apptest.NewDismissalStore(), log),
		DashboardUC:    usecase.NewDashboardUseCase(store.Ledger()),
		Tokens:         tokens,
		CodeLimiter:    lim,
		Log:            log,
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) registerCompany(t *testing.T) dto.RegisterCompanyResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register-company", "", dto.RegisterCompanyRequest{
		CompanyName: "Acme", Name: "Ana López", Email: "ana@acme.mx", Password: "secreto123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.RegisterCompanyResponse](t, resp)
}

func TestRouter_RegistroCreaCajaPorDefecto(t *testing.T) {
	s := newTestServer(t, "100-M")
	reg := s.registerCompany(t)
	assert.Equal(t, entity.RoleAdmin, reg.User.Role)
	require.NotEmpty(t, reg.Token)

	resp := s.do(t, http.MethodGet, "/api/cash-registers", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	regs := decode[[]dto.CashRegisterResponse](t, resp)
	require.Len(t, regs, 1)
	assert.Equal(t, entity.DefaultCashRegisterName, regs[0].Name)
	assert.True(t, regs[0].IsDefault)
	assert.True(t, regs[0].Balance.IsZero())
}

func TestRouter_TransaccionActualizaSaldoYSeElimina(t *testing.T) {
	s := newTestServer(t, "100-M")
	reg := s.registerCompany(t)

	resp := s.do(t, http.MethodPost, "/api/transactions", reg.Token, map[string]any{
		"date": "2024-03-01", "description": "Venta", "amount": "1500.50",
		"group": "OPERATING", "type": "INCOME", "account_type": "CASH",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mv := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "PAID", mv.Status)

	regs := decode[[]dto.CashRegisterResponse](t, s.do(t, http.MethodGet, "/api/cash-registers", reg.Token, nil))
	require.Len(t, regs, 1)
	assert.Equal(t, "1500.5", regs[0].Balance.String())

	// ADMIN no necesita código de administrador.
	resp = s.do(t, http.MethodDelete, "/api/transactions/"+mv.ID, reg.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/transactions/"+mv.ID, reg.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ValidacionDevuelve400(t *testing.T) {
	s := newTestServer(t, "100-M")
	reg := s.registerCompany(t)

	resp := s.do(t, http.MethodPost, "/api/transactions", reg.Token, map[string]any{"description": "sin fecha"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "date")
}

func TestRouter_UsuarioSinEmpresaNoAccedeAFinanzas(t *testing.T) {
	s := newTestServer(t, "100-M")
	resp := s.do(t, http.MethodPost, "/api/auth/signup", "", dto.SignUpRequest{
		Name: "Luis", Email: "luis@correo.mx", Password: "secreto123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, entity.RoleViewer, login.User.Role)
	assert.Empty(t, login.User.CompanyID)

	resp = s.do(t, http.MethodGet, "/api/transactions", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/api/admin-codes", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_AdminEmiteCodigo(t *testing.T) {
	s := newTestServer(t, "100-M")
	reg := s.registerCompany(t)

	resp := s.do(t, http.MethodPost, "/api/admin-codes", reg.Token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	code := decode[dto.AdminCodeResponse](t, resp)
	assert.Len(t, code.Code, 4)
}

func TestRouter_InvitacionInexistente(t *testing.T) {
	s := newTestServer(t, "100-M")
	resp := s.do(t, http.MethodGet, "/api/auth/invitations/ABCD", "", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INVALID_CODE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_LoginLimitadoPorIP(t *testing.T) {
	s := newTestServer(t, "2-M")
	bad := dto.LoginRequest{Email: "nadie@acme.mx", Password: "incorrecta"}

	for i := 0; i < 2; i++ {
		resp := s.do(t, http.MethodPost, "/api/auth/login", "", bad)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", bad)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_ComprobanteSinIADevuelve503(t *testing.T) {
	s := newTestServer(t, "100-M")
	reg := s.registerCompany(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "ticket.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/receipt-analysis", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "AI_UNAVAILABLE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_TokenDeUsuarioEliminado(t *testing.T) {
	s := newTestServer(t, "100-M")
	resp := s.do(t, http.MethodGet, "/api/users/me", bearer(t, newTokens(t), entity.RoleAdmin)[len("Bearer "):], nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
