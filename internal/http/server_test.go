package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Bhavyabhvy/SpendIQ/internal/cache"
	"github.com/Bhavyabhvy/SpendIQ/internal/config"
	"github.com/Bhavyabhvy/SpendIQ/internal/services"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

type ServerSuite struct {
	suite.Suite
	server *Server
	repo   *storage.SQLiteRepository
	cookie *http.Cookie
}

func (s *ServerSuite) SetupTest() {
	repo, err := storage.NewSQLiteRepository(filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.repo = repo

	cfg := &config.Config{
		Port:             "0",
		SQLiteDBPath:     ":memory:",
		SessionTTL:       time.Hour,
		SummaryCacheSize: 10,
		SummaryCacheTTL:  time.Minute,
	}

	users := services.NewUserService(repo, cfg.SessionTTL)
	expenses := services.NewExpenseService(repo)
	salaries := services.NewSalaryService(repo)
	reports := services.NewReportService(repo, nil, cache.NewLRU[*services.MonthlyReport](cfg.SummaryCacheSize, cfg.SummaryCacheTTL))

	s.server = NewServer(cfg, users, expenses, salaries, reports)
	s.cookie = nil
}

func (s *ServerSuite) TearDownTest() {
	s.repo.Close()
}

func (s *ServerSuite) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerSuite) registerAndLogin() {
	rec := s.do(http.MethodPost, "/register", url.Values{
		"name":     {"Asha"},
		"email":    {"asha@example.com"},
		"password": {"secret123"},
	})
	s.Require().Equal(http.StatusSeeOther, rec.Code)

	rec = s.do(http.MethodPost, "/login", url.Values{
		"email":    {"asha@example.com"},
		"password": {"secret123"},
	})
	s.Require().Equal(http.StatusSeeOther, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			s.cookie = c
		}
	}
	s.Require().NotNil(s.cookie, "login should set a session cookie")
}

func (s *ServerSuite) addExpense(date, category, amount string) {
	rec := s.do(http.MethodPost, "/expenses", url.Values{
		"date":     {date},
		"category": {category},
		"amount":   {amount},
		"note":     {""},
	})
	s.Require().Equal(http.StatusSeeOther, rec.Code)
}

func (s *ServerSuite) TestAnonymousRedirectedToLogin() {
	rec := s.do(http.MethodGet, "/expenses", nil)
	s.Equal(http.StatusSeeOther, rec.Code)
	s.Equal("/login", rec.Header().Get("Location"))
}

func (s *ServerSuite) TestLoginWrongPassword() {
	s.registerAndLogin()
	s.cookie = nil

	rec := s.do(http.MethodPost, "/login", url.Values{
		"email":    {"asha@example.com"},
		"password": {"wrong"},
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "Invalid email or password")
}

func (s *ServerSuite) TestRegisterDuplicateEmail() {
	s.registerAndLogin()
	s.cookie = nil

	rec := s.do(http.MethodPost, "/register", url.Values{
		"name":     {"Other"},
		"email":    {"asha@example.com"},
		"password": {"pw"},
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "Email already registered")
}

func (s *ServerSuite) TestExpenseLifecycle() {
	s.registerAndLogin()
	s.addExpense("2024-03-05", "Food", "500")

	rec := s.do(http.MethodGet, "/expenses?year=2024&month=3", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "2024-03-05")
	s.Contains(body, "Food")
	s.Contains(body, "Rs.500.00")
}

func (s *ServerSuite) TestAddExpenseInvalidAmount() {
	s.registerAndLogin()

	rec := s.do(http.MethodPost, "/expenses", url.Values{
		"date":     {"2024-03-05"},
		"category": {"Food"},
		"amount":   {"abc"},
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(rec.Body.String(), "Invalid amount")
}

func (s *ServerSuite) TestSalaryFixedOnceWithWarning() {
	s.registerAndLogin()

	rec := s.do(http.MethodPost, "/salary?year=2024&month=3", url.Values{"amount": {"50000"}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Salary fixed")

	rec = s.do(http.MethodPost, "/salary?year=2024&month=3", url.Values{"amount": {"99999"}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Salary already fixed for this month")
	s.Contains(rec.Body.String(), "Rs.50000.00")
}

func (s *ServerSuite) TestReportEmptyMonth() {
	s.registerAndLogin()

	rec := s.do(http.MethodGet, "/report?year=2024&month=4", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "No expenses this month")
}

func (s *ServerSuite) TestReportWithData() {
	s.registerAndLogin()
	s.do(http.MethodPost, "/salary?year=2024&month=3", url.Values{"amount": {"50000"}})
	s.addExpense("2024-03-05", "Food", "500")
	s.addExpense("2024-03-09", "Travel", "1500")

	rec := s.do(http.MethodGet, "/report?year=2024&month=3", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "Rs.2000.00")  // total
	s.Contains(body, "Rs.48000.00") // remaining
	s.Contains(body, "Travel")      // max category
	s.NotContains(body, "Low balance alert")
}

func (s *ServerSuite) TestReportLowBalanceAlert() {
	s.registerAndLogin()
	s.do(http.MethodPost, "/salary?year=2024&month=3", url.Values{"amount": {"1000"}})
	s.addExpense("2024-03-05", "Rent", "950")

	rec := s.do(http.MethodGet, "/report?year=2024&month=3", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Low balance alert")
}

func (s *ServerSuite) TestCSVDownload() {
	s.registerAndLogin()
	s.addExpense("2024-03-05", "Food", "500")

	rec := s.do(http.MethodGet, "/report/csv?year=2024&month=3", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("text/csv", rec.Header().Get("Content-Type"))
	s.Contains(rec.Header().Get("Content-Disposition"), "2024-03_expenses.csv")
	s.Contains(rec.Body.String(), "2024-03-05,Food,500.00")
}

func (s *ServerSuite) TestPDFDownloadEmptyMonthIs404() {
	s.registerAndLogin()

	rec := s.do(http.MethodGet, "/report/pdf?year=2024&month=4", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestLogoutInvalidatesSession() {
	s.registerAndLogin()

	rec := s.do(http.MethodPost, "/logout", nil)
	s.Require().Equal(http.StatusSeeOther, rec.Code)

	rec = s.do(http.MethodGet, "/expenses", nil)
	s.Equal(http.StatusSeeOther, rec.Code)
	s.Equal("/login", rec.Header().Get("Location"))
}

func (s *ServerSuite) TestHealthEndpoints() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/readyz", nil).Code)
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}
