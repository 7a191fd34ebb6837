package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pauloqxm/adatualiza/internal/members/match"
	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/internal/members/service"
	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
	"github.com/pauloqxm/adatualiza/pkg/validate"
)

// stubService records the last call and plays back canned results.
type stubService struct {
	searchQuery   match.Query
	searchResult  []models.Member
	searchErr     error
	registerUpd   models.Update
	registerID    int
	registerErr   error
	amendRow      int
	amendErr      error
	optionsResult service.Options
	optionsErr    error
}

func (s *stubService) Search(_ context.Context, q match.Query) ([]models.Member, error) {
	s.searchQuery = q
	return s.searchResult, s.searchErr
}

func (s *stubService) Register(_ context.Context, upd models.Update) (int, error) {
	s.registerUpd = upd
	return s.registerID, s.registerErr
}

func (s *stubService) Amend(_ context.Context, row int, upd models.Update) error {
	s.amendRow = row
	return s.amendErr
}

func (s *stubService) Options(_ context.Context) (service.Options, error) {
	return s.optionsResult, s.optionsErr
}

func newTestRouter(svc Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch(t *testing.T) {
	t.Run("returns matches with row positions", func(t *testing.T) {
		svc := &stubService{searchResult: []models.Member{
			{FullName: "Ana Souza Martins", RowPosition: 3},
		}}
		rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/members/search", map[string]string{
			"birth_date":  "02/11/1985",
			"mother_name": "Francisca",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Members []models.Member `json:"members"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Members, 1)
		require.Equal(t, 3, resp.Members[0].RowPosition)

		require.Equal(t, time.Date(1985, 11, 2, 0, 0, 0, 0, time.UTC), svc.searchQuery.BirthDate)
		require.Equal(t, "Francisca", svc.searchQuery.MotherName)
	})

	t.Run("no matches yields an empty list, not null", func(t *testing.T) {
		rec := doJSON(t, newTestRouter(&stubService{}), http.MethodPost, "/members/search", map[string]string{
			"birth_date":  "02/11/1985",
			"mother_name": "Francisca",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"members":[]}`, rec.Body.String())
	})

	t.Run("unparseable birth date is a bad request", func(t *testing.T) {
		rec := doJSON(t, newTestRouter(&stubService{}), http.MethodPost, "/members/search", map[string]string{
			"birth_date":  "not-a-date",
			"mother_name": "Francisca",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("backend outage maps to 503", func(t *testing.T) {
		svc := &stubService{searchErr: dErrors.New(dErrors.CodeUnavailable, "backend unavailable")}
		rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/members/search", map[string]string{
			"birth_date": "02/11/1985", "mother_name": "Francisca",
		})

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandleRegister(t *testing.T) {
	t.Run("created member id is returned", func(t *testing.T) {
		svc := &stubService{registerID: 7}
		rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/members", map[string]string{
			"full_name": "Carlos Eduardo Nunes",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.JSONEq(t, `{"member_id":7}`, rec.Body.String())
		require.NotNil(t, svc.registerUpd.FullName)
	})

	t.Run("validation failures list every violation", func(t *testing.T) {
		verrs := validate.Errors{"CPF deve ter 11 dígitos", "nome completo deve ter nome e sobrenome"}
		svc := &stubService{registerErr: dErrors.Wrap(verrs, dErrors.CodeValidation, "invalid member data")}
		rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/members", map[string]string{
			"full_name": "Ana",
		})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "validation", resp.Error)
		require.Len(t, resp.Details, 2)
	})

	t.Run("undecodable body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		newTestRouter(&stubService{}).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleAmend(t *testing.T) {
	t.Run("passes the row position through", func(t *testing.T) {
		svc := &stubService{}
		rec := doJSON(t, newTestRouter(svc), http.MethodPut, "/members/5", map[string]string{
			"phone": "88991234567",
		})

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, 5, svc.amendRow)
	})

	t.Run("non-numeric row is a bad request", func(t *testing.T) {
		rec := doJSON(t, newTestRouter(&stubService{}), http.MethodPut, "/members/abc", map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("header row rejection propagates", func(t *testing.T) {
		svc := &stubService{amendErr: dErrors.New(dErrors.CodeBadRequest, "row position precedes data rows")}
		rec := doJSON(t, newTestRouter(svc), http.MethodPut, "/members/1", map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleOptions(t *testing.T) {
	svc := &stubService{optionsResult: service.Options{
		Neighborhoods:   []string{"Centro"},
		MaritalStatuses: []string{"CASADO", "SOLTEIRO"},
		Nationalities:   []string{"BRASILEIRA"},
		Congregations:   []string{"SEDE"},
	}}
	req := httptest.NewRequest(http.MethodGet, "/members/options", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"SEDE"}, resp.Congregations)
}
