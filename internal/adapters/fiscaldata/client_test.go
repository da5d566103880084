package fiscaldata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/purchase_transactions/internal/adapters/fiscaldata"
	"github.com/SscSPs/purchase_transactions/internal/apperrors"
	portssvc "github.com/SscSPs/purchase_transactions/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var _ portssvc.ExchangeRateResolver = (*fiscaldata.Client)(nil)

type ClientTestSuite struct {
	suite.Suite
	server *httptest.Server
	client *fiscaldata.Client
	txDate time.Time
	ctx    context.Context
	calls  atomic.Int32

	mu         sync.Mutex
	status     int
	body       string
	lastURL    *url.URL
	lastMethod string
}

func (s *ClientTestSuite) respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

func (s *ClientTestSuite) lastRequest() (string, *url.URL) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMethod, s.lastURL
}

func (s *ClientTestSuite) SetupTest() {
	s.respond(http.StatusOK, `{"data":[]}`)
	s.calls.Store(0)
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.mu.Lock()
		s.lastURL = r.URL
		s.lastMethod = r.Method
		status, body := s.status, s.body
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	s.client = fiscaldata.NewClient(fiscaldata.Config{BaseURL: s.server.URL, Timeout: 5 * time.Second}, nil)
	s.txDate = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) TestResolveRate_Success() {
	s.respond(http.StatusOK, `{"data":[{"record_date":"2024-03-31","exchange_rate":"5.478","currency":"Real"}]}`)

	rate, err := s.client.ResolveRate(s.ctx, "Real", s.txDate)

	s.Require().NoError(err)
	s.True(decimal.RequireFromString("5.478").Equal(rate.Rate), "rate must be parsed exactly, got %s", rate.Rate)
	s.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), rate.RecordDate)
	s.Equal("REAL", rate.CurrencyCode)
}

func (s *ClientTestSuite) TestResolveRate_QueryParameters() {
	s.respond(http.StatusOK, `{"data":[{"record_date":"2024-06-28","exchange_rate":"0.93"}]}`)

	_, err := s.client.ResolveRate(s.ctx, " Euro ", s.txDate)

	s.Require().NoError(err)
	method, u := s.lastRequest()
	s.Require().NotNil(u)
	q := u.Query()
	s.Equal("currency:eq:Euro,record_date:lte:2024-06-30", q.Get("filter"))
	s.Equal("-record_date", q.Get("sort"))
	s.Equal("json", q.Get("format"))
	s.Equal("1", q.Get("page[size]"))
	s.Equal(http.MethodGet, method)
}

func (s *ClientTestSuite) TestResolveRate_UsesOnlyFirstRecord() {
	s.respond(http.StatusOK, `{"data":[
		{"record_date":"2024-06-28","exchange_rate":"1.10"},
		{"record_date":"2024-03-31","exchange_rate":"9.99"},
		{"record_date":"2023-12-31"}
	]}`)

	rate, err := s.client.ResolveRate(s.ctx, "EUR", s.txDate)

	s.Require().NoError(err)
	s.True(decimal.RequireFromString("1.10").Equal(rate.Rate))
	s.Equal(time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC), rate.RecordDate)
}

func (s *ClientTestSuite) TestResolveRate_BlankCurrencyNeverCallsUpstream() {
	for _, code := range []string{"", "   ", "\t"} {
		rate, err := s.client.ResolveRate(s.ctx, code, s.txDate)

		s.Nil(rate)
		s.Equal(apperrors.KindCurrencyCodeRequired, apperrors.KindOf(err))
	}
	s.Equal(int32(0), s.calls.Load())
}

func (s *ClientTestSuite) TestResolveRate_UpstreamErrorCarriesStatus() {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		s.respond(status, `{"error":"nope"}`)

		_, err := s.client.ResolveRate(s.ctx, "EUR", s.txDate)

		var appErr *apperrors.AppError
		s.Require().ErrorAs(err, &appErr)
		s.Equal(apperrors.KindUpstreamError, appErr.Kind)
		s.Equal(status, appErr.StatusCode)
	}
}

func (s *ClientTestSuite) TestResolveRate_NoRecords() {
	for _, body := range []string{`{"data":[]}`, `{}`, `{"data":null}`} {
		s.respond(http.StatusOK, body)

		_, err := s.client.ResolveRate(s.ctx, "XYZ", s.txDate)

		s.Equal(apperrors.KindNoRatesFound, apperrors.KindOf(err), "body %s", body)
	}
}

func (s *ClientTestSuite) TestResolveRate_FieldMissing() {
	tests := []struct {
		body  string
		field string
	}{
		{`{"data":[{"exchange_rate":"1.0"}]}`, "record_date"},
		{`{"data":[{"record_date":"2024-06-01"}]}`, "exchange_rate"},
		{`{"data":[{}]}`, "record_date"},
	}

	for _, tt := range tests {
		s.respond(http.StatusOK, tt.body)

		_, err := s.client.ResolveRate(s.ctx, "EUR", s.txDate)

		var appErr *apperrors.AppError
		s.Require().ErrorAs(err, &appErr)
		s.Equal(apperrors.KindFieldMissing, appErr.Kind)
		s.Equal(tt.field, appErr.Field)
	}
}

func (s *ClientTestSuite) TestResolveRate_MalformedValues() {
	tests := []string{
		`{"data":[{"record_date":"31/03/2024","exchange_rate":"1.0"}]}`,
		`{"data":[{"record_date":"2024-03-31","exchange_rate":"1,05"}]}`,
		`{"data":[{"record_date":"2024-03-31","exchange_rate":1.05}]}`,
		`not json`,
	}

	for _, body := range tests {
		s.respond(http.StatusOK, body)

		_, err := s.client.ResolveRate(s.ctx, "EUR", s.txDate)

		s.Equal(apperrors.KindMalformedUpstreamData, apperrors.KindOf(err), "body %s", body)
	}
}

func (s *ClientTestSuite) TestResolveRate_StalenessBoundary() {
	// 2024-06-30 minus 183 days is 2023-12-30.
	s.respond(http.StatusOK, `{"data":[{"record_date":"2023-12-30","exchange_rate":"0.90"}]}`)
	rate, err := s.client.ResolveRate(s.ctx, "EUR", s.txDate)
	s.Require().NoError(err)
	s.NotNil(rate)

	s.respond(http.StatusOK, `{"data":[{"record_date":"2023-12-29","exchange_rate":"0.90"}]}`)
	_, err = s.client.ResolveRate(s.ctx, "EUR", s.txDate)
	s.Equal(apperrors.KindRateOutdated, apperrors.KindOf(err))
}

func (s *ClientTestSuite) TestResolveRate_StalenessIgnoresTimeOfDay() {
	s.respond(http.StatusOK, `{"data":[{"record_date":"2023-12-30","exchange_rate":"0.90"}]}`)

	_, err := s.client.ResolveRate(s.ctx, "EUR", s.txDate.Add(23*time.Hour))

	s.NoError(err)
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestResolveRate_HonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := fiscaldata.NewClient(fiscaldata.Config{BaseURL: server.URL}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ResolveRate(ctx, "EUR", time.Now())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnknown, apperrors.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	client := fiscaldata.NewClient(fiscaldata.Config{}, http.DefaultClient)
	assert.NotNil(t, client)
}
