package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	collectordto "flowmodoro/internal/modules/collector/dto"
	"flowmodoro/internal/modules/session/domain"
	sessionout "flowmodoro/internal/modules/session/port/out"
	apperrors "flowmodoro/internal/platform/errors"
)

// HTTPRemoteService talks to the collector API. baseURL includes the /api
// prefix, e.g. http://127.0.0.1:3001/api.
type HTTPRemoteService struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRemoteService(baseURL string, timeout time.Duration) sessionout.RemoteService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRemoteService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPRemoteService) CreateSession(ctx context.Context, record domain.Record) (string, error) {
	seconds := float64(record.Seconds)
	body, err := json.Marshal(collectordto.CreateSessionRequest{
		Seconds:   &seconds,
		Kind:      record.Kind,
		Action:    record.Action,
		Timestamp: record.Timestamp,
		LocalDay:  record.LocalDay,
	})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	var created collectordto.CreateSessionResponse
	if err := s.do(ctx, "create session", http.MethodPost, "/session", bytes.NewReader(body), &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", &apperrors.RemoteError{Op: "create session", Err: fmt.Errorf("%w: empty id", apperrors.ErrRemoteUnavailable)}
	}
	return created.ID, nil
}

func (s *HTTPRemoteService) Totals(ctx context.Context, day string) (domain.DayTotals, error) {
	var resp collectordto.TotalsResponse
	if err := s.do(ctx, "totals", http.MethodGet, "/totals/"+url.PathEscape(day), nil, &resp); err != nil {
		return domain.DayTotals{}, err
	}
	out := domain.DayTotals{
		Day:     day,
		PerKind: make(map[string]domain.KindTotal, len(resp.Totals)),
		Records: toRecords(resp.Sessions),
	}
	for kind, total := range resp.Totals {
		out.PerKind[kind] = domain.KindTotal{TotalSeconds: total.TotalSeconds, Records: toRecords(total.Sessions)}
	}
	return out, nil
}

func (s *HTTPRemoteService) Ping(ctx context.Context) error {
	var resp collectordto.PingResponse
	if err := s.do(ctx, "ping", http.MethodGet, "/ping", nil, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return &apperrors.RemoteError{Op: "ping", Err: apperrors.ErrRemoteUnavailable}
	}
	return nil
}

func (s *HTTPRemoteService) do(ctx context.Context, op, method, path string, body io.Reader, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return &apperrors.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return &apperrors.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var failure collectordto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return &apperrors.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, failure.Error)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &apperrors.RemoteError{Op: op, Status: resp.StatusCode, Err: apperrors.ErrRemoteUnavailable}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &apperrors.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: decode: %v", apperrors.ErrRemoteUnavailable, err)}
	}
	return nil
}

func toRecords(sessions []collectordto.SessionPayload) []domain.Record {
	out := make([]domain.Record, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, domain.Record{
			ID:        s.ID,
			Seconds:   s.Seconds,
			Kind:      s.Kind,
			Action:    s.Action,
			Timestamp: s.Timestamp,
			LocalDay:  s.LocalDay,
			Confirmed: true,
		})
	}
	return out
}
